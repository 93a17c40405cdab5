package models

import (
	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/quarantine"
	"github.com/fenilsonani/reclaim/internal/scanner"
)

// ScanProgressMsg carries one progress snapshot from the running scan.
type ScanProgressMsg struct {
	Snapshot progress.Snapshot
}

// ScanCompleteMsg is sent when the scan finishes successfully.
type ScanCompleteMsg struct {
	Result *scanner.ScanResult
}

// ScanFailedMsg is sent when the scan aborts.
type ScanFailedMsg struct {
	Err error
}

// FoldersSelectedMsg carries the paths picked for quarantine.
type FoldersSelectedMsg struct {
	Paths []string
}

// QuarantineConfirmedMsg is sent when the user confirms the batch.
type QuarantineConfirmedMsg struct{}

// QuarantineDoneMsg carries the outcome of the quarantine batch.
type QuarantineDoneMsg struct {
	Result *quarantine.BatchResult
	Err    error
}
