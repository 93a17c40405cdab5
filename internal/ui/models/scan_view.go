package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
)

// ScanViewModel handles the scanning progress view
type ScanViewModel struct {
	scanner   *scanner.Scanner
	snapshots <-chan progress.Snapshot
	spinner   spinner.Model
	scanning  bool
	startTime time.Time
	current   progress.Snapshot
	result    *scanner.ScanResult
	err       error
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(s *scanner.Scanner) *ScanViewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SelectedStyle

	return &ScanViewModel{
		scanner:   s,
		snapshots: s.Progress().Subscribe(),
		spinner:   sp,
		scanning:  true,
		startTime: time.Now(),
	}
}

// Init starts the scan and the snapshot pump.
func (m *ScanViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.performScan,
		m.waitForSnapshot,
	)
}

// performScan runs the scan to completion as a single command.
func (m *ScanViewModel) performScan() tea.Msg {
	result, err := m.scanner.SmartScan(context.Background())
	if err != nil {
		return ScanFailedMsg{Err: err}
	}
	return ScanCompleteMsg{Result: result}
}

// waitForSnapshot delivers the next progress snapshot, re-armed by Update
// after each delivery.
func (m *ScanViewModel) waitForSnapshot() tea.Msg {
	snapshot, ok := <-m.snapshots
	if !ok {
		return nil
	}
	return ScanProgressMsg{Snapshot: snapshot}
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		m.current = msg.Snapshot
		return m, m.waitForSnapshot

	case ScanCompleteMsg:
		m.scanning = false
		m.result = msg.Result
		m.scanner.Progress().Unsubscribe(m.snapshots)
		return m, nil

	case ScanFailedMsg:
		m.scanning = false
		m.err = msg.Err
		m.scanner.Progress().Unsubscribe(m.snapshots)
		return m, nil
	}

	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🔍 Scanning for Reclaimable Space"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ Scan failed"))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("Press q to quit"))
		return b.String()
	}

	if m.scanning {
		b.WriteString(m.spinner.View())
		b.WriteString(" Scanning... ")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
		b.WriteString("\n\n")

		b.WriteString(styles.ProgressBar(m.current.Percent, 40))
		b.WriteString(fmt.Sprintf(" %.1f%%\n", m.current.Percent))
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d of %d folders sized",
			m.current.ScannedFolders, m.current.TotalFolders)))
		b.WriteString("\n\n")

		if m.current.CurrentFolder != "" {
			b.WriteString(styles.DimStyle.Render("Current: "))
			b.WriteString(styles.PathStyle.Render(truncatePath(m.current.CurrentFolder, 60)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(styles.SuccessStyle.Render("✓ Scan Complete!"))
		b.WriteString("\n\n")

		if m.result != nil {
			b.WriteString(fmt.Sprintf("Found %s candidate folders totaling %s\n",
				styles.BoldStyle.Render(fmt.Sprintf("%d", len(m.result.Folders))),
				styles.SizeStyle.Render(humanize.IBytes(m.result.TotalSizeBytes)),
			))
		}
	}

	return b.String()
}

// truncatePath shortens a path to fit in maxLen, keeping the tail.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
