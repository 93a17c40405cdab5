package scanner

import (
	"fmt"

	"github.com/fenilsonani/reclaim/internal/classify"
)

// CandidateFolder is a directory identified as a unit of categorization:
// the thing a user sees, selects, and quarantines. Immutable once its size
// has been computed.
type CandidateFolder struct {
	Name      string            `json:"name" yaml:"name"`
	Path      string            `json:"path" yaml:"path"`
	SizeBytes uint64            `json:"size_bytes" yaml:"size_bytes"`
	Category  classify.Category `json:"category" yaml:"category"`
}

// ScanResult is the final report of one scan. TotalSizeBytes is always the
// exact sum of the folder sizes; nested matches are absorbed into their
// outermost claim so nothing is counted twice.
type ScanResult struct {
	TotalSizeBytes uint64            `json:"total_size_bytes"`
	Folders        []CandidateFolder `json:"folders"`
	// SoftErrors counts per-entry I/O failures that were absorbed during
	// traversal. The affected subtrees contribute zero bytes.
	SoftErrors uint64 `json:"soft_errors,omitempty"`
}

// FatalScanError reports that every scan root was unreachable. Per-root
// failures are soft as long as at least one root completes.
type FatalScanError struct {
	RootErrors map[string]error
}

func (e *FatalScanError) Error() string {
	return fmt.Sprintf("scan failed: all %d roots unreachable", len(e.RootErrors))
}
