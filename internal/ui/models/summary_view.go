package models

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/fenilsonani/reclaim/internal/quarantine"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
)

// SummaryViewModel shows the outcome of the quarantine batch.
type SummaryViewModel struct {
	result *quarantine.BatchResult
	err    error
}

// NewSummaryViewModel creates a new summary view model
func NewSummaryViewModel(result *quarantine.BatchResult, err error) *SummaryViewModel {
	return &SummaryViewModel{result: result, err: err}
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	return m, nil
}

// View renders the summary view
func (m *SummaryViewModel) View() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ Quarantine failed"))
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("Press q to quit"))
		return b.String()
	}

	b.WriteString(styles.TitleStyle.Render("✨ Quarantine Summary"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Moved to trash: %s folders\n",
		styles.BoldStyle.Render(fmt.Sprintf("%d", m.result.Trashed))))
	b.WriteString(fmt.Sprintf("Space reclaimed: %s\n",
		styles.SizeStyle.Render(humanize.IBytes(m.result.FreedBytes))))

	if m.result.Failed > 0 {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("%d failed:", m.result.Failed)))
		b.WriteString("\n")

		var failed []quarantine.Outcome
		for _, outcome := range m.result.Outcomes {
			if outcome.Failure != nil {
				failed = append(failed, outcome)
			}
		}
		sort.Slice(failed, func(i, j int) bool { return failed[i].Path < failed[j].Path })
		for _, outcome := range failed {
			b.WriteString("  ")
			b.WriteString(outcome.Failure.UserMessage())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Restore anytime with: reclaim restore <path>\n\n"))
	b.WriteString(styles.HelpStyle.Render("Press q to quit"))

	return b.String()
}
