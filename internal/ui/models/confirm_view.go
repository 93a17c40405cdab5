package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/fenilsonani/reclaim/internal/ui/styles"
)

// ConfirmViewModel asks for a final go-ahead before the batch is moved to
// the trash.
type ConfirmViewModel struct {
	paths  []string
	size   uint64
	cursor int // 0 = Quarantine, 1 = Cancel
}

// NewConfirmViewModel creates a new confirm view model
func NewConfirmViewModel(paths []string, size uint64) *ConfirmViewModel {
	return &ConfirmViewModel{
		paths:  paths,
		size:   size,
		cursor: 1, // cancel is the safe default
	}
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) (*ConfirmViewModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h", "right", "l", "tab":
		m.cursor = 1 - m.cursor
	case "enter":
		if m.cursor == 0 {
			return m, func() tea.Msg { return QuarantineConfirmedMsg{} }
		}
		return m, func() tea.Msg { return FoldersSelectedMsg{Paths: nil} }
	case "y":
		return m, func() tea.Msg { return QuarantineConfirmedMsg{} }
	case "n":
		return m, func() tea.Msg { return FoldersSelectedMsg{Paths: nil} }
	}

	return m, nil
}

// View renders the confirm view
func (m *ConfirmViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("⚠️  Confirm Quarantine"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Move %s folders (%s) to the trash?\n\n",
		styles.BoldStyle.Render(fmt.Sprintf("%d", len(m.paths))),
		styles.SizeStyle.Render(humanize.IBytes(m.size))))

	shown := m.paths
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, path := range shown {
		b.WriteString("  ")
		b.WriteString(styles.PathStyle.Render(truncatePath(path, 64)))
		b.WriteString("\n")
	}
	if len(m.paths) > 8 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ... and %d more\n", len(m.paths)-8)))
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Folders are moved to the trash and can be restored.\n\n"))

	options := []string{"Quarantine", "Cancel"}
	for i, option := range options {
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("[" + option + "]"))
		} else {
			b.WriteString(styles.DimStyle.Render(" " + option + " "))
		}
		b.WriteString("  ")
	}

	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("←/→ choose · enter confirm · y/n shortcut"))

	return b.String()
}
