package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/fenilsonani/reclaim/internal/classify"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
)

const selectPageSize = 15

// SelectViewModel lets the user pick candidate folders to quarantine.
// Only reclaimable categories are selectable; the rest are listed dimmed
// for context.
type SelectViewModel struct {
	folders  []scanner.CandidateFolder
	selected map[int]bool
	cursor   int
	offset   int
}

// NewSelectViewModel creates a new selection view over the scan result.
func NewSelectViewModel(result *scanner.ScanResult) *SelectViewModel {
	return &SelectViewModel{
		folders:  result.Folders,
		selected: make(map[int]bool),
	}
}

// Update handles messages
func (m *SelectViewModel) Update(msg tea.Msg) (*SelectViewModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.folders)-1 {
			m.cursor++
		}
	case " ":
		if m.selectable(m.cursor) {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
	case "a":
		all := true
		for i := range m.folders {
			if m.selectable(i) && !m.selected[i] {
				all = false
				break
			}
		}
		for i := range m.folders {
			if m.selectable(i) {
				m.selected[i] = !all
			}
		}
	case "enter":
		paths := m.SelectedPaths()
		if len(paths) == 0 {
			return m, nil
		}
		return m, func() tea.Msg { return FoldersSelectedMsg{Paths: paths} }
	}

	// Keep the cursor inside the visible window.
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+selectPageSize {
		m.offset = m.cursor - selectPageSize + 1
	}

	return m, nil
}

func (m *SelectViewModel) selectable(i int) bool {
	return i >= 0 && i < len(m.folders) && classify.Reclaimable(m.folders[i].Category)
}

// SelectedPaths returns the paths of all checked folders.
func (m *SelectViewModel) SelectedPaths() []string {
	var paths []string
	for i, folder := range m.folders {
		if m.selected[i] {
			paths = append(paths, folder.Path)
		}
	}
	return paths
}

// SelectedSize returns the total size of all checked folders.
func (m *SelectViewModel) SelectedSize() uint64 {
	var total uint64
	for i, folder := range m.folders {
		if m.selected[i] {
			total += folder.SizeBytes
		}
	}
	return total
}

// View renders the selection view
func (m *SelectViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("📦 Select Folders to Quarantine"))
	b.WriteString("\n\n")

	end := m.offset + selectPageSize
	if end > len(m.folders) {
		end = len(m.folders)
	}

	for i := m.offset; i < end; i++ {
		folder := m.folders[i]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("> ")
		}

		var box string
		switch {
		case !m.selectable(i):
			box = styles.DimStyle.Render("–")
		case m.selected[i]:
			box = styles.CheckedBox()
		default:
			box = styles.UncheckedBox()
		}

		line := fmt.Sprintf("%s%s %-50s %10s  %s",
			cursor, box,
			truncatePath(folder.Path, 50),
			humanize.IBytes(folder.SizeBytes),
			styles.CategoryStyle.Render(string(folder.Category)),
		)
		if !m.selectable(i) {
			line = styles.DimStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.folders) > selectPageSize {
		b.WriteString(styles.DimStyle.Render(
			fmt.Sprintf("\n%d-%d of %d", m.offset+1, end, len(m.folders))))
	}

	b.WriteString("\n")
	if n := len(m.SelectedPaths()); n > 0 {
		b.WriteString(fmt.Sprintf("Selected: %s folders, %s\n",
			styles.BoldStyle.Render(fmt.Sprintf("%d", n)),
			styles.SizeStyle.Render(humanize.IBytes(m.SelectedSize()))))
	}
	b.WriteString(styles.HelpStyle.Render("↑/↓ move · space toggle · a all · enter continue · q quit"))

	return b.String()
}
