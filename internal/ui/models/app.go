package models

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/oplock"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/quarantine"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewScanning ViewState = iota
	ViewSelection
	ViewConfirmation
	ViewQuarantining
	ViewSummary
)

// AppModel is the root model for the interactive TUI
type AppModel struct {
	state ViewState

	// Shared data
	config       *config.Config
	platformInfo *platform.Info
	lock         *oplock.Lock
	scanResult   *scanner.ScanResult

	// View models
	scanView    *ScanViewModel
	selectView  *SelectViewModel
	confirmView *ConfirmViewModel
	summaryView *SummaryViewModel

	// Quarantine-in-flight state
	busySpinner spinner.Model
	pending     []string

	width  int
	height int
}

// NewAppModel creates a new app model
func NewAppModel(cfg *config.Config, platformInfo *platform.Info, lock *oplock.Lock) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SelectedStyle

	return &AppModel{
		state:        ViewScanning,
		config:       cfg,
		platformInfo: platformInfo,
		lock:         lock,
		busySpinner:  sp,
	}
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	m.scanView = NewScanViewModel(scanner.New(m.config, m.platformInfo, m.lock))
	return m.scanView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != ViewQuarantining {
				return m, tea.Quit
			}
		case "esc":
			if m.state == ViewConfirmation {
				m.state = ViewSelection
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ScanCompleteMsg:
		m.scanResult = msg.Result
		var cmd tea.Cmd
		m.scanView, cmd = m.scanView.Update(msg)
		m.selectView = NewSelectViewModel(m.scanResult)
		m.state = ViewSelection
		return m, cmd

	case FoldersSelectedMsg:
		if len(msg.Paths) == 0 {
			m.state = ViewSelection
			return m, nil
		}
		m.pending = msg.Paths
		m.confirmView = NewConfirmViewModel(msg.Paths, m.selectView.SelectedSize())
		m.state = ViewConfirmation
		return m, nil

	case QuarantineConfirmedMsg:
		m.state = ViewQuarantining
		return m, tea.Batch(m.busySpinner.Tick, m.performQuarantine)

	case QuarantineDoneMsg:
		m.summaryView = NewSummaryViewModel(msg.Result, msg.Err)
		m.state = ViewSummary
		return m, nil

	case spinner.TickMsg:
		if m.state == ViewQuarantining {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(msg)
			return m, cmd
		}
	}

	// Route everything else to the active view.
	var cmd tea.Cmd
	switch m.state {
	case ViewScanning:
		m.scanView, cmd = m.scanView.Update(msg)
	case ViewSelection:
		m.selectView, cmd = m.selectView.Update(msg)
	case ViewConfirmation:
		m.confirmView, cmd = m.confirmView.Update(msg)
	case ViewSummary:
		m.summaryView, cmd = m.summaryView.Update(msg)
	}
	return m, cmd
}

// performQuarantine runs the confirmed batch as a single command.
func (m *AppModel) performQuarantine() tea.Msg {
	engine, err := quarantine.NewEngine(m.config, m.platformInfo, m.lock, m.scanResult)
	if err != nil {
		return QuarantineDoneMsg{Err: err}
	}
	result, err := engine.Quarantine(context.Background(), m.pending)
	return QuarantineDoneMsg{Result: result, Err: err}
}

// View renders the current view
func (m *AppModel) View() string {
	switch m.state {
	case ViewScanning:
		return m.scanView.View()
	case ViewSelection:
		return m.selectView.View()
	case ViewConfirmation:
		return m.confirmView.View()
	case ViewQuarantining:
		var b strings.Builder
		b.WriteString(styles.TitleStyle.Render("🗑  Moving to Trash"))
		b.WriteString("\n\n")
		b.WriteString(m.busySpinner.View())
		b.WriteString(" Working...")
		return b.String()
	case ViewSummary:
		return m.summaryView.View()
	}
	return ""
}
