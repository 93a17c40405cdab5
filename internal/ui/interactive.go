// Package ui implements the interactive terminal flow: scan with live
// progress, pick candidate folders, confirm, quarantine, summarize.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/oplock"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/ui/models"
)

// Run starts the interactive session and blocks until the user quits.
func Run(cfg *config.Config, plat *platform.Info, lock *oplock.Lock) error {
	program := tea.NewProgram(
		models.NewAppModel(cfg, plat, lock),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}
