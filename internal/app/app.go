package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/homelab-core/dispatchrr/internal/github"
	"github.com/homelab-core/dispatchrr/internal/store"
	"github.com/homelab-core/dispatchrr/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	ConfigPath string
	Repo       string
	Verbose    bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	st, err := store.New(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	client := github.NewClient(github.NewRunner())
	model := ui.NewModel(client, client, st, cfg.Repo)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
