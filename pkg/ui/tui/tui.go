package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TUI wraps the bubbletea program for the dashboard
type TUI struct {
	program *tea.Program
}

// New creates a dashboard TUI over the given backend
func New(backend Backend) *TUI {
	model := NewModel(backend)
	return &TUI{
		program: tea.NewProgram(model, tea.WithAltScreen()),
	}
}

// Run blocks until the user quits
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// Stop quits the program
func (t *TUI) Stop() {
	t.program.Quit()
}
