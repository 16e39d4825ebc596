package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the demo in the alternate screen and blocks until it exits.
func Run(opts Options) error {
	if _, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
