package tui

import (
	"sectiongrid/internal/reorder"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the board in the alternate screen and blocks until the user quits.
func Run(board *reorder.Store, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(board, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
