package tui

import (
	"dayboard-cli/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the board against the given persistence client and blocks until
// the user quits. Mouse motion reporting is required for drag hover tracking.
func Run(client api.Client) error {
	applyColorProfilePreference()
	m := newAppModel(client)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
