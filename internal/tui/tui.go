package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"rctui/internal/config"
	"rctui/internal/store"
)

// Run starts the interactive session and blocks until it exits. The helper
// process never outlives the session: teardown kills any live handle no
// matter how the program loop ends.
func Run(cfg config.Config, log *store.EventLog) error {
	m := newAppModel(cfg, log)
	defer m.sup.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
