package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the live search view over eng and blocks until the user quits.
// Any search still in progress is stopped before Run returns.
func Run(ctx context.Context, eng Engine) error {
	m := NewModel(ctx, eng)
	unsubscribe := eng.Subscribe(m.events)
	defer unsubscribe()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	m.events.close()
	eng.RequestStop()
	eng.Wait()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
