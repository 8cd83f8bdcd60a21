// Package bubbletea provides the Bubble Tea TUI for interactive chat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strandkit/strand"
)

// ChatFunc runs one conversation turn. The onSnapshot callback receives the
// full accumulated reply text after each delta. The function blocks until the
// turn completes or the context is cancelled.
type ChatFunc func(ctx context.Context, session *strand.Session, prompt string, onSnapshot func(string)) error

// Run starts the Bubble Tea program and blocks until it exits. Cancelling ctx
// quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SnapshotMsg carries the full reply text accumulated so far.
type SnapshotMsg struct {
	Text string
}

// ChatDoneMsg signals that the current turn has finished.
type ChatDoneMsg struct {
	Err error
}
