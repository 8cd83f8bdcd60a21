package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strandkit/strand"
	bt "github.com/strandkit/strand/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, send bt.ChatFunc) bt.Model {
	t.Helper()
	return initModelWithSession(t, send, &strand.Session{})
}

func initModelWithSession(t *testing.T, send bt.ChatFunc, session *strand.Session) bt.Model {
	t.Helper()
	m := bt.New(send, session, strand.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopSend is a send function that completes immediately without streaming.
func nopSend(_ context.Context, _ *strand.Session, _ string, _ func(string)) error {
	return nil
}
