package bubbletea_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/strandkit/strand"
	bt "github.com/strandkit/strand/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(nopSend, &strand.Session{}, strand.DefaultTheme())
	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	t.Run("initializes viewport", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, nopSend)
		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - input(1) - status(1) - gaps(2)
		assert.NotEmpty(t, m.View())
	})

	t.Run("resize updates dimensions", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, nopSend)
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
		assert.Equal(t, 120, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
	})
}

func TestModel_RendersSessionHistory(t *testing.T) {
	t.Parallel()

	session := &strand.Session{
		Messages: []strand.Message{
			strand.UserMessage{Text: "what is two plus two"},
			strand.AssistantMessage{Text: "Four.", Outcome: strand.OutcomeComplete},
		},
	}
	m := initModelWithSession(t, nopSend, session)
	content := m.Viewport.View()
	assert.Contains(t, content, "what is two plus two")
	assert.Contains(t, content, "Four.")
}

func TestModel_RendersFailedTurnDetail(t *testing.T) {
	t.Parallel()

	session := &strand.Session{
		Messages: []strand.Message{
			strand.UserMessage{Text: "hi"},
			strand.AssistantMessage{Outcome: strand.OutcomeFailed, Detail: "rate limited"},
		},
	}
	m := initModelWithSession(t, nopSend, session)
	assert.Contains(t, m.Viewport.View(), "rate limited")
}

func TestModel_Keys(t *testing.T) {
	t.Parallel()

	t.Run("ctrl+c when idle quits", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, nopSend)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("ctrl+c while running cancels instead of quitting", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, nopSend)
		cancelled := false
		m, _ = bt.SetRunningWithCancel(m, func() { cancelled = true })

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		assert.Nil(t, cmd)
		assert.True(t, cancelled)
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, nopSend)
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, m.Running())
	})

	t.Run("enter while running is ignored", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, nopSend)
		m, _ = bt.SetRunning(m)
		m.Input.SetValue("queued")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, "queued", m.Input.Value(), "input is preserved while running")
	})
}

func TestModel_SubmitStartsTurn(t *testing.T) {
	t.Parallel()

	m := initModel(t, nopSend)
	m.Input.SetValue("hello there")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(bt.Model)

	assert.True(t, m.Running())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.Input.Value())
	assert.Contains(t, m.Viewport.View(), "hello there")
}

func TestModel_SnapshotReplacesReplyText(t *testing.T) {
	t.Parallel()

	m := initModel(t, nopSend)
	m.Input.SetValue("hi")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(bt.Model)

	m = updateModel(t, m, bt.SnapshotMsg{Text: "Hel"})
	assert.Contains(t, m.Viewport.View(), "Hel")

	// The next snapshot carries the full text, not a delta.
	m = updateModel(t, m, bt.SnapshotMsg{Text: "Hello world"})
	content := m.Viewport.View()
	assert.Contains(t, content, "Hello world")
	assert.NotContains(t, content, "HelHello")
}

func TestModel_Done(t *testing.T) {
	t.Parallel()

	submit := func(t *testing.T) bt.Model {
		t.Helper()
		m := initModel(t, nopSend)
		m.Input.SetValue("hi")
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return updated.(bt.Model)
	}

	t.Run("success returns to idle", func(t *testing.T) {
		t.Parallel()
		m := submit(t)
		m = updateModel(t, m, bt.SnapshotMsg{Text: "done"})
		m = updateModel(t, m, bt.ChatDoneMsg{})
		assert.False(t, m.Running())
		assert.NoError(t, m.Err())
		assert.Contains(t, m.Viewport.View(), "done")
	})

	t.Run("failure surfaces the error", func(t *testing.T) {
		t.Parallel()
		m := submit(t)
		m = updateModel(t, m, bt.ChatDoneMsg{Err: errors.New("rate limited")})
		assert.False(t, m.Running())
		assert.Error(t, m.Err())
		assert.Contains(t, m.View(), "rate limited")
	})

	t.Run("cancellation is not an error", func(t *testing.T) {
		t.Parallel()
		m := submit(t)
		m = updateModel(t, m, bt.SnapshotMsg{Text: "partial reply"})
		m = updateModel(t, m, bt.ChatDoneMsg{Err: strand.ErrStreamClosed})
		assert.False(t, m.Running())
		assert.NoError(t, m.Err())
		// Partial text stays visible after cancel.
		assert.Contains(t, m.Viewport.View(), "partial reply")
	})
}

func TestModel_ResizeRewraps(t *testing.T) {
	t.Parallel()

	session := &strand.Session{
		Messages: []strand.Message{
			strand.AssistantMessage{
				Text:    "word1 word2 word3 word4 word5 word6 word7 word8",
				Outcome: strand.OutcomeComplete,
			},
		},
	}
	m := bt.New(nopSend, session, strand.DefaultTheme())
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 30, Height: 20})
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})

	// At 120 columns the whole line fits on one row. Stale 30-column
	// wrapping would leave word8 on a later line.
	found := false
	for _, line := range strings.Split(m.Viewport.View(), "\n") {
		if strings.Contains(line, "word1") && strings.Contains(line, "word8") {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestRun_QuitsOnCtrlC(t *testing.T) {
	t.Parallel()

	m := bt.New(nopSend, &strand.Session{}, strand.DefaultTheme())
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
