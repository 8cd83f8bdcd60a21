package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/strandkit/strand"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send    ChatFunc
	session *strand.Session
	theme   strand.Theme
	styles  Styles

	blocks []MessageBlock
	// active is the assistant block receiving snapshots for the current turn.
	active *AssistantBlock

	running bool
	cancel  context.CancelFunc
	snapCh  chan string
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a TUI Model with the given send function, session, and theme.
func New(send ChatFunc, session *strand.Session, theme strand.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:   ti,
		send:    send,
		session: session,
		theme:   theme,
		styles:  NewStyles(theme),
	}
	return m.renderSession()
}

// Running returns whether a turn is currently streaming.
func (m Model) Running() bool { return m.running }

// Err returns the last turn's error, if any.
func (m Model) Err() error { return m.err }

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) (Model, tea.Cmd) {
	m.running = true
	return m, nil
}

// SetRunningWithCancel is a test helper that puts the model in a running
// state with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		if m.active != nil {
			m.active.SetText(msg.Text)
		}
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.snapCh != nil {
			return m, listenForSnapshot(m.snapCh, m.doneCh)
		}
		return m, nil

	case ChatDoneMsg:
		m.running = false
		m.cancel = nil
		m.snapCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) && !errors.Is(msg.Err, strand.ErrStreamClosed) {
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err.Error(), m.styles))
		}
		// Drop an assistant block that never received any text.
		if m.active != nil && m.active.Text() == "" {
			m.blocks = removeBlock(m.blocks, m.active)
		}
		m.active = nil
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		cmds = append(cmds, m.Input.Focus())
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages so mouse scrolling works.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	gapH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - gapH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)
	}

	// When idle, pass keys to both the input (for typing) and the viewport
	// (for scrolling). Only non-character keys reach the viewport so typed
	// letters like 'j'/'k' are not treated as scroll keys.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.active = NewAssistantBlock(m.theme)
	m.blocks = append(m.blocks, m.active)
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.snapCh = make(chan string, 64)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startTurn(m.send, ctx, m.session, text, m.snapCh, m.doneCh),
		listenForSnapshot(m.snapCh, m.doneCh),
	)
}

// renderSession creates blocks from messages already in the session, so a
// resumed conversation shows its history.
func (m Model) renderSession() Model {
	for _, msg := range m.session.Messages {
		switch msg := msg.(type) {
		case strand.UserMessage:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Text, m.styles))
		case strand.AssistantMessage:
			if msg.Text != "" {
				b := NewAssistantBlock(m.theme)
				b.SetText(msg.Text)
				m.blocks = append(m.blocks, b)
			}
			if msg.Outcome == strand.OutcomeFailed && msg.Detail != "" {
				m.blocks = append(m.blocks, NewErrorBlock(msg.Detail, m.styles))
			}
		}
	}
	return m
}

func (m Model) renderContent() string {
	var parts []string
	for _, block := range m.blocks {
		if v := block.View(m.Viewport.Width); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		return m.styles.Muted.Render("Generating... (Ctrl+C to cancel)")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

func removeBlock(blocks []MessageBlock, target MessageBlock) []MessageBlock {
	for i, b := range blocks {
		if b == target {
			return append(blocks[:i], blocks[i+1:]...)
		}
	}
	return blocks
}

// startTurn runs one send in a goroutine and signals completion.
func startTurn(send ChatFunc, ctx context.Context, session *strand.Session, prompt string, snapCh chan<- string, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := send(ctx, session, prompt, func(text string) {
			select {
			case snapCh <- text:
			case <-ctx.Done():
			}
		})
		close(snapCh)
		doneCh <- err
		return nil
	}
}

// listenForSnapshot waits for the next snapshot. When the channel closes it
// reads the turn error and returns ChatDoneMsg.
func listenForSnapshot(snapCh <-chan string, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-snapCh
		if !ok {
			return ChatDoneMsg{Err: <-doneCh}
		}
		return SnapshotMsg{Text: text}
	}
}
