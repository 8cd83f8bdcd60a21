package strand

import (
	"context"
	"errors"
	"io"
	"time"
)

// Chat orchestrates conversation turns against a ChatProvider.
type Chat struct {
	provider ChatProvider
}

// NewChat creates a new Chat with the given provider.
func NewChat(provider ChatProvider) *Chat {
	return &Chat{provider: provider}
}

// RunOption configures a single Send invocation.
type RunOption func(*runConfig)

type runConfig struct {
	onSnapshot func(text string)
	model      string
}

// WithSnapshotHandler sets a callback that receives the full accumulated
// text after each delta. If nil or not set, snapshots are discarded.
func WithSnapshotHandler(h func(text string)) RunOption {
	return func(c *runConfig) {
		c.onSnapshot = h
	}
}

// WithModel sets the model ID for backend requests during this send.
// Empty string means the backend uses its default model.
func WithModel(model string) RunOption {
	return func(c *runConfig) {
		c.model = model
	}
}

// Send appends prompt as a user message, streams the reply, and appends an
// AssistantMessage recording the outcome. Partial text survives cancellation
// and failure so a resumed session shows what was received. The returned
// error is the stream's terminal error, nil on completion.
//
// A failed or cancelled send is never resumed: the next Send starts a fresh
// stream with fresh accumulator state.
func (c *Chat) Send(ctx context.Context, session *Session, prompt string, opts ...RunOption) error {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	session.Messages = append(session.Messages, UserMessage{
		Text:      prompt,
		Timestamp: time.Now(),
	})
	session.UpdatedAt = time.Now()

	req := ChatRequest{
		SystemPrompt: session.SystemPrompt,
		Messages:     session.Messages,
		Model:        cfg.model,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	stream, err := c.provider.StreamChat(ctx, req)
	if err != nil {
		session.Messages = append(session.Messages, AssistantMessage{
			Outcome:   OutcomeFailed,
			Detail:    err.Error(),
			Timestamp: time.Now(),
		})
		return err
	}
	defer stream.Close()

	var streamErr error
	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		if _, ok := evt.(EventTextDelta); ok && cfg.onSnapshot != nil {
			if text, err := stream.Text(); err == nil {
				cfg.onSnapshot(text)
			}
		}
	}

	text, _ := stream.Text()
	msg := AssistantMessage{
		Text:      text,
		Outcome:   outcomeFor(ctx, streamErr),
		Timestamp: time.Now(),
	}
	if msg.Outcome == OutcomeFailed {
		msg.Detail = streamErr.Error()
	}
	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = time.Now()

	return streamErr
}

// outcomeFor maps a terminal stream error to an Outcome. Context
// cancellation and an explicitly closed stream are caller-initiated stops,
// not failures.
func outcomeFor(ctx context.Context, err error) Outcome {
	switch {
	case err == nil:
		return OutcomeComplete
	case errors.Is(err, context.Canceled), errors.Is(err, ErrStreamClosed), ctx.Err() != nil:
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}
