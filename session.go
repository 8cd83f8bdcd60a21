package strand

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session represents a conversation session.
type Session struct {
	ID           string
	SystemPrompt string
	Messages     []Message
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSession creates an empty session with a fresh UUID.
func NewSession(systemPrompt string) Session {
	now := time.Now()
	return Session{
		ID:           uuid.NewString(),
		SystemPrompt: systemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SessionStore persists sessions keyed by ID. The streaming core is
// persistence-agnostic: stores are injected by the caller and invoked
// between stream attempts, never mid-stream.
//
// Load returns ErrSessionNotFound when no session exists for the ID.
// Clear is idempotent: clearing a missing session is not an error.
type SessionStore interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context, id string) error
}
