package mock

import (
	"context"

	"github.com/strandkit/strand"
)

// Interface compliance check.
var _ strand.SessionStore = (*SessionStore)(nil)

// SessionStore is a test double for strand.SessionStore.
// Set the function fields for the methods you need.
type SessionStore struct {
	LoadFn  func(ctx context.Context, id string) (strand.Session, error)
	SaveFn  func(ctx context.Context, s strand.Session) error
	ClearFn func(ctx context.Context, id string) error
}

// Load delegates to LoadFn.
func (s *SessionStore) Load(ctx context.Context, id string) (strand.Session, error) {
	return s.LoadFn(ctx, id)
}

// Save delegates to SaveFn.
func (s *SessionStore) Save(ctx context.Context, sess strand.Session) error {
	return s.SaveFn(ctx, sess)
}

// Clear delegates to ClearFn.
func (s *SessionStore) Clear(ctx context.Context, id string) error {
	return s.ClearFn(ctx, id)
}
