package mock

import "github.com/strandkit/strand"

// Interface compliance checks.
var (
	_ strand.TextStream  = (*TextStream)(nil)
	_ strand.TableStream = (*TableStream)(nil)
)

// TextStream is a test double for strand.TextStream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. The other fields are nil-safe (zero value / no-op)
// because test code commonly calls defer stream.Close() and these methods
// rarely need custom behavior.
type TextStream struct {
	NextFn  func() (strand.Event, error)
	StateFn func() strand.StreamState
	TextFn  func() (string, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *TextStream) Next() (strand.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *TextStream) State() strand.StreamState {
	if s.StateFn == nil {
		return strand.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn. Returns an empty string when TextFn is nil.
func (s *TextStream) Text() (string, error) {
	if s.TextFn == nil {
		return "", nil
	}
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *TextStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// TableStream is a test double for strand.TableStream, with the same
// nil-safety rules as TextStream.
type TableStream struct {
	NextFn  func() (strand.Event, error)
	StateFn func() strand.StreamState
	TableFn func() (strand.Table, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *TableStream) Next() (strand.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *TableStream) State() strand.StreamState {
	if s.StateFn == nil {
		return strand.StreamStateNew
	}
	return s.StateFn()
}

// Table delegates to TableFn. Returns a zero Table when TableFn is nil.
func (s *TableStream) Table() (strand.Table, error) {
	if s.TableFn == nil {
		return strand.Table{}, nil
	}
	return s.TableFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *TableStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
