package strand

// StreamState indicates the current state of a stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving events.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// TextStream is a pull-based iterator over a chat-mode stream. Cancellation
// flows through the context passed to ChatProvider.StreamChat and through
// Close(), which releases the underlying transport exactly once.
//
// Text() returns the accumulated text snapshot. Behavior by stream state:
//   - StreamStateComplete: full text, nil error.
//   - StreamStateError / StreamStateClosed: partial text, nil error.
//   - StreamStateStreaming: text received so far, nil error.
//   - StreamStateNew: empty string, ErrStreamNotReady.
type TextStream interface {
	Next() (Event, error)
	State() StreamState
	Text() (string, error)
	Close() error
}

// TableStream is a pull-based iterator over a tabular stream. Table()
// returns the accumulated snapshot under the same state rules as
// TextStream.Text. Closing mid-stream abandons any buffered rows: no
// further events are dispatched after Close().
type TableStream interface {
	Next() (Event, error)
	State() StreamState
	Table() (Table, error)
	Close() error
}
