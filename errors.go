package strand

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamNotReady indicates a snapshot was requested before Next().
	ErrStreamNotReady = errors.New("stream not ready: call Next() first")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrRowBeforeHeader indicates a tabular stream delivered a row before
	// announcing its header. Fatal: without a header there is no column
	// alignment for the row.
	ErrRowBeforeHeader = errors.New("row received before header")

	// ErrSessionNotFound indicates a SessionStore has no session for the key.
	ErrSessionNotFound = errors.New("session not found")
)
