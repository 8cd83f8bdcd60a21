package backend

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/strandkit/strand"
	"github.com/strandkit/strand/framing"
)

// lineReader pulls complete lines from a chunked response body through a
// framing.LineDecoder, enforcing an optional idle timeout between chunks.
type lineReader struct {
	body    io.ReadCloser
	dec     framing.LineDecoder
	buf     []byte
	pending []string
	idle    time.Duration
	flushed bool
}

func newLineReader(body io.ReadCloser, idle time.Duration) *lineReader {
	return &lineReader{
		body: body,
		buf:  make([]byte, 4096),
		idle: idle,
	}
}

// nextLine returns the next decoded line, reading more chunks as needed.
// Returns io.EOF after the final (possibly non-terminated) line.
func (r *lineReader) nextLine() (string, error) {
	for {
		if len(r.pending) > 0 {
			line := r.pending[0]
			r.pending = r.pending[1:]
			return line, nil
		}
		if r.flushed {
			return "", io.EOF
		}

		n, err := r.readChunk()
		if n > 0 {
			r.pending = r.dec.Push(r.buf[:n])
		}
		if err == io.EOF {
			r.flushed = true
			if tail, ok := r.dec.Flush(); ok {
				r.pending = append(r.pending, tail)
			}
			continue
		}
		if err != nil {
			return "", err
		}
	}
}

// readChunk reads one chunk, failing the stream if no data arrives within
// the idle window. The timer closes the body to unblock the read; a read
// that loses that race is reported as a timeout.
func (r *lineReader) readChunk() (int, error) {
	if r.idle <= 0 {
		return r.body.Read(r.buf)
	}
	timer := time.AfterFunc(r.idle, func() { r.body.Close() })
	n, err := r.body.Read(r.buf)
	if !timer.Stop() && err != nil {
		return n, fmt.Errorf("idle timeout: no data for %s", r.idle)
	}
	return n, err
}

// chatStream implements [strand.TextStream] over an SSE chat response.
type chatStream struct {
	lr     *lineReader
	ctx    context.Context
	logger *log.Logger
	state  strand.StreamState
	acc    strand.TextAccumulator
	err    error // terminal error, if any
}

// Interface compliance check.
var _ strand.TextStream = (*chatStream)(nil)

func newChatStream(ctx context.Context, body io.ReadCloser, logger *log.Logger, idle time.Duration) *chatStream {
	return &chatStream{
		lr:     newLineReader(body, idle),
		ctx:    ctx,
		logger: logger,
		state:  strand.StreamStateNew,
	}
}

// Next reads the next text delta from the stream.
// Returns io.EOF when the stream completes normally.
func (s *chatStream) Next() (strand.Event, error) {
	switch s.state {
	case strand.StreamStateComplete:
		return nil, io.EOF
	case strand.StreamStateError:
		return nil, s.err
	case strand.StreamStateClosed:
		return nil, strand.ErrStreamClosed
	}

	for {
		// Cancellation is cooperative: the flag is checked before each
		// read and before folding further events.
		if err := s.ctx.Err(); err != nil {
			s.terminate(err)
			return nil, s.err
		}

		line, err := s.lr.nextLine()
		if err == io.EOF {
			s.state = strand.StreamStateComplete
			return nil, io.EOF
		}
		if err != nil {
			s.terminate(fmt.Errorf("backend: %w", err))
			return nil, s.err
		}

		s.state = strand.StreamStateStreaming

		evt, err := parseLine(line, s.logger)
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}

		switch evt.kind {
		case parsedDelta:
			s.acc.Append(evt.delta)
			return strand.EventTextDelta{Delta: evt.delta}, nil
		case parsedDone:
			s.state = strand.StreamStateComplete
			return nil, io.EOF
		case parsedHeader, parsedRow:
			s.logger.Warn("skipping tabular event in chat stream")
		case parsedNone:
			// Skipped line, keep reading.
		}
	}
}

// State returns the current stream state.
func (s *chatStream) State() strand.StreamState {
	return s.state
}

// Text returns the accumulated text snapshot.
func (s *chatStream) Text() (string, error) {
	if s.state == strand.StreamStateNew {
		return "", strand.ErrStreamNotReady
	}
	return s.acc.String(), nil
}

// Close releases the underlying response body. Closing before a terminal
// state cancels the stream; already-buffered bytes are discarded and no
// further events are dispatched.
func (s *chatStream) Close() error {
	if s.state != strand.StreamStateComplete && s.state != strand.StreamStateError {
		s.state = strand.StreamStateClosed
	}
	return s.lr.body.Close()
}

func (s *chatStream) terminate(err error) {
	s.state = strand.StreamStateError
	s.err = err
}
