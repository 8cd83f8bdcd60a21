package backend

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/strandkit/strand"
)

// tableStream implements [strand.TableStream] over an NDJSON tabular
// response.
type tableStream struct {
	lr     *lineReader
	ctx    context.Context
	logger *log.Logger
	state  strand.StreamState
	acc    strand.TableAccumulator
	err    error // terminal error, if any
}

// Interface compliance check.
var _ strand.TableStream = (*tableStream)(nil)

func newTableStream(ctx context.Context, body io.ReadCloser, logger *log.Logger, idle time.Duration) *tableStream {
	s := &tableStream{
		lr:     newLineReader(body, idle),
		ctx:    ctx,
		logger: logger,
		state:  strand.StreamStateNew,
	}
	s.acc.Warn = func(msg string) { logger.Warn(msg) }
	return s
}

// Next reads the next header or row event from the stream.
// Returns io.EOF when the stream completes normally.
func (s *tableStream) Next() (strand.Event, error) {
	switch s.state {
	case strand.StreamStateComplete:
		return nil, io.EOF
	case strand.StreamStateError:
		return nil, s.err
	case strand.StreamStateClosed:
		return nil, strand.ErrStreamClosed
	}

	for {
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
		case parsedHeader:
			if s.acc.HeaderSeen() {
				// Replacing the header would corrupt alignment with
				// already-collected rows; first header wins.
				s.logger.Warn("duplicate header ignored")
				continue
			}
			if err := s.acc.Fold(strand.EventHeader{Columns: evt.columns}); err != nil {
				s.terminate(err)
				return nil, s.err
			}
			return strand.EventHeader{Columns: evt.columns}, nil
		case parsedRow:
			if err := s.acc.Fold(strand.EventRow{Values: evt.values}); err != nil {
				s.terminate(err)
				return nil, s.err
			}
			return strand.EventRow{Values: evt.values}, nil
		case parsedDone:
			s.state = strand.StreamStateComplete
			return nil, io.EOF
		case parsedDelta:
			s.logger.Warn("skipping chat delta in tabular stream")
		case parsedNone:
			// Skipped line, keep reading.
		}
	}
}

// State returns the current stream state.
func (s *tableStream) State() strand.StreamState {
	return s.state
}

// Table returns the accumulated table snapshot.
func (s *tableStream) Table() (strand.Table, error) {
	if s.state == strand.StreamStateNew {
		return strand.Table{}, strand.ErrStreamNotReady
	}
	return s.acc.Snapshot(), nil
}

// Close releases the underlying response body. Closing before a terminal
// state cancels the stream; this is the early-stop path used by preview
// mode, and bytes the transport already buffered are discarded.
func (s *tableStream) Close() error {
	if s.state != strand.StreamStateComplete && s.state != strand.StreamStateError {
		s.state = strand.StreamStateClosed
	}
	return s.lr.body.Close()
}

func (s *tableStream) terminate(err error) {
	s.state = strand.StreamStateError
	s.err = err
}
