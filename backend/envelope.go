package backend

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
)

// dataPrefix is the SSE framing used by chat-mode streams.
const dataPrefix = "data: "

type parsedKind int

const (
	parsedNone parsedKind = iota // skipped line, keep reading
	parsedDelta
	parsedHeader
	parsedRow
	parsedDone
)

// parsedEvent is one line interpreted against the wire protocol. Terminal
// failures surface through parseLine's error return instead.
type parsedEvent struct {
	kind    parsedKind
	delta   string
	columns []string
	values  []string
}

// envelope is the bare-JSON line format of tabular streams.
type envelope struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	Detail string          `json:"detail"`
}

// parseLine maps one decoded line to zero or one event.
//
// Malformed fragments are logged and skipped: chat streams tolerate isolated
// upstream glitches. The one exception is an explicit error envelope, which
// is always fatal and carries its detail verbatim.
func parseLine(line string, logger *log.Logger) (parsedEvent, error) {
	if strings.TrimSpace(line) == "" {
		return parsedEvent{}, nil
	}

	if strings.HasPrefix(line, dataPrefix) {
		payload := strings.TrimPrefix(line, dataPrefix)
		var d struct {
			Content *string `json:"content"`
		}
		if err := json.Unmarshal([]byte(payload), &d); err != nil {
			logger.Warn("skipping malformed delta line", "err", err)
			return parsedEvent{}, nil
		}
		if d.Content == nil {
			logger.Warn("skipping delta line without content field")
			return parsedEvent{}, nil
		}
		return parsedEvent{kind: parsedDelta, delta: *d.Content}, nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		logger.Warn("skipping malformed line", "err", err)
		return parsedEvent{}, nil
	}

	switch env.Type {
	case "header":
		var cols []string
		if err := json.Unmarshal(env.Data, &cols); err != nil {
			logger.Warn("skipping malformed header data", "err", err)
			return parsedEvent{}, nil
		}
		return parsedEvent{kind: parsedHeader, columns: cols}, nil
	case "row":
		var vals []string
		if err := json.Unmarshal(env.Data, &vals); err != nil {
			logger.Warn("skipping malformed row data", "err", err)
			return parsedEvent{}, nil
		}
		return parsedEvent{kind: parsedRow, values: vals}, nil
	case "done":
		return parsedEvent{kind: parsedDone}, nil
	case "error":
		return parsedEvent{}, &UpstreamError{Detail: env.Detail}
	default:
		logger.Warn("skipping line with unrecognized type", "type", env.Type)
		return parsedEvent{}, nil
	}
}
