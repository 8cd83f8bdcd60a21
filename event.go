package strand

// Event is a sealed interface representing a streaming event.
// Events are purely semantic. Terminal markers (done/error) come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta represents an incremental fragment of generated text.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// EventHeader carries the column names of a tabular stream.
// It arrives at most once, before any EventRow.
type EventHeader struct {
	Columns []string
}

func (EventHeader) event() {}

// EventRow carries one generated record. Values align with the columns
// announced by the preceding EventHeader.
type EventRow struct {
	Values []string
}

func (EventRow) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventHeader{}
	_ Event = EventRow{}
)
