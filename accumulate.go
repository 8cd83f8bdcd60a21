package strand

import "strings"

// TextAccumulator folds text deltas into a growing string. Growth is
// monotonic: the text is never truncated until a new stream starts with a
// fresh accumulator.
type TextAccumulator struct {
	b strings.Builder
}

// Append adds a delta to the accumulated text.
func (a *TextAccumulator) Append(delta string) {
	a.b.WriteString(delta)
}

// String returns the full text accumulated so far.
func (a *TextAccumulator) String() string {
	return a.b.String()
}

// Len returns the accumulated length in bytes.
func (a *TextAccumulator) Len() int {
	return a.b.Len()
}

// TableAccumulator folds header and row events into a Table.
//
// A row arriving before the header is fatal (ErrRowBeforeHeader). A second
// header is ignored with a warning rather than overwriting: replacing the
// header mid-stream would corrupt alignment with already-collected rows.
type TableAccumulator struct {
	// Warn, if set, receives non-fatal protocol complaints.
	Warn func(msg string)

	table      Table
	headerSeen bool
}

// Fold applies one event to the accumulator.
func (a *TableAccumulator) Fold(evt Event) error {
	switch e := evt.(type) {
	case EventHeader:
		if a.headerSeen {
			a.warn("duplicate header ignored")
			return nil
		}
		a.headerSeen = true
		a.table.Columns = append([]string(nil), e.Columns...)
	case EventRow:
		if !a.headerSeen {
			return ErrRowBeforeHeader
		}
		a.table.Rows = append(a.table.Rows, append([]string(nil), e.Values...))
	default:
		a.warn("unexpected event in tabular stream")
	}
	return nil
}

// HeaderSeen reports whether a header event has been folded.
func (a *TableAccumulator) HeaderSeen() bool {
	return a.headerSeen
}

// Snapshot returns a deep copy of the accumulated table.
func (a *TableAccumulator) Snapshot() Table {
	return a.table.Clone()
}

func (a *TableAccumulator) warn(msg string) {
	if a.Warn != nil {
		a.Warn(msg)
	}
}
