package strand

// Table is the accumulated output of a tabular stream: one header and the
// rows collected so far, in arrival order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Clone returns a deep copy. Snapshots handed to observers are clones so a
// still-running stream never mutates a value the caller already holds.
func (t Table) Clone() Table {
	out := Table{}
	if t.Columns != nil {
		out.Columns = make([]string, len(t.Columns))
		copy(out.Columns, t.Columns)
	}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			out.Rows[i] = make([]string, len(row))
			copy(out.Rows[i], row)
		}
	}
	return out
}

// Empty reports whether the table has neither a header nor rows.
func (t Table) Empty() bool {
	return len(t.Columns) == 0 && len(t.Rows) == 0
}
