// Package tablefmt renders tables as aligned terminal text. Column widths are
// measured in display cells so wide runes and emoji line up, and long cells
// are truncated on grapheme boundaries.
package tablefmt

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"github.com/strandkit/strand"
)

// maxCellWidth caps a single column so one long value cannot push the rest of
// the table off screen.
const maxCellWidth = 40

// Render returns t as aligned text: a styled header, a separator, and one
// line per row. Empty tables render as an empty string.
func Render(t strand.Table, theme strand.Theme) string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := columnWidths(t)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ansi(theme.Header))
	sepStyle := lipgloss.NewStyle().Foreground(ansi(theme.Muted))

	var b strings.Builder
	b.WriteString(headerStyle.Render(formatRow(t.Columns, widths)))
	b.WriteString("\n")
	b.WriteString(sepStyle.Render(separator(widths)))
	for _, row := range t.Rows {
		b.WriteString("\n")
		b.WriteString(formatRow(row, widths))
	}
	return b.String()
}

func ansi(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func columnWidths(t strand.Table) []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = min(runewidth.StringWidth(col), maxCellWidth)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			w := min(runewidth.StringWidth(cell), maxCellWidth)
			if w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = pad(truncate(cell, widths[i]), widths[i])
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func separator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return strings.Join(parts, "  ")
}

func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// truncate shortens s to at most width display cells, breaking on grapheme
// cluster boundaries and appending an ellipsis.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if used+w > width-1 {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	return b.String() + "…"
}
