// Package markdown renders assistant replies as ANSI-styled terminal text.
// Goldmark parses the source; lipgloss supplies styling and word wrap.
package markdown

import "github.com/strandkit/strand"

// Render returns ANSI-styled terminal output for markdown source. Paragraphs,
// headings, and list items are word-wrapped to width; code blocks keep their
// original line breaks.
func Render(source string, width int, theme strand.Theme) string {
	if source == "" {
		return ""
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
