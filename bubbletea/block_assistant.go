package bubbletea

import (
	"strings"

	"github.com/strandkit/strand"
	"github.com/strandkit/strand/markdown"
)

var _ MessageBlock = (*AssistantBlock)(nil)

// AssistantBlock renders the reply text with markdown formatting. Each
// snapshot replaces the whole text, so the block re-renders from scratch and
// caches the result until the next snapshot or a width change.
type AssistantBlock struct {
	text  string
	theme strand.Theme

	cachedWidth int
	cached      string
	cacheValid  bool
}

// NewAssistantBlock creates a block for a streamed assistant reply.
func NewAssistantBlock(theme strand.Theme) *AssistantBlock {
	return &AssistantBlock{theme: theme, cachedWidth: -1}
}

// SetText replaces the block content with the latest full snapshot.
func (b *AssistantBlock) SetText(text string) {
	if text == b.text {
		return
	}
	b.text = text
	b.cacheValid = false
}

// Text returns the current raw content.
func (b *AssistantBlock) Text() string { return b.text }

func (b *AssistantBlock) View(width int) string {
	if b.text == "" || width <= 0 {
		return ""
	}
	if b.cacheValid && b.cachedWidth == width {
		return b.cached
	}
	source := b.text
	if hasUnclosedFence(source) {
		// Close the fence only for rendering so a partial stream that is
		// mid-code-block still displays sensibly.
		source += "\n```"
	}
	b.cached = markdown.Render(source, width, b.theme)
	b.cachedWidth = width
	b.cacheValid = true
	return b.cached
}

// hasUnclosedFence reports an odd number of "```" markers. Triple backticks
// inside inline code spans would miscount, but replies rarely contain them.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
