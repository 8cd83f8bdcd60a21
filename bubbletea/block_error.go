package bubbletea

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders a failed turn inline in the conversation.
type ErrorBlock struct {
	detail string
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(detail string, styles Styles) *ErrorBlock {
	return &ErrorBlock{detail: detail, styles: styles}
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render(fmt.Sprintf("Error: %s", b.detail))
	return lipgloss.NewStyle().Width(width).Render(content)
}
