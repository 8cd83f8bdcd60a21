package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/strandkit/strand"
	bt "github.com/strandkit/strand/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestAssistantBlock_View(t *testing.T) {
	t.Parallel()

	theme := strand.DefaultTheme()

	t.Run("empty block renders nothing", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantBlock(theme)
		assert.Equal(t, "", block.View(80))
	})

	t.Run("snapshot replaces previous text", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantBlock(theme)
		block.SetText("Hel")
		block.SetText("Hello world")
		view := block.View(80)
		assert.Contains(t, view, "Hello world")
		assert.NotContains(t, view, "HelHel")
	})

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantBlock(theme)
		block.SetText("plain with **bold** words")
		view := block.View(80)
		assert.Contains(t, view, "bold")
		assert.NotContains(t, view, "**")
	})

	t.Run("unclosed fence renders mid-stream", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantBlock(theme)
		block.SetText("```go\nfmt.Println(1)")
		view := block.View(80)
		assert.Contains(t, view, "fmt.Println(1)")
	})

	t.Run("rewraps after width change", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantBlock(theme)
		block.SetText("word1 word2 word3 word4 word5 word6 word7 word8")
		narrow := block.View(20)
		assert.Greater(t, len(strings.Split(narrow, "\n")), 1)

		wide := block.View(120)
		assert.Contains(t, strings.Split(wide, "\n")[0], "word8")
	})
}
