package framing_test

import (
	"strings"
	"testing"

	"github.com/strandkit/strand/framing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeAll pushes the chunks in order and flushes, returning every line.
func decodeAll(chunks ...string) []string {
	var d framing.LineDecoder
	var lines []string
	for _, c := range chunks {
		lines = append(lines, d.Push([]byte(c))...)
	}
	if tail, ok := d.Flush(); ok {
		lines = append(lines, tail)
	}
	return lines
}

func TestLineDecoder_SingleChunk(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, decodeAll("a\nb\n"))
}

func TestLineDecoder_LineSplitAcrossChunks(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"hello world"}, decodeAll("hel", "lo wor", "ld\n"))
}

func TestLineDecoder_TailEmittedOnFlush(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"complete", "partial tail"}, decodeAll("complete\npartial tail"))
}

func TestLineDecoder_NoTailNoFlush(t *testing.T) {
	t.Parallel()
	var d framing.LineDecoder
	d.Push([]byte("done\n"))
	_, ok := d.Flush()
	assert.False(t, ok)
}

func TestLineDecoder_MultibyteSplitAtChunkBoundary(t *testing.T) {
	t.Parallel()
	// "é" is 0xC3 0xA9; split the sequence across two pushes.
	raw := []byte("caf\xc3\xa9\n")
	var d framing.LineDecoder
	require.Empty(t, d.Push(raw[:4]))
	lines := d.Push(raw[4:])
	require.Len(t, lines, 1)
	assert.Equal(t, "café", lines[0])
}

func TestLineDecoder_CRLF(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, decodeAll("a\r\nb\r\n"))
}

func TestLineDecoder_ChunkingIsTransparent(t *testing.T) {
	t.Parallel()
	payload := "one\ntwo\nthree\ntail"
	want := []string{"one", "two", "three", "tail"}

	// Every possible split point of the payload into two chunks must yield
	// the same lines.
	for i := 0; i <= len(payload); i++ {
		got := decodeAll(payload[:i], payload[i:])
		require.Equalf(t, want, got, "split at byte %d", i)
	}

	// Byte-at-a-time delivery too.
	chunks := strings.Split(payload, "")
	assert.Equal(t, want, decodeAll(chunks...))
}

func TestLineDecoder_EmptyLinesPreserved(t *testing.T) {
	t.Parallel()
	// Blank lines are yielded; skipping them is the parser's concern.
	assert.Equal(t, []string{"a", "", "b"}, decodeAll("a\n\nb\n"))
}
