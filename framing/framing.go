// Package framing reassembles complete text lines from a chunked byte
// stream. Chunks arrive in transport order with no alignment to line or
// character boundaries, so the decoder carries partial trailing data between
// pushes. The carry is byte-oriented: a multi-byte UTF-8 sequence split
// across chunks stays intact because '\n' never occurs inside one.
package framing

import "bytes"

// LineDecoder turns raw chunks into complete lines. One decoder serves one
// stream; create a fresh decoder per stream.
type LineDecoder struct {
	carry []byte
}

// Push appends a chunk and returns all newline-terminated lines completed by
// it, in order, without their terminators. A trailing "\r" is stripped so
// CRLF framing decodes the same as LF. The partial tail is retained for the
// next Push.
func (d *LineDecoder) Push(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	d.carry = append(d.carry, chunk...)

	var lines []string
	for {
		idx := bytes.IndexByte(d.carry, '\n')
		if idx < 0 {
			return lines
		}
		lines = append(lines, trimCR(d.carry[:idx]))
		d.carry = d.carry[idx+1:]
	}
}

// Flush returns the carried partial line at end of stream, if any. The spec
// for the wire formats treats a non-terminated final line as a complete
// line once the transport signals completion.
func (d *LineDecoder) Flush() (string, bool) {
	if len(d.carry) == 0 {
		return "", false
	}
	line := trimCR(d.carry)
	d.carry = nil
	return line, true
}

func trimCR(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return string(b)
}
