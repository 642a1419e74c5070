package protocol

import "strings"

// QuoteData prepares a message payload for the DATA phase: line
// endings are normalized to CRLF first, then any line with a leading
// '.' gets a second '.' so it cannot be read as the end-of-data
// sentinel. The order matters; stuffing before normalization would
// miss dots only exposed once line endings are unified.
//
// The end-of-data sentinel itself is never appended here; that is the
// DATA transaction's job.
func QuoteData(data string) string {
	normalized := normalizeLineEndings(data)
	var b strings.Builder
	b.Grow(len(normalized) + 8)
	lineStart := true
	for i := 0; i < len(normalized); i++ {
		ch := normalized[i]
		if lineStart && ch == '.' {
			b.WriteByte('.')
		}
		b.WriteByte(ch)
		lineStart = ch == '\n'
	}
	return b.String()
}

// UnquoteData reverses QuoteData on a received payload: doubled
// leading dots collapse back to one. Line endings are left as CRLF.
func UnquoteData(data string) string {
	var b strings.Builder
	b.Grow(len(data))
	lineStart := true
	for i := 0; i < len(data); i++ {
		ch := data[i]
		if lineStart && ch == '.' && i+1 < len(data) && data[i+1] == '.' {
			i++
		}
		b.WriteByte(data[i])
		lineStart = data[i] == '\n'
	}
	return b.String()
}

// normalizeLineEndings rewrites \r\n, bare \n, and bare \r to CRLF.
// Idempotent on already-CRLF input.
func normalizeLineEndings(data string) string {
	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\r':
			b.WriteString(CRLF)
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
		case '\n':
			b.WriteString(CRLF)
		default:
			b.WriteByte(data[i])
		}
	}
	return b.String()
}
