package protocol

import (
	"strconv"
	"strings"
)

// Reply is one aggregated server response. Text is the newline-join of
// every line's body; Code comes from the first line's 3-digit prefix,
// or CodeUnparseable when the status digits cannot be read.
type Reply struct {
	Code      int
	Text      string
	Multiline bool
}

// LineReader yields one wire line at a time with the CRLF terminator
// already stripped.
type LineReader interface {
	ReadLine() (string, error)
}

// ReadReply consumes lines until a terminal reply line is seen.
//
// Per line: the first three characters are the status code, the fourth
// is '-' for a continuation, and everything from the fifth onward is
// the body (trimmed). A line whose code digits do not parse ends the
// reply with CodeUnparseable; no further continuation lines are read.
//
// There is no cap on continuation lines. A server that never sends a
// terminal line blocks the caller; RFC 1861 defines no limit.
func ReadReply(r LineReader) (Reply, error) {
	var (
		reply  Reply
		bodies []string
		first  = true
	)
	for {
		line, err := r.ReadLine()
		if err != nil {
			return Reply{}, err
		}
		bodies = append(bodies, lineBody(line))

		code, ok := parseCode(line)
		if !ok {
			reply.Code = CodeUnparseable
			break
		}
		if first {
			reply.Code = code
			first = false
		}
		if len(line) >= 4 && line[3] == '-' {
			reply.Multiline = true
			continue
		}
		break
	}
	reply.Text = strings.Join(bodies, "\n")
	return reply, nil
}

func lineBody(line string) string {
	if len(line) <= 4 {
		return ""
	}
	return strings.TrimSpace(line[4:])
}

func parseCode(line string) (int, bool) {
	if len(line) < 3 {
		return 0, false
	}
	code, err := strconv.Atoi(line[:3])
	if err != nil || code < 0 {
		return 0, false
	}
	return code, true
}
