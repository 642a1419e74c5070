package protocol

import (
	"errors"
	"testing"
)

type scriptedLines struct {
	lines []string
	next  int
}

func (s *scriptedLines) ReadLine() (string, error) {
	if s.next >= len(s.lines) {
		return "", ErrServerDisconnected
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

func TestReadReplySingleLine(t *testing.T) {
	r := &scriptedLines{lines: []string{"250 queued"}}
	reply, err := ReadReply(r)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Code != 250 || reply.Text != "queued" || reply.Multiline {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestReadReplyMultilineAggregation(t *testing.T) {
	r := &scriptedLines{lines: []string{
		"214-line one",
		"214-line two",
		"214 line three",
	}}
	reply, err := ReadReply(r)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Code != 214 {
		t.Fatalf("code: got %d want 214", reply.Code)
	}
	if reply.Text != "line one\nline two\nline three" {
		t.Fatalf("text: %q", reply.Text)
	}
	if !reply.Multiline {
		t.Fatalf("expected multiline flag")
	}
	if r.next != 3 {
		t.Fatalf("consumed %d lines, want 3", r.next)
	}
}

func TestReadReplyCodeFromFirstLine(t *testing.T) {
	r := &scriptedLines{lines: []string{
		"214-usage",
		"250 done",
	}}
	reply, err := ReadReply(r)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Code != 214 {
		t.Fatalf("code: got %d want first-line 214", reply.Code)
	}
	if reply.Text != "usage\ndone" {
		t.Fatalf("text: %q", reply.Text)
	}
}

func TestReadReplyMalformedCodeIsTerminal(t *testing.T) {
	r := &scriptedLines{lines: []string{
		"oops-no code here",
		"250 never read",
	}}
	reply, err := ReadReply(r)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Code != CodeUnparseable {
		t.Fatalf("code: got %d want %d", reply.Code, CodeUnparseable)
	}
	if r.next != 1 {
		t.Fatalf("consumed %d lines, want 1 (no continuation after malformed code)", r.next)
	}
}

func TestReadReplyMalformedContinuationStops(t *testing.T) {
	r := &scriptedLines{lines: []string{
		"214-first",
		"???",
		"250 never read",
	}}
	reply, err := ReadReply(r)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Code != CodeUnparseable {
		t.Fatalf("code: got %d want %d", reply.Code, CodeUnparseable)
	}
	if r.next != 2 {
		t.Fatalf("consumed %d lines, want 2", r.next)
	}
}

func TestReadReplyShortLine(t *testing.T) {
	r := &scriptedLines{lines: []string{"220"}}
	reply, err := ReadReply(r)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Code != 220 || reply.Text != "" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestReadReplyPropagatesReadError(t *testing.T) {
	r := &scriptedLines{}
	_, err := ReadReply(r)
	if !errors.Is(err, ErrServerDisconnected) {
		t.Fatalf("expected ErrServerDisconnected, got %v", err)
	}
}

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{220, "ok"},
		{250, "ok"},
		{354, "ok"},
		{421, "connect"},
		{499, "ok"},
		{500, "response"},
		{554, "response"},
		{799, "response"},
		{800, "ok"},
		{CodeUnparseable, "ok"},
	}
	for _, tc := range cases {
		err := Classify(tc.code, "text")
		var connectErr *ConnectError
		var responseErr *ResponseError
		switch {
		case errors.As(err, &connectErr):
			if tc.want != "connect" {
				t.Fatalf("code %d: got ConnectError, want %s", tc.code, tc.want)
			}
			if connectErr.Code != tc.code || connectErr.Message != "text" {
				t.Fatalf("code %d: bad ConnectError fields: %+v", tc.code, connectErr)
			}
		case errors.As(err, &responseErr):
			if tc.want != "response" {
				t.Fatalf("code %d: got ResponseError, want %s", tc.code, tc.want)
			}
			if responseErr.Code != tc.code || responseErr.Message != "text" {
				t.Fatalf("code %d: bad ResponseError fields: %+v", tc.code, responseErr)
			}
		case err == nil:
			if tc.want != "ok" {
				t.Fatalf("code %d: got nil, want %s", tc.code, tc.want)
			}
		default:
			t.Fatalf("code %d: unexpected error %v", tc.code, err)
		}
	}
}
