// Package snpptest runs scripted single-connection SNPP endpoints for
// tests: greet, then hand each parsed command to the test's handler.
package snpptest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/danmuck/pagectl/internal/protocol"
)

// Handler decides the scripted response to one command. Returning
// false ends the conversation and closes the connection.
type Handler func(c *Conversation, cmd protocol.Command) bool

// Server accepts exactly one connection and speaks the scripted side
// of an SNPP session. Every inbound byte after accept is recorded for
// on-wire assertions.
type Server struct {
	t        testing.TB
	ln       net.Listener
	greeting string
	handler  Handler
	done     chan struct{}

	mu      sync.Mutex
	inbound bytes.Buffer
	conn    net.Conn
}

// Option tweaks server behavior before it starts serving.
type Option func(*Server)

// WithGreeting replaces the connect greeting line.
func WithGreeting(line string) Option {
	return func(s *Server) { s.greeting = line }
}

// Start listens on a loopback port and serves one connection with the
// given handler. A nil handler answers 250 to everything and runs the
// standard DATA/QUIT flows.
func Start(t testing.TB, handler Handler, opts ...Option) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("snpptest: listen: %v", err)
	}
	if handler == nil {
		handler = DefaultHandler
	}
	s := &Server{
		t:        t,
		ln:       ln,
		greeting: "220 snpptest ready",
		handler:  handler,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Addr() string { return s.ln.Addr().String() }

// HostPort splits the listen address for snpp.Config.
func (s *Server) HostPort() (string, int) {
	host, portStr, err := net.SplitHostPort(s.ln.Addr().String())
	if err != nil {
		s.t.Fatalf("snpptest: split addr: %v", err)
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		s.t.Fatalf("snpptest: parse port: %v", err)
	}
	return host, port
}

// Inbound returns every byte received on the connection so far.
func (s *Server) Inbound() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inbound.String()
}

// Wait blocks until the conversation ends.
func (s *Server) Wait() {
	<-s.done
}

func (s *Server) Close() {
	_ = s.ln.Close()
	s.mu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.mu.Unlock()
	<-s.done
}

func (s *Server) serve() {
	defer close(s.done)
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	c := &Conversation{
		conn: conn,
		r:    bufio.NewReader(io.TeeReader(conn, &teeSink{s: s})),
	}
	c.RawLine(s.greeting)
	for {
		line, err := c.readLine()
		if err != nil {
			return
		}
		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			c.Reply(500, "command unrecognized")
			continue
		}
		if !s.handler(c, cmd) {
			return
		}
	}
}

type teeSink struct{ s *Server }

func (w *teeSink) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return w.s.inbound.Write(p)
}

// Conversation is the server side of one accepted connection.
type Conversation struct {
	conn net.Conn
	r    *bufio.Reader
}

func (c *Conversation) readLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Reply writes one terminal reply line.
func (c *Conversation) Reply(code int, text string) {
	c.RawLine(fmt.Sprintf("%03d %s", code, text))
}

// ReplyMore writes one continuation reply line (dash in column four).
func (c *Conversation) ReplyMore(code int, text string) {
	c.RawLine(fmt.Sprintf("%03d-%s", code, text))
}

// RawLine writes an arbitrary wire line with CRLF appended.
func (c *Conversation) RawLine(line string) {
	_, _ = c.conn.Write([]byte(line + protocol.CRLF))
}

// ReadData consumes payload lines until the end-of-data sentinel and
// returns the unstuffed payload, CRLF line endings preserved.
func (c *Conversation) ReadData() (string, error) {
	var b strings.Builder
	for {
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if line == "." {
			return protocol.UnquoteData(b.String()), nil
		}
		b.WriteString(line)
		b.WriteString(protocol.CRLF)
	}
}

// Hangup drops the connection mid-session.
func (c *Conversation) Hangup() {
	_ = c.conn.Close()
}

// DefaultHandler accepts every command: 250s for simple verbs, the
// 354 go-ahead plus payload consumption for DATA, 221 then hangup for
// QUIT.
func DefaultHandler(c *Conversation, cmd protocol.Command) bool {
	switch cmd.Verb {
	case protocol.VerbData:
		c.Reply(protocol.CodeBeginData, "begin input; end with <CRLF>'.'<CRLF>")
		if _, err := c.ReadData(); err != nil {
			return false
		}
		c.Reply(250, "message ok")
	case protocol.VerbQuit:
		c.Reply(221, "goodbye")
		return false
	default:
		c.Reply(250, "ok")
	}
	return true
}
