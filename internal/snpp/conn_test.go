package snpp

import (
	"bufio"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/danmuck/pagectl/internal/protocol"
	"github.com/danmuck/pagectl/internal/testutil/testlog"
)

func listenAddr(t *testing.T, ln net.Listener) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return host, port
}

// serveGreetAndAnswer accepts connections until the listener closes,
// greeting each and answering every command line with the given reply.
func serveGreetAndAnswer(ln net.Listener, reply string, accepts *atomic.Int32) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepts.Add(1)
		go func(conn net.Conn) {
			defer conn.Close()
			_, _ = conn.Write([]byte("220 ready" + protocol.CRLF))
			r := bufio.NewReader(conn)
			for {
				if _, err := r.ReadString('\n'); err != nil {
					return
				}
				_, _ = conn.Write([]byte(reply + protocol.CRLF))
			}
		}(conn)
	}
}

func TestWriteReconnectsWhenSocketIsGone(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	var accepts atomic.Int32
	go serveGreetAndAnswer(ln, "250 ok", &accepts)

	host, port := listenAddr(t, ln)
	s, err := Dial(Config{Host: host, Port: port})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer s.Close()

	// Drop the socket out from under the session; the next command
	// must re-dial (and re-greet) transparently.
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	reply, err := s.Pager("5551212", "")
	if err != nil {
		t.Fatalf("pager after close: %v", err)
	}
	if reply.Code != 250 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if got := accepts.Load(); got != 2 {
		t.Fatalf("connection count: got %d want 2", got)
	}
}

func TestWriteFailureMakesExactlyOneReconnectAttempt(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	var accepts atomic.Int32
	greeted := make(chan struct{}, 4)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			n := accepts.Add(1)
			if n == 1 {
				_, _ = conn.Write([]byte("220 ready" + protocol.CRLF))
				greeted <- struct{}{}
			}
			// Later accepts get no greeting: the reconnect attempt
			// must fail while reading it.
			_ = conn.Close()
		}
	}()
	defer ln.Close()

	host, port := listenAddr(t, ln)
	s, err := Dial(Config{Host: host, Port: port})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer s.Close()
	<-greeted

	// Simulate the socket-level failure locally so the first write
	// errors deterministically.
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err = s.Send()
	if !errors.Is(err, protocol.ErrServerDisconnected) {
		t.Fatalf("expected ErrServerDisconnected, got %v", err)
	}
	if got := accepts.Load(); got != 2 {
		t.Fatalf("reconnect attempts: got %d want exactly 1 re-dial (2 accepts total)", got)
	}
}

func TestLiveSocketWriteFailureRetriesSameBytes(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	var accepts atomic.Int32
	go serveGreetAndAnswer(ln, "250 ok", &accepts)

	// Start from an open socket whose far end is already gone, so the
	// first write fails on a live socket rather than a nil one.
	client, server := net.Pipe()
	_ = server.Close()
	defer client.Close()

	host, port := listenAddr(t, ln)
	cfg := Config{Host: host, Port: port}.WithDefaults()
	c := &Conn{cfg: cfg, trace: cfg.trace(), sock: client, r: bufio.NewReader(client)}
	defer c.Close()

	if err := c.WriteLine(protocol.VerbReset); err != nil {
		t.Fatalf("write line after dead socket: %v", err)
	}
	reply, err := protocol.ReadReply(c)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Code != 250 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if got := accepts.Load(); got != 1 {
		t.Fatalf("connection count: got %d want 1", got)
	}
}

func TestReconnectSurfacesBadGreeting(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	var accepts atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			if accepts.Add(1) == 1 {
				_, _ = conn.Write([]byte("220 ready" + protocol.CRLF))
			} else {
				_, _ = conn.Write([]byte("421 too many sessions" + protocol.CRLF))
			}
			_ = conn.Close()
		}
	}()

	host, port := listenAddr(t, ln)
	s, err := Dial(Config{Host: host, Port: port})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer s.Close()

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_, err = s.Send()
	var connectErr *protocol.ConnectError
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected ConnectError from reconnect greeting, got %v", err)
	}
	if connectErr.Code != 421 {
		t.Fatalf("unexpected code: %+v", connectErr)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	var accepts atomic.Int32
	go serveGreetAndAnswer(ln, "250 ok", &accepts)

	host, port := listenAddr(t, ln)
	s, err := Dial(Config{Host: host, Port: port})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestReadLineStripsTerminator(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cfg := DefaultConfig()
	c := &Conn{cfg: cfg, trace: cfg.trace(), sock: client, r: bufio.NewReader(client)}
	go func() {
		_, _ = server.Write([]byte("250 all good" + protocol.CRLF))
	}()
	line, err := c.ReadLine()
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	if line != "250 all good" || strings.ContainsAny(line, "\r\n") {
		t.Fatalf("line: %q", line)
	}
}

func TestReadLineEOFIsDisconnect(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	defer client.Close()

	cfg := DefaultConfig()
	c := &Conn{cfg: cfg, trace: cfg.trace(), sock: client, r: bufio.NewReader(client)}
	_ = server.Close()
	_, err := c.ReadLine()
	if !errors.Is(err, protocol.ErrServerDisconnected) {
		t.Fatalf("expected ErrServerDisconnected, got %v", err)
	}
}
