package snpp

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danmuck/pagectl/internal/protocol"
)

// Conn owns the socket and its read buffer; nothing else touches them.
// A Conn remembers its host/port and will transparently re-dial once
// per Write after the socket has gone away.
type Conn struct {
	cfg   Config
	trace zerolog.Logger
	sock  net.Conn
	r     *bufio.Reader
}

func dialConn(cfg Config) (*Conn, error) {
	c := &Conn{cfg: cfg, trace: cfg.trace()}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// connect dials the configured address and consumes the greeting,
// which must carry code 220. Socket failures here are fatal to the
// attempt; nothing is retried.
func (c *Conn) connect() error {
	addr := c.cfg.addr()
	c.trace.Debug().Str("addr", addr).Msg("connect")
	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout}
	sock, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("snpp: dial %s: %w", addr, err)
	}
	c.sock = sock
	c.r = bufio.NewReader(sock)

	greeting, err := protocol.ReadReply(c)
	if err != nil {
		_ = c.Close()
		return err
	}
	if greeting.Code != protocol.CodeGreeting {
		_ = c.Close()
		return &protocol.ConnectError{Code: greeting.Code, Message: greeting.Text}
	}
	return nil
}

// Write sends raw bytes. With no socket open it re-dials first; with a
// live socket that fails the write, it re-dials once and retries the
// same bytes. At most one reconnect attempt per call; a failure in
// that recovery surfaces as a disconnect.
func (c *Conn) Write(p []byte) error {
	c.trace.Debug().Str("data", string(p)).Msg("send")
	if c.sock == nil {
		if err := c.reconnect(); err != nil {
			return err
		}
		if _, err := c.sock.Write(p); err != nil {
			_ = c.Close()
			return disconnected("write", err)
		}
		return nil
	}

	_, err := c.sock.Write(p)
	if err == nil {
		return nil
	}
	c.trace.Debug().Err(err).Msg("write failed, reconnecting")
	_ = c.Close()
	if rerr := c.reconnect(); rerr != nil {
		return rerr
	}
	if _, err := c.sock.Write(p); err != nil {
		_ = c.Close()
		return disconnected("write", err)
	}
	return nil
}

// WriteLine sends one wire line, appending CRLF.
func (c *Conn) WriteLine(line string) error {
	return c.Write([]byte(line + protocol.CRLF))
}

// ReadLine returns one line with its CRLF terminator stripped.
// End-of-stream before a terminator is a disconnect.
func (c *Conn) ReadLine() (string, error) {
	if c.r == nil {
		return "", disconnected("read", errNotConnected)
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		_ = c.Close()
		return "", disconnected("read", fmt.Errorf("connection unexpectedly closed: %w", err))
	}
	line = strings.TrimRight(line, "\r\n")
	c.trace.Debug().Str("line", line).Msg("recv")
	return line, nil
}

// Close releases the read buffer and socket. Idempotent; a later
// Write re-dials on demand.
func (c *Conn) Close() error {
	c.r = nil
	if c.sock == nil {
		return nil
	}
	err := c.sock.Close()
	c.sock = nil
	return err
}

func (c *Conn) reconnect() error {
	err := c.connect()
	if err == nil {
		return nil
	}
	var connectErr *protocol.ConnectError
	if errors.As(err, &connectErr) || errors.Is(err, protocol.ErrServerDisconnected) {
		return err
	}
	return disconnected("reconnect", err)
}

var errNotConnected = errors.New("not connected")

func disconnected(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", protocol.ErrServerDisconnected, op, err)
}
