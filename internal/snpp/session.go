package snpp

import (
	"errors"
	"strconv"
	"strings"

	"github.com/danmuck/pagectl/internal/protocol"
)

var (
	ErrHostRequired    = errors.New("snpp: host required")
	ErrLevelOutOfRange = errors.New("snpp: service level out of range [0,11]")
)

// Session is the protocol client: one exported method per SNPP verb,
// each a validated wrapper over the command channel. One command in
// flight at a time; every method blocks until the reply is aggregated.
type Session struct {
	cfg  Config
	conn *Conn
}

// Dial connects to cfg.Host:cfg.Port and consumes the 220 greeting.
func Dial(cfg Config) (*Session, error) {
	cfg = cfg.WithDefaults()
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrHostRequired
	}
	conn, err := dialConn(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, conn: conn}, nil
}

// SetDebug toggles raw line tracing mid-session.
func (s *Session) SetDebug(v bool) {
	s.cfg.Debug = v
	s.conn.cfg.Debug = v
	s.conn.trace = s.conn.cfg.trace()
}

// do is the command channel: writes one "<verb>[ <args>]" line, reads
// one aggregated reply, and classifies its code. 421 and the 500-799
// band come back as errors alongside the raw reply; everything else is
// the caller's to interpret.
func (s *Session) do(verb, args string) (protocol.Reply, error) {
	cmd := protocol.Command{Verb: verb, Args: args}
	if err := s.conn.WriteLine(cmd.String()); err != nil {
		return protocol.Reply{}, err
	}
	reply, err := protocol.ReadReply(s.conn)
	if err != nil {
		return protocol.Reply{}, err
	}
	if err := protocol.Classify(reply.Code, reply.Text); err != nil {
		return reply, err
	}
	return reply, nil
}

// Pager names the recipient for the page being built. Pin may be
// empty.
func (s *Session) Pager(id, pin string) (protocol.Reply, error) {
	args := id
	if pin != "" {
		args = id + " " + pin
	}
	return s.do(protocol.VerbPage, args)
}

// Message sets a single-line message (level 1 alternative to DATA).
func (s *Session) Message(text string) (protocol.Reply, error) {
	return s.do(protocol.VerbMessage, text)
}

// Reset discards the transaction built up so far.
func (s *Session) Reset() (protocol.Reply, error) {
	return s.do(protocol.VerbReset, "")
}

// Send finalizes the current message transaction.
func (s *Session) Send() (protocol.Reply, error) {
	return s.do(protocol.VerbSend, "")
}

// Quit ends the session and closes the connection. The session is not
// reusable afterward without a fresh Dial.
func (s *Session) Quit() (protocol.Reply, error) {
	reply, err := s.do(protocol.VerbQuit, "")
	if closeErr := s.conn.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	return reply, err
}

// Close releases the connection without sending QUIT. Idempotent.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Help aggregates the server's help text: after the initial 214 reply
// it keeps reading raw replies for as long as they carry 214, joining
// their texts with newlines. The returned reply holds the first
// non-214 code and the joined help text.
func (s *Session) Help() (protocol.Reply, error) {
	reply, err := s.do(protocol.VerbHelp, "")
	if err != nil || reply.Code != protocol.CodeHelpLine {
		return reply, err
	}
	var parts []string
	for reply.Code == protocol.CodeHelpLine {
		parts = append(parts, reply.Text)
		reply, err = protocol.ReadReply(s.conn)
		if err != nil {
			return protocol.Reply{}, err
		}
	}
	return protocol.Reply{Code: reply.Code, Text: strings.Join(parts, "\n"), Multiline: true}, nil
}

// Data runs the two-step DATA transaction: issue DATA, and only on a
// 354 go-ahead send the quoted payload followed by the CRLF "." CRLF
// end-of-data sentinel, then read the final verdict. Any other code
// abandons the transaction with zero payload bytes on the wire.
func (s *Session) Data(payload string) (protocol.Reply, error) {
	reply, err := s.do(protocol.VerbData, "")
	if err != nil || reply.Code != protocol.CodeBeginData {
		return reply, err
	}
	if err := s.conn.Write([]byte(protocol.QuoteData(payload))); err != nil {
		return protocol.Reply{}, err
	}
	if err := s.conn.Write([]byte(protocol.CRLF + "." + protocol.CRLF)); err != nil {
		return protocol.Reply{}, err
	}
	return protocol.ReadReply(s.conn)
}

// Login authenticates the session. Password may be empty.
func (s *Session) Login(login, password string) (protocol.Reply, error) {
	args := login
	if password != "" {
		args = login + " " + password
	}
	return s.do(protocol.VerbLogin, args)
}

// Level sets the service level. Valid levels are 0 through 11; out of
// range values are rejected locally, nothing hits the wire.
func (s *Session) Level(level int) (protocol.Reply, error) {
	if level < 0 || level > 11 {
		return protocol.Reply{}, ErrLevelOutOfRange
	}
	return s.do(protocol.VerbLevel, strconv.Itoa(level))
}

// Alert overrides the subscriber's default alert setting.
func (s *Session) Alert(flag int) (protocol.Reply, error) {
	return s.do(protocol.VerbAlert, strconv.Itoa(flag))
}

// Coverage overrides the subscriber's default coverage area.
func (s *Session) Coverage(area string) (protocol.Reply, error) {
	return s.do(protocol.VerbCoverage, area)
}

// HoldUntil schedules delayed delivery (YYMMDDHHMMSS [+/-GMT]).
func (s *Session) HoldUntil(at string) (protocol.Reply, error) {
	return s.do(protocol.VerbHold, at)
}

// CallerID attaches a caller identifier to the message.
func (s *Session) CallerID(id string) (protocol.Reply, error) {
	return s.do(protocol.VerbCallerID, id)
}

// Subject sets the message subject.
func (s *Session) Subject(text string) (protocol.Reply, error) {
	return s.do(protocol.VerbSubject, text)
}

// TwoWay marks the transaction as a two-way page.
func (s *Session) TwoWay() (protocol.Reply, error) {
	return s.do(protocol.VerbTwoWay, "")
}

// MCResponse registers one acceptable multiple-choice response for a
// two-way page.
func (s *Session) MCResponse(seed, text string) (protocol.Reply, error) {
	return s.do(protocol.VerbMCResp, seed+" "+text)
}

// MStatus queries the status of a sent two-way page.
func (s *Session) MStatus(tag, code string) (protocol.Reply, error) {
	return s.do(protocol.VerbMStatus, tag+" "+code)
}

// Remaining level 3 verbs, plain pass-throughs.

func (s *Session) Ping(id string) (protocol.Reply, error) {
	return s.do(protocol.VerbPing, id)
}

func (s *Session) ExpTag(hours string) (protocol.Reply, error) {
	return s.do(protocol.VerbExpTag, hours)
}

func (s *Session) NoQueue(args string) (protocol.Reply, error) {
	return s.do(protocol.VerbNoQueue, args)
}

func (s *Session) AckRead(flag string) (protocol.Reply, error) {
	return s.do(protocol.VerbAckRead, flag)
}

func (s *Session) ReplyType(kind string) (protocol.Reply, error) {
	return s.do(protocol.VerbRespType, kind)
}

func (s *Session) KillTag(tag, password string) (protocol.Reply, error) {
	return s.do(protocol.VerbKillTag, tag+" "+password)
}
