package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/pagectl/internal/protocol"
	"github.com/danmuck/pagectl/internal/snpp"
)

var (
	ErrNoServer         = errors.New("page: no host and no session supplied")
	ErrMessageRequired  = errors.New("page: message required")
	ErrNotTwoWay        = errors.New("page: status available for two-way pages only")
	ErrTwoWayReceipt    = errors.New("page: malformed two-way send reply")
	ErrRecipientMissing = errors.New("page: at least one recipient required")
)

// recipientCommands is the static dispatch table for optional delivery
// properties: property present -> verb issued, recipient value over
// message value. Replaces the original's runtime attribute probing.
var recipientCommands = []struct {
	name  string
	issue func(s *snpp.Session, r Recipient, m Message) (bool, error)
}{
	{"alert", func(s *snpp.Session, r Recipient, m Message) (bool, error) {
		v, ok := intProp(r.Alert, m.Alert)
		if !ok {
			return false, nil
		}
		_, err := s.Alert(*v)
		return true, err
	}},
	{"level", func(s *snpp.Session, r Recipient, m Message) (bool, error) {
		v, ok := intProp(r.Level, m.Level)
		if !ok {
			return false, nil
		}
		_, err := s.Level(*v)
		return true, err
	}},
	{"hold", func(s *snpp.Session, r Recipient, m Message) (bool, error) {
		v, ok := stringProp(r.HoldUntil, m.HoldUntil)
		if !ok || v == HoldNow {
			return false, nil
		}
		_, err := s.HoldUntil(v)
		return true, err
	}},
	{"coverage", func(s *snpp.Session, r Recipient, m Message) (bool, error) {
		v, ok := stringProp(r.Coverage, m.Coverage)
		if !ok {
			return false, nil
		}
		_, err := s.Coverage(v)
		return true, err
	}},
}

// messageCommands covers the message-scoped properties; no recipient
// override exists for these.
var messageCommands = []struct {
	name  string
	issue func(s *snpp.Session, m Message) (bool, error)
}{
	{"callerid", func(s *snpp.Session, m Message) (bool, error) {
		if m.CallerID == "" {
			return false, nil
		}
		_, err := s.CallerID(m.CallerID)
		return true, err
	}},
	{"subject", func(s *snpp.Session, m Message) (bool, error) {
		if m.Subject == "" {
			return false, nil
		}
		_, err := s.Subject(m.Subject)
		return true, err
	}},
}

// Pager drives one paging transaction end to end over an owned or
// injected session.
type Pager struct {
	session  *snpp.Session
	recips   []Recipient
	message  *Message
	login    string
	password string
}

// New dials a fresh session from cfg. An empty host is a configuration
// error; use WithSession to hand in an existing connection instead.
func New(recips []Recipient, message *Message, cfg snpp.Config) (*Pager, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrNoServer
	}
	session, err := snpp.Dial(cfg)
	if err != nil {
		return nil, err
	}
	return WithSession(recips, message, session), nil
}

// WithSession wraps an already-connected session.
func WithSession(recips []Recipient, message *Message, session *snpp.Session) *Pager {
	return &Pager{session: session, recips: recips, message: message}
}

func (p *Pager) AddRecipient(recips ...Recipient) {
	p.recips = append(p.recips, recips...)
}

// RemoveRecipient drops every recipient with the given ID.
func (p *Pager) RemoveRecipient(id string) {
	kept := p.recips[:0]
	for _, r := range p.recips {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	p.recips = kept
}

func (p *Pager) SetMessage(m *Message) {
	p.message = m
}

func (p *Pager) SetLogin(login, password string) {
	p.login = login
	p.password = password
}

// Send runs the full sequence: LOGI if credentials are set, then per
// recipient the applicable delivery properties followed by PAGE, then
// message properties, then for two-way pages 2WAY plus one MCRE per
// registered response, then the DATA transaction and SEND.
func (p *Pager) Send() (*Receipt, error) {
	if p.message == nil {
		return nil, ErrMessageRequired
	}
	if len(p.recips) == 0 {
		return nil, ErrRecipientMissing
	}

	if p.login != "" {
		if _, err := p.session.Login(p.login, p.password); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}

	for _, r := range p.recips {
		for _, cmd := range recipientCommands {
			if _, err := cmd.issue(p.session, r, *p.message); err != nil {
				return nil, fmt.Errorf("%s for %s: %w", cmd.name, r.ID, err)
			}
		}
		if _, err := p.session.Pager(r.ID, r.Pin); err != nil {
			return nil, fmt.Errorf("page %s: %w", r.ID, err)
		}
	}

	for _, cmd := range messageCommands {
		if _, err := cmd.issue(p.session, *p.message); err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.name, err)
		}
	}

	if p.message.TwoWay {
		if _, err := p.session.TwoWay(); err != nil {
			return nil, fmt.Errorf("2way: %w", err)
		}
		for _, resp := range p.message.Responses {
			if _, err := p.session.MCResponse(resp.Seed, resp.Text); err != nil {
				return nil, fmt.Errorf("mcresponse %s: %w", resp.Seed, err)
			}
		}
	}

	if _, err := p.session.Data(p.message.Text); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	reply, err := p.session.Send()
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	receipt := &Receipt{Code: reply.Code, Text: reply.Text, session: p.session}
	if p.message.TwoWay {
		if err := receipt.parseTwoWay(reply.Text); err != nil {
			return receipt, err
		}
	}
	return receipt, nil
}

// Quit ends the underlying session.
func (p *Pager) Quit() error {
	_, err := p.session.Quit()
	return err
}

// Receipt reports the outcome of Send. Tag and PassCode are populated
// for two-way pages only and key later status lookups.
type Receipt struct {
	Code     int
	Text     string
	Tag      string
	PassCode string
	session  *snpp.Session
}

// parseTwoWay splits the SEND reply text "tag pass_code message".
func (r *Receipt) parseTwoWay(text string) error {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 3)
	if len(parts) < 2 {
		return fmt.Errorf("%w: %q", ErrTwoWayReceipt, text)
	}
	r.Tag = parts[0]
	r.PassCode = parts[1]
	if len(parts) == 3 {
		r.Text = parts[2]
	} else {
		r.Text = ""
	}
	return nil
}

// Status queries the paging terminal for the current state of a sent
// two-way page via MSTA.
func (r *Receipt) Status() (protocol.Reply, error) {
	if r.Tag == "" {
		return protocol.Reply{}, ErrNotTwoWay
	}
	return r.session.MStatus(r.Tag, r.PassCode)
}
