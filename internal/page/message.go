package page

// HoldNow is the sentinel for "deliver immediately": it suppresses the
// HOLD command even when the message carries a hold time, so a single
// recipient can opt out of a delayed delivery.
const HoldNow = "now"

// Delivery collects the optional per-page properties a Recipient or a
// Message may carry. Nil/empty means unset; a recipient's value takes
// precedence over the message's.
type Delivery struct {
	HoldUntil string
	Coverage  string
	Level     *int
	Alert     *int
}

// Recipient is one destination pager. Pin is optional.
type Recipient struct {
	ID  string
	Pin string
	Delivery
}

// SendNow marks this recipient for immediate delivery regardless of
// any hold time set on the message.
func (r *Recipient) SendNow() {
	r.HoldUntil = HoldNow
}

// Response is one acceptable multiple-choice answer for a two-way
// page: a short seed code paired with its display text.
type Response struct {
	Seed string
	Text string
}

// Message is the payload plus its message-scoped properties. CallerID
// and Subject apply to the whole transaction; the embedded Delivery
// values act as defaults any recipient may override.
type Message struct {
	Text      string
	CallerID  string
	Subject   string
	TwoWay    bool
	Responses []Response
	Delivery
}

// AddResponse registers a multiple-choice response and flags the
// message two-way.
func (m *Message) AddResponse(r Response) {
	m.TwoWay = true
	m.Responses = append(m.Responses, r)
}

func intProp(recipient, message *int) (*int, bool) {
	if recipient != nil {
		return recipient, true
	}
	if message != nil {
		return message, true
	}
	return nil, false
}

func stringProp(recipient, message string) (string, bool) {
	if recipient != "" {
		return recipient, true
	}
	if message != "" {
		return message, true
	}
	return "", false
}
