package config

import (
	"github.com/danmuck/pagectl/internal/page"
	"github.com/danmuck/pagectl/internal/snpp"
)

// SessionConfig maps a profile onto session construction parameters.
func SessionConfig(p Profile) snpp.Config {
	cfg := snpp.DefaultConfig()
	cfg.Host = p.Host
	cfg.Port = p.Port
	return cfg
}

// Recipients converts the profile's recipient entries.
func Recipients(p Profile) []page.Recipient {
	out := make([]page.Recipient, 0, len(p.Recipients))
	for _, entry := range p.Recipients {
		r := page.Recipient{
			ID:  entry.ID,
			Pin: entry.Pin,
			Delivery: page.Delivery{
				HoldUntil: entry.HoldUntil,
				Coverage:  entry.Coverage,
				Level:     entry.Level,
				Alert:     entry.Alert,
			},
		}
		if entry.SendNow {
			r.SendNow()
		}
		out = append(out, r)
	}
	return out
}

// Message converts the profile's message entry.
func Message(p Profile) *page.Message {
	m := &page.Message{
		Text:     p.Message.Text,
		CallerID: p.Message.CallerID,
		Subject:  p.Message.Subject,
		TwoWay:   p.Message.TwoWay,
		Delivery: page.Delivery{
			HoldUntil: p.Message.HoldUntil,
			Coverage:  p.Message.Coverage,
			Level:     p.Message.Level,
			Alert:     p.Message.Alert,
		},
	}
	for _, resp := range p.Message.Responses {
		m.AddResponse(page.Response{Seed: resp.Seed, Text: resp.Text})
	}
	return m
}
