package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Profile describes one page to submit: where, as whom, to whom, and
// what. Loaded from TOML.
type Profile struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Login    string `toml:"login"`
	Password string `toml:"password"`

	Message    MessageEntry     `toml:"message"`
	Recipients []RecipientEntry `toml:"recipients"`
}

type MessageEntry struct {
	Text      string          `toml:"text"`
	CallerID  string          `toml:"caller_id"`
	Subject   string          `toml:"subject"`
	HoldUntil string          `toml:"hold_until"`
	Coverage  string          `toml:"coverage"`
	Level     *int            `toml:"level"`
	Alert     *int            `toml:"alert"`
	TwoWay    bool            `toml:"twoway"`
	Responses []ResponseEntry `toml:"responses"`
}

type RecipientEntry struct {
	ID        string `toml:"id"`
	Pin       string `toml:"pin"`
	HoldUntil string `toml:"hold_until"`
	Coverage  string `toml:"coverage"`
	Level     *int   `toml:"level"`
	Alert     *int   `toml:"alert"`
	SendNow   bool   `toml:"send_now"`
}

type ResponseEntry struct {
	Seed string `toml:"seed"`
	Text string `toml:"text"`
}

func LoadProfile(path string) (Profile, error) {
	var p Profile
	if err := loadToml(path, &p); err != nil {
		return Profile{}, err
	}
	if p.Port == 0 {
		p.Port = 444
	}
	if err := ValidateProfile(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("profile missing host")
	}
	if strings.TrimSpace(p.Message.Text) == "" {
		return fmt.Errorf("profile missing message.text")
	}
	if len(p.Recipients) == 0 {
		return fmt.Errorf("profile needs at least one [[recipients]] entry")
	}
	if err := validateLevel(p.Message.Level); err != nil {
		return fmt.Errorf("message invalid: %w", err)
	}
	for i, r := range p.Recipients {
		if err := ValidateRecipient(r); err != nil {
			return fmt.Errorf("recipients[%d] invalid: %w", i, err)
		}
	}
	for i, resp := range p.Message.Responses {
		if strings.TrimSpace(resp.Seed) == "" || strings.TrimSpace(resp.Text) == "" {
			return fmt.Errorf("responses[%d] invalid: seed and text are required", i)
		}
	}
	return nil
}

func ValidateRecipient(r RecipientEntry) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("id is required")
	}
	return validateLevel(r.Level)
}

func validateLevel(level *int) error {
	if level == nil {
		return nil
	}
	if *level < 0 || *level > 11 {
		return fmt.Errorf("level %d out of range [0,11]", *level)
	}
	return nil
}
