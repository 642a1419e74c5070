package snpp

import (
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPort is the IANA-assigned SNPP port.
const DefaultPort = 444

// Config carries session construction parameters. Host and Port are
// fixed for the life of the session; only debug tracing is mutable
// afterward.
type Config struct {
	Host           string
	Port           int
	ConnectTimeout time.Duration

	// Debug surfaces every connect attempt and every raw line sent or
	// received on the trace logger. Observability only; no behavior
	// rides on it. A nil Logger with Debug set traces nowhere.
	Debug  bool
	Logger *zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           DefaultPort,
		ConnectTimeout: 5 * time.Second,
	}
}

func (c Config) WithDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	return c
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) trace() zerolog.Logger {
	if !c.Debug || c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}
