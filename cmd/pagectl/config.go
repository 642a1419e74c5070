package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/pagectl/internal/snpp"
)

type fileConfig struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	ConnectTimeout   string `toml:"connect_timeout"`
	ConnectTimeoutMS int64  `toml:"connect_timeout_ms"`
	Debug            bool   `toml:"debug"`
}

// loadClientConfig layers a client settings file over the defaults.
// Only keys present in the file override anything.
func loadClientConfig(path string) (snpp.Config, error) {
	cfg := snpp.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return snpp.Config{}, fmt.Errorf("load client config: %w", err)
	}

	if meta.IsDefined("host") {
		if host := strings.TrimSpace(raw.Host); host != "" {
			cfg.Host = host
		}
	}
	if meta.IsDefined("port") {
		if raw.Port <= 0 || raw.Port > 65535 {
			return snpp.Config{}, fmt.Errorf("port out of range: %d", raw.Port)
		}
		cfg.Port = raw.Port
	}
	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return snpp.Config{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}
	if meta.IsDefined("connect_timeout_ms") {
		if raw.ConnectTimeoutMS <= 0 {
			return snpp.Config{}, fmt.Errorf("connect_timeout_ms must be positive: %d", raw.ConnectTimeoutMS)
		}
		cfg.ConnectTimeout = time.Duration(raw.ConnectTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	return cfg, nil
}
