package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadClientConfigDefaults(t *testing.T) {
	cfg, err := loadClientConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "localhost" || cfg.Port != 444 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.ConnectTimeout != 5*time.Second {
		t.Fatalf("connect timeout default: %v", cfg.ConnectTimeout)
	}
}

func TestLoadClientConfigOverrides(t *testing.T) {
	cfg, err := loadClientConfig(writeConfig(t, `
host = "paging.example.net"
port = 10444
connect_timeout = "2s"
debug = true
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "paging.example.net" || cfg.Port != 10444 {
		t.Fatalf("overrides missed: %+v", cfg)
	}
	if cfg.ConnectTimeout != 2*time.Second {
		t.Fatalf("connect timeout: %v", cfg.ConnectTimeout)
	}
	if !cfg.Debug {
		t.Fatalf("debug not set")
	}
}

func TestLoadClientConfigTimeoutMillis(t *testing.T) {
	cfg, err := loadClientConfig(writeConfig(t, "connect_timeout_ms = 1500\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConnectTimeout != 1500*time.Millisecond {
		t.Fatalf("connect timeout: %v", cfg.ConnectTimeout)
	}
}

func TestLoadClientConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad port", "port = 70000\n"},
		{"zero port", "port = 0\n"},
		{"bad duration", "connect_timeout = \"soon\"\n"},
		{"negative millis", "connect_timeout_ms = -5\n"},
	}
	for _, tc := range cases {
		if _, err := loadClientConfig(writeConfig(t, tc.body)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
