package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"example.com/dcspy/internal/lcd"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "keyboard: G19\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Multicast.Group != "239.255.50.10" || cfg.Multicast.Port != 5010 {
		t.Fatalf("multicast defaults %+v", cfg.Multicast)
	}
	if cfg.Command.Host != "127.0.0.1" || cfg.Command.Port != 7778 {
		t.Fatalf("command defaults %+v", cfg.Command)
	}
	if cfg.ReceiveTimeout != 500*time.Millisecond {
		t.Fatalf("timeout %s", cfg.ReceiveTimeout)
	}
	if cfg.LCD().Kind != lcd.Color {
		t.Fatalf("G19 should be color")
	}
	if want := filepath.Join(filepath.Dir(path), "logs"); cfg.Logs.Directory != want {
		t.Fatalf("log dir %s want %s", cfg.Logs.Directory, want)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
keyboard: G510
aircraft: F-16C_50
receiveTimeout: 2s
multicast:
  port: 6000
display:
  kind: discard
logLevel: debug
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Aircraft != "F-16C_50" || cfg.ReceiveTimeout != 2*time.Second || cfg.Multicast.Port != 6000 {
		t.Fatalf("overrides lost: %+v", cfg)
	}
	if cfg.Display.Kind != "discard" || cfg.LogLevel != "debug" {
		t.Fatalf("overrides lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown keyboard", "keyboard: G910\n"},
		{"unknown display", "display:\n  kind: hdmi\n"},
		{"unknown field", "brightness: 3\n"},
		{"bad port", "command:\n  port: 70000\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected ErrNoConfig, got %v", err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
