// Package config loads the daemon's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/dcspy/internal/lcd"
)

// ErrNoConfig is returned when the configuration file does not exist.
var ErrNoConfig = errors.New("configuration file not found")

type LogConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type MulticastConfig struct {
	Group     string `yaml:"group"`
	Port      int    `yaml:"port"`
	Interface string `yaml:"interface"`
}

type CommandConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DisplayConfig struct {
	Kind string `yaml:"kind"`
	Dir  string `yaml:"dir"`
}

type Config struct {
	Keyboard       string          `yaml:"keyboard"`
	Aircraft       string          `yaml:"aircraft"`
	Multicast      MulticastConfig `yaml:"multicast"`
	Command        CommandConfig   `yaml:"command"`
	ReceiveTimeout time.Duration   `yaml:"receiveTimeout"`
	Display        DisplayConfig   `yaml:"display"`
	Logs           LogConfig       `yaml:"logs"`
	LogLevel       string          `yaml:"logLevel"`
}

// Default returns the configuration used when a field is left empty.
func Default() Config {
	var cfg Config
	cfg.applyDefaults("")
	return cfg
}

// Load decodes path and fills in defaults. Relative directories are
// resolved against the directory holding the file.
func Load(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrNoConfig, path)
		}
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.applyDefaults(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults(baseDir string) {
	resolvePath := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || filepath.IsAbs(p) || baseDir == "" {
			return filepath.Clean(p)
		}
		return filepath.Clean(filepath.Join(baseDir, p))
	}
	if cfg.Keyboard == "" {
		cfg.Keyboard = "G13"
	}
	if cfg.Multicast.Group == "" {
		cfg.Multicast.Group = "239.255.50.10"
	}
	if cfg.Multicast.Port == 0 {
		cfg.Multicast.Port = 5010
	}
	if cfg.Command.Host == "" {
		cfg.Command.Host = "127.0.0.1"
	}
	if cfg.Command.Port == 0 {
		cfg.Command.Port = 7778
	}
	if cfg.ReceiveTimeout <= 0 {
		cfg.ReceiveTimeout = 500 * time.Millisecond
	}
	if cfg.Display.Kind == "" {
		cfg.Display.Kind = "png"
	}
	if cfg.Display.Dir == "" {
		cfg.Display.Dir = "screens"
	}
	cfg.Display.Dir = resolvePath(cfg.Display.Dir)
	if cfg.Logs.Directory == "" {
		cfg.Logs.Directory = "logs"
	}
	cfg.Logs.Directory = resolvePath(cfg.Logs.Directory)
	if cfg.Logs.MaxSizeMB <= 0 {
		cfg.Logs.MaxSizeMB = 25
	}
	if cfg.Logs.MaxAgeDays <= 0 {
		cfg.Logs.MaxAgeDays = 7
	}
	if cfg.Logs.MaxBackups <= 0 {
		cfg.Logs.MaxBackups = 5
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate rejects values no component can work with.
func (cfg Config) Validate() error {
	if _, err := lcd.ForKeyboard(cfg.Keyboard); err != nil {
		return err
	}
	switch cfg.Display.Kind {
	case "png", "discard":
	default:
		return fmt.Errorf("unknown display kind %q", cfg.Display.Kind)
	}
	if cfg.Multicast.Port < 0 || cfg.Multicast.Port > 65535 || cfg.Command.Port < 0 || cfg.Command.Port > 65535 {
		return errors.New("port out of range")
	}
	return nil
}

// LCD returns the display geometry of the configured keyboard.
func (cfg Config) LCD() lcd.Info {
	info, err := lcd.ForKeyboard(cfg.Keyboard)
	if err != nil {
		return lcd.MonoInfo
	}
	return info
}
