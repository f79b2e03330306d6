package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger = log.New(os.Stderr, "[dcspy] ", log.LstdFlags|log.Lmicroseconds)
)

func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

// LogOptions configure the process logger and its rotating file.
type LogOptions struct {
	Name       string
	Level      string
	Directory  string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
	// Stdout defaults to os.Stdout.
	Stdout io.Writer
}

// SetupLogging builds the process logger writing to stdout and to a
// lumberjack-rotated file under Directory. The standard library logger is
// redirected to it as well.
func SetupLogging(opts LogOptions) (hclog.Logger, io.Closer, error) {
	if opts.Name == "" {
		opts.Name = "dcspy"
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	var closer io.Closer = io.NopCloser(nil)
	if opts.Directory != "" {
		if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Directory, opts.Name+".log"),
			MaxSize:    opts.MaxSizeMB,
			MaxAge:     opts.MaxAgeDays,
			MaxBackups: opts.MaxBackups,
			Compress:   opts.Compress,
		}
		out = io.MultiWriter(out, rotator)
		closer = rotator
	}
	level := hclog.LevelFromString(strings.TrimSpace(opts.Level))
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	l := hclog.New(&hclog.LoggerOptions{
		Name:   opts.Name,
		Level:  level,
		Output: out,
	})
	logger.SetOutput(out)
	log.SetOutput(l.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true}))
	log.SetFlags(0)
	return l, closer, nil
}
