package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLoggingWritesBothSinks(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	l, closer, err := SetupLogging(LogOptions{Name: "test", Level: "debug", Directory: dir, MaxSizeMB: 1, Stdout: &stdout})
	if err != nil {
		t.Fatalf("SetupLogging: %v", err)
	}
	l.Debug("aircraft loaded", "name", "F-16C_50")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !strings.Contains(stdout.String(), "aircraft loaded") {
		t.Fatalf("stdout missing line: %q", stdout.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "name=F-16C_50") {
		t.Fatalf("log file missing line: %q", data)
	}
}

func TestSetupLoggingLevel(t *testing.T) {
	var stdout bytes.Buffer
	l, _, err := SetupLogging(LogOptions{Level: "bogus", Stdout: &stdout})
	if err != nil {
		t.Fatalf("SetupLogging: %v", err)
	}
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(stdout.String(), "hidden") || !strings.Contains(stdout.String(), "shown") {
		t.Fatalf("unexpected output %q", stdout.String())
	}
}
