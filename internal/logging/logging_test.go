package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"Default is info", false, false},
		{"Verbose enables debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.verbose, "")
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got := logger.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v; want %v", got, tt.wantDebug)
			}
			if !logger.Core().Enabled(zap.InfoLevel) {
				t.Error("info should always be enabled")
			}
		})
	}
}

func TestNew_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telconv.log")

	logger, err := New(false, path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("batch complete", zap.Int("converted", 2))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "batch complete") || !strings.Contains(out, `"converted": 2`) {
		t.Errorf("log file missing entry:\n%s", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("expected capitalized level in:\n%s", out)
	}
}

func TestNew_BadLogFile(t *testing.T) {
	if _, err := New(false, filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Fatal("expected error for unwritable log file")
	}
}
