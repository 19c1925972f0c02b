package utils

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{" Info ", LevelInfo},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	l := &Logger{
		min: LevelWarn,
		out: log.New(&out, "", 0),
		err: log.New(&errOut, "", 0),
	}

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")

	if strings.Contains(out.String(), "debug line") || strings.Contains(out.String(), "info line") {
		t.Errorf("below-threshold lines leaked: %q", out.String())
	}
	if !strings.Contains(out.String(), "warn line") {
		t.Error("warn line missing")
	}
	if !strings.Contains(errOut.String(), "error line") {
		t.Error("error line missing from stderr stream")
	}
}

func TestLoggerFormatsArgs(t *testing.T) {
	var out bytes.Buffer
	l := &Logger{min: LevelInfo, out: log.New(&out, "", 0), err: log.New(&out, "", 0)}

	l.Info("scraped %d points from %s", 3, "cafef.vn")

	if !strings.Contains(out.String(), "scraped 3 points from cafef.vn") {
		t.Errorf("formatting failed: %q", out.String())
	}
}
