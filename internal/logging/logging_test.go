package logging

import (
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mslade/todos/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.WarnLevel},
		{"bogus", log.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewHonorsConfig(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json"}
	logger := New(cfg)
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("level: got %v, want debug", logger.GetLevel())
	}
}

func TestDiscardDoesNotPanic(t *testing.T) {
	Discard().Warn("swallowed", "key", "value")
}
