package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetLoggerIsShared(t *testing.T) {
	if GetLogger() != GetLogger() {
		t.Error("GetLogger should return the same logger")
	}
}

func TestFirstCallFixesLevel(t *testing.T) {
	first := GetLogger()
	level := zerolog.GlobalLevel()

	if got := GetLoggerConfigured(zerolog.TraceLevel); got != first {
		t.Error("GetLoggerConfigured should return the shared logger")
	}
	if zerolog.GlobalLevel() != level {
		t.Errorf("level changed to %v after first configuration, want %v", zerolog.GlobalLevel(), level)
	}
}
