package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, got, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo},
	}

	for _, test := range tests {
		if got := test.level.SlogLevel(); got != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, got, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %s, expected %s", in, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitForCLI(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Info("test-subsystem", "test message %d", 42)
	Debug("test-subsystem", "hidden debug message")

	output := buf.String()
	if !strings.Contains(output, "test message 42") {
		t.Errorf("expected formatted message in output, got %q", output)
	}
	if !strings.Contains(output, "subsystem=test-subsystem") {
		t.Errorf("expected subsystem attribute in output, got %q", output)
	}
	if strings.Contains(output, "hidden debug message") {
		t.Error("debug message should be filtered at info level")
	}
}

func TestAudit(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Audit("CredentialStore", "credentials_cleared", "credentials cleared", slog.String("reason", "logout"))

	output := buf.String()
	for _, want := range []string{"SECURITY_AUDIT: credentials cleared", "event=credentials_cleared", "reason=logout"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in audit output, got %q", want, output)
		}
	}
}
