// internal/logger/logger_test.go
package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DEBUG)
	logger.AddOutput(DEBUG, &buf)

	tests := []struct {
		level   LogLevel
		message string
	}{
		{DEBUG, "debug message"},
		{INFO, "info message"},
		{WARN, "warning message"},
		{ERROR, "error message"},
	}

	for _, tt := range tests {
		buf.Reset()

		switch tt.level {
		case DEBUG:
			logger.Debug("%s", tt.message)
		case INFO:
			logger.Info("%s", tt.message)
		case WARN:
			logger.Warn("%s", tt.message)
		case ERROR:
			logger.Error("%s", tt.message)
		}

		output := buf.String()
		if !strings.Contains(output, tt.message) {
			t.Errorf("Expected log to contain %q, got %q", tt.message, output)
		}
		if !strings.Contains(output, "["+tt.level.String()+"]") {
			t.Errorf("Expected log to contain level %q, got %q", tt.level, output)
		}
	}
}

func TestLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO)
	logger.AddOutput(DEBUG, &buf)

	// Debug shouldn't log when level is INFO
	logger.Debug("debug message")
	if buf.String() != "" {
		t.Error("Expected no debug output when level is INFO")
	}

	// Info should log
	buf.Reset()
	logger.Info("info message")
	if buf.String() == "" {
		t.Error("Expected info output")
	}
}

func TestOutputThreshold(t *testing.T) {
	var errorsOnly, everything bytes.Buffer
	logger := NewLogger(DEBUG)
	logger.AddOutput(ERROR, &errorsOnly)
	logger.AddOutput(DEBUG, &everything)

	logger.Warn("quota evicted")
	logger.Error("write failed")

	if strings.Contains(errorsOnly.String(), "quota evicted") {
		t.Error("ERROR output should not receive warnings")
	}
	if !strings.Contains(errorsOnly.String(), "write failed") {
		t.Error("ERROR output should receive errors")
	}
	if strings.Count(everything.String(), "\n") != 2 {
		t.Errorf("DEBUG output should receive both lines, got %q", everything.String())
	}
}

func TestFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO)
	logger.AddOutput(INFO, &buf)

	logger.Info("Count: %d", 42)
	output := buf.String()
	if !strings.Contains(output, "Count: 42") {
		t.Errorf("Expected formatted message, got %q", output)
	}
}

func TestMultipleOutputs(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	logger := NewLogger(INFO)
	logger.AddOutput(INFO, &buf1)
	logger.AddOutput(INFO, &buf2)

	const message = "test message"
	logger.Info(message)

	if !strings.Contains(buf1.String(), message) {
		t.Error("Expected message in first buffer")
	}
	if !strings.Contains(buf2.String(), message) {
		t.Error("Expected message in second buffer")
	}
}

func TestShowFile(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(INFO)
	logger.AddOutput(INFO, &buf)

	logger.SetShowFile(true)
	logger.Info("test message")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Errorf("Expected file information in log, got %q", buf.String())
	}

	buf.Reset()
	logger.SetShowFile(false)
	logger.Info("test message")
	if strings.Contains(buf.String(), "logger_test.go:") {
		t.Error("Expected no file information in log")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{" error ", ERROR, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileOutputAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fossflow.log")
	logger := NewLogger(INFO)

	if err := logger.AddFileOutput(INFO, path); err != nil {
		t.Fatalf("AddFileOutput: %v", err)
	}
	logger.Info("saved diagram %s", "net")
	logger.Reset()
	logger.Info("dropped after reset")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "saved diagram net") {
		t.Errorf("Expected message in log file, got %q", string(data))
	}
	if strings.Contains(string(data), "dropped after reset") {
		t.Error("Expected no output after Reset")
	}
}
