// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// Log levels
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// String returns the upper-case level name
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a config value such as "debug" or "WARN" to a LogLevel
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger represents a logger instance
type Logger struct {
	level      LogLevel
	outputs    map[LogLevel][]io.Writer
	closers    []io.Closer
	mu         sync.Mutex
	showFile   bool
	timeFormat string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger instance. Everything goes to stderr so
// that stdout stays reserved for command output.
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(WARN)
		defaultLogger.AddOutput(DEBUG, os.Stderr)
	})
	return defaultLogger
}

// NewLogger creates a new logger instance with the specified minimum log level
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		level:      level,
		outputs:    make(map[LogLevel][]io.Writer),
		timeFormat: "2006-01-02 15:04:05",
		showFile:   true,
	}
}

// SetLevel changes the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current minimum log level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetTimeFormat sets the time format string used in log messages
func (l *Logger) SetTimeFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeFormat = format
}

// SetShowFile enables or disables showing file and line information in logs
func (l *Logger) SetShowFile(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showFile = show
}

// AddOutput adds an output writer that receives messages of the given level
// and everything more severe
func (l *Logger) AddOutput(level LogLevel, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs[level] = append(l.outputs[level], w)
}

// Reset drops every output, closing any files opened by AddFileOutput
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.closers {
		c.Close()
	}
	l.closers = nil
	l.outputs = make(map[LogLevel][]io.Writer)
}

// AddFileOutput adds a file output for the specified log level
func (l *Logger) AddFileOutput(level LogLevel, filename string) error {
	// Ensure directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.AddOutput(level, file)
	l.mu.Lock()
	l.closers = append(l.closers, file)
	l.mu.Unlock()
	return nil
}

// getCallerInfo returns the file and line number of the caller
func getCallerInfo(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???:0"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// formatMessage formats a log message with timestamp, level, and caller info
func (l *Logger) formatMessage(level LogLevel, msg, caller string) string {
	timestamp := time.Now().Format(l.timeFormat)
	if caller != "" {
		return fmt.Sprintf("%s [%s] %s - %s", timestamp, level, caller, msg)
	}
	return fmt.Sprintf("%s [%s] %s", timestamp, level, msg)
}

// log writes a message to every output registered at this level or below.
// skip is the number of frames between the user's call site and log.
func (l *Logger) log(skip int, level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	var msg string
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	} else {
		msg = format
	}

	var caller string
	if l.showFile {
		caller = getCallerInfo(skip + 1)
	}
	formattedMsg := l.formatMessage(level, msg, caller)

	for lvl, writers := range l.outputs {
		if level >= lvl {
			for _, w := range writers {
				fmt.Fprintln(w, formattedMsg)
			}
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(2, DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(2, INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(2, WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(2, ERROR, format, args...)
}

// Global convenience functions that use the default logger

func Debug(format string, args ...interface{}) {
	GetLogger().log(2, DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	GetLogger().log(2, INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	GetLogger().log(2, WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().log(2, ERROR, format, args...)
}

// SetGlobalLevel sets the level for the default logger
func SetGlobalLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}

// RedirectToFile replaces the default logger's outputs with a log file, used
// by full-screen and long-running commands where stderr is not watched.
func RedirectToFile(filename string) error {
	l := GetLogger()
	l.Reset()
	return l.AddFileOutput(DEBUG, filename)
}
