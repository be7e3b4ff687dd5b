package common

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelPrefixes = map[LogLevel]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
}

// ParseLogLevel converts a string to LogLevel. Unknown values mean warn.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error", "fatal":
		return LogLevelError
	default:
		return LogLevelWarn
	}
}

// LogEntry represents a buffered log entry
type LogEntry struct {
	Level   LogLevel
	Message string
}

// LogBuffer holds messages emitted while settings are still loading, before
// the stderr level is known.
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogBuffer creates a new log buffer
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{entries: make([]LogEntry, 0)}
}

func (b *LogBuffer) add(level LogLevel, format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, LogEntry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Debug buffers a debug message
func (b *LogBuffer) Debug(format string, args ...interface{}) { b.add(LogLevelDebug, format, args...) }

// Info buffers an info message
func (b *LogBuffer) Info(format string, args ...interface{}) { b.add(LogLevelInfo, format, args...) }

// Warn buffers a warning message
func (b *LogBuffer) Warn(format string, args ...interface{}) { b.add(LogLevelWarn, format, args...) }

// Error buffers an error message
func (b *LogBuffer) Error(format string, args ...interface{}) { b.add(LogLevelError, format, args...) }

// Flush writes buffered messages at or above minLevel and empties the buffer.
func (b *LogBuffer) Flush(minLevel LogLevel, output io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, entry := range b.entries {
		if entry.Level >= minLevel {
			fmt.Fprintf(output, "%s: %s\n", levelPrefixes[entry.Level], entry.Message)
		}
	}
	b.entries = b.entries[:0]
}

// Size returns the number of buffered entries
func (b *LogBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
