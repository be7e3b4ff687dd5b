package common

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/YoshitsuguKoike/uatreport/internal/infra/fs"
)

// Logger provides centralized logging with level control
type Logger struct {
	mu       sync.RWMutex
	minLevel LogLevel
	output   io.Writer
}

// NewLogger creates a new logger with the specified minimum level
func NewLogger(minLevel LogLevel, output io.Writer) *Logger {
	return &Logger{
		minLevel: minLevel,
		output:   output,
	}
}

// SetLevel changes the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// GetLevel returns the current minimum log level
func (l *Logger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minLevel
}

// SetOutput changes the output writer
func (l *Logger) SetOutput(output io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = output
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.RLock()
	minLevel := l.minLevel
	output := l.output
	l.mu.RUnlock()

	if level >= minLevel {
		fmt.Fprintf(output, "%s: %s\n", levelPrefixes[level], fmt.Sprintf(format, args...))
	}
}

// Drain flushes a startup buffer through this logger's level and output.
func (l *Logger) Drain(b *LogBuffer) {
	l.mu.RLock()
	minLevel := l.minLevel
	output := l.output
	l.mu.RUnlock()
	b.Flush(minLevel, output)
}

var (
	globalLogger   *Logger
	globalLoggerMu sync.Mutex
)

// InitGlobalLogger installs the process logger on stderr and hands it to
// the storage layer.
func InitGlobalLogger(level string) *Logger {
	return InitGlobalLoggerTo(level, os.Stderr)
}

// InitGlobalLoggerTo is InitGlobalLogger with an explicit output.
func InitGlobalLoggerTo(level string, output io.Writer) *Logger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	globalLogger = NewLogger(ParseLogLevel(level), output)
	fs.SetLogger(globalLogger)
	return globalLogger
}

// GetLogger returns the global logger, creating a warn-level one if needed.
func GetLogger() *Logger {
	globalLoggerMu.Lock()
	l := globalLogger
	globalLoggerMu.Unlock()
	if l == nil {
		return InitGlobalLogger("warn")
	}
	return l
}
