// Package logging provides a small key/value logger that writes to stderr.
//
// Stdout is reserved for the MCP protocol, so nothing in this module may log
// there. Debug lines are dropped unless the logger was created with debug
// enabled.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger provides structured logging with a component prefix.
type Logger struct {
	prefix string
	debug  bool
	logger *log.Logger
}

// NewLogger creates a logger writing to stderr.
func NewLogger(prefix string, debug bool) *Logger {
	return New(os.Stderr, prefix, debug)
}

// New creates a logger writing to w.
func New(w io.Writer, prefix string, debug bool) *Logger {
	return &Logger{
		prefix: prefix,
		debug:  debug,
		logger: log.New(w, fmt.Sprintf("[%s] ", prefix), log.Ldate|log.Ltime),
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, "", false)
}

// DebugFromEnv reports whether NUMBER_READER_LOG_LEVEL asks for debug output.
func DebugFromEnv() bool {
	return strings.EqualFold(os.Getenv("NUMBER_READER_LOG_LEVEL"), "debug")
}

// With returns a logger sharing the output and level with a nested prefix.
func (l *Logger) With(prefix string) *Logger {
	p := prefix
	if l.prefix != "" {
		p = l.prefix + "/" + prefix
	}
	return &Logger{
		prefix: p,
		debug:  l.debug,
		logger: log.New(l.logger.Writer(), fmt.Sprintf("[%s] ", p), l.logger.Flags()),
	}
}

// DebugEnabled reports whether Debug lines are written.
func (l *Logger) DebugEnabled() bool {
	return l.debug
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV("INFO", msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV("WARN", msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV("ERROR", msg, keysAndValues...)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.debug {
		return
	}
	l.logWithKV("DEBUG", msg, keysAndValues...)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues ...interface{}) {
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v=<missing>", keysAndValues[i])
		}
	}
	l.logger.Printf("[%s] %s%s", level, msg, b.String())
}
