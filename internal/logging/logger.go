// Package logging provides runtime.Logger implementations for hosts that run
// outside the Nakama server.
package logging

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Unknown names mean info.
func ParseLevel(name string) Level {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled, printf-style lines through a standard library logger.
type Logger struct {
	out    *log.Logger
	level  Level
	fields map[string]interface{}
}

var _ runtime.Logger = (*Logger)(nil)

// New returns a Logger writing to w at or above level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags), level: level}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.write(LevelDebug, "DEBUG", format, v) }
func (l *Logger) Info(format string, v ...interface{})  { l.write(LevelInfo, "INFO", format, v) }
func (l *Logger) Warn(format string, v ...interface{})  { l.write(LevelWarn, "WARN", format, v) }
func (l *Logger) Error(format string, v ...interface{}) { l.write(LevelError, "ERROR", format, v) }

// WithField returns a child logger carrying an extra field.
func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

// WithFields returns a child logger carrying extra fields.
func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, level: l.level, fields: merged}
}

// Fields returns the fields attached to this logger.
func (l *Logger) Fields() map[string]interface{} {
	return l.fields
}

func (l *Logger) write(level Level, tag, format string, v []interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		msg += " " + strings.Join(pairs, " ")
	}
	l.out.Printf("%-5s %s", tag, msg)
}

type nopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() runtime.Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...interface{})                     {}
func (nopLogger) Info(string, ...interface{})                      {}
func (nopLogger) Warn(string, ...interface{})                      {}
func (nopLogger) Error(string, ...interface{})                     {}
func (nopLogger) WithField(string, interface{}) runtime.Logger     { return nopLogger{} }
func (nopLogger) WithFields(map[string]interface{}) runtime.Logger { return nopLogger{} }
func (nopLogger) Fields() map[string]interface{}                   { return nil }
