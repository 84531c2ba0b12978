package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseLogLevel parses a string log level (case-insensitive) into a LogLevel
func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger provides leveled printf-style logging on top of slog.
type Logger struct {
	level LogLevel
	slog  *slog.Logger
}

// NewLogger creates a logger writing text records to stderr.
func NewLogger(level string) *Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing text records to w.
func NewLoggerWithWriter(level string, w io.Writer) *Logger {
	lvl := parseLogLevel(level)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl.slogLevel()})
	return &Logger{
		level: lvl,
		slog:  slog.New(handler),
	}
}

// shouldLog returns true if the given level should be logged
func (l *Logger) shouldLog(level LogLevel) bool {
	return level >= l.level
}

func (l *Logger) logf(level LogLevel, format string, v ...any) {
	if !l.shouldLog(level) {
		return
	}
	l.slog.Log(context.Background(), level.slogLevel(), fmt.Sprintf(format, v...))
}

// Debugf logs a debug message
func (l *Logger) Debugf(format string, v ...any) {
	l.logf(LogLevelDebug, format, v...)
}

// Infof logs an info message
func (l *Logger) Infof(format string, v ...any) {
	l.logf(LogLevelInfo, format, v...)
}

// Warnf logs a warning message
func (l *Logger) Warnf(format string, v ...any) {
	l.logf(LogLevelWarn, format, v...)
}

// Errorf logs an error message
func (l *Logger) Errorf(format string, v ...any) {
	l.logf(LogLevelError, format, v...)
}

// Fatalf logs an error message and exits
func (l *Logger) Fatalf(format string, v ...any) {
	l.slog.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
