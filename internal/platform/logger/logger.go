// Package logger provides structured logging for the mine server.
// Every economy event and every subsystem decision should be traceable through this.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects the level and output format. Empty fields fall back to
// LOG_LEVEL / LOG_FORMAT and then to info/text.
type Options struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Logger provides structured logging with context.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a logger configured from the environment.
func NewLogger() *Logger {
	return New(Options{})
}

// New creates a logger from opts.
func New(opts Options) *Logger {
	base := logrus.New()

	level := opts.Level
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	base.SetLevel(parsed)

	format := opts.Format
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	if strings.ToLower(format) == "json" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	base.SetOutput(os.Stdout)

	return &Logger{entry: logrus.NewEntry(base)}
}

// NewDiscard returns a logger that drops everything. Used by tests.
func NewDiscard() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(base)}
}

// WithFields returns a child logger carrying fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithError returns a child logger carrying err.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

// Debug logs verbose diagnostics.
func (l *Logger) Debug(msg string) {
	l.entry.Debug(msg)
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.entry.Warn(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

// Event logs an economy event.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.entry.WithFields(logrus.Fields{
		"event": eventType,
		"actor": actorID,
	}).Info(details)
}
