package infrastructure

import (
	"context"
	"log/slog"

	"weatherlog.app/internal/ports"
)

// SlogLoggerAdapter implements the Logger port using slog.
// A nil Logger writes through the process-wide slog default.
type SlogLoggerAdapter struct {
	Logger *slog.Logger
}

// NewSlogLoggerAdapter wraps a specific slog logger
func NewSlogLoggerAdapter(logger *slog.Logger) *SlogLoggerAdapter {
	return &SlogLoggerAdapter{Logger: logger}
}

// Debug logs a debug message
func (l *SlogLoggerAdapter) Debug(msg string, fields ...ports.Field) {
	l.log(slog.LevelDebug, msg, fields)
}

// Info logs an info message
func (l *SlogLoggerAdapter) Info(msg string, fields ...ports.Field) {
	l.log(slog.LevelInfo, msg, fields)
}

// Warn logs a warning message
func (l *SlogLoggerAdapter) Warn(msg string, fields ...ports.Field) {
	l.log(slog.LevelWarn, msg, fields)
}

// Error logs an error message
func (l *SlogLoggerAdapter) Error(msg string, fields ...ports.Field) {
	l.log(slog.LevelError, msg, fields)
}

func (l *SlogLoggerAdapter) log(level slog.Level, msg string, fields []ports.Field) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]slog.Attr, 0, len(fields))
	for _, field := range fields {
		if err, ok := field.Value.(error); ok {
			attrs = append(attrs, slog.String(field.Key, err.Error()))
			continue
		}
		attrs = append(attrs, slog.Any(field.Key, field.Value))
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}
