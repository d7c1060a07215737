package logger

import (
	"log/slog"
	"os"
)

// Logger emits structured JSON log lines tagged with the owning service and
// the action being performed.
type Logger struct {
	service string
	sl      *slog.Logger
}

// New creates a logger for the named service, writing JSON to stdout.
func New(service string) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{
		service: service,
		sl:      slog.New(handler).With("service", service),
	}
}

func (l *Logger) attrs(action string, fields map[string]any) []any {
	out := make([]any, 0, 2+2*len(fields))
	out = append(out, "action", action)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

// Info logs a completed or in-flight action at INFO level.
func (l *Logger) Info(action string, fields map[string]any) {
	l.sl.Info(action, l.attrs(action, fields)...)
}

// Debug logs fine-grained progress at DEBUG level.
func (l *Logger) Debug(action string, fields map[string]any) {
	l.sl.Debug(action, l.attrs(action, fields)...)
}

// Error logs a failed action with its error.
func (l *Logger) Error(action string, err error, fields map[string]any) {
	args := l.attrs(action, fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.sl.Error(action, args...)
}
