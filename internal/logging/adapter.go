package logging

import (
	"log/slog"
)

// Logger is the minimal leveled logger the rest of the application depends
// on. Components that emit operational logs (the relay publisher, for one)
// take this interface instead of *slog.Logger so tests can substitute a
// capturing implementation and callers are not bound to a concrete handler.
//
// Arguments follow the slog convention of alternating key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter satisfies Logger by delegating to an *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger in a SlogAdapter. A nil logger falls back to
// slog.Default(), so the zero-configuration path still produces output.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

// Logger exposes the wrapped *slog.Logger for callers that need handler-level
// access, attaching context attributes for example.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// DefaultLogger returns an adapter over the process-wide default logger.
// The serve command points slog at stderr before anything logs, so output
// never mixes with the stdio protocol stream.
func DefaultLogger() *SlogAdapter {
	return NewSlogAdapter(slog.Default())
}
