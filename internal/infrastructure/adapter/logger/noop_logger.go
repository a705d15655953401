package logger

import "github.com/blockforge/credit-ledger/internal/domain/port/core"

// NoopLogger discards all log messages. Useful in tests and benchmarks.
type NoopLogger struct{}

// NewNoopLogger creates a logger that does nothing
func NewNoopLogger() core.Logger {
	return &NoopLogger{}
}

// SetLevel does nothing
func (l *NoopLogger) SetLevel(core.LogLevel) {}

// Debug does nothing
func (l *NoopLogger) Debug(string, map[string]any) {}

// Info does nothing
func (l *NoopLogger) Info(string, map[string]any) {}

// Warn does nothing
func (l *NoopLogger) Warn(string, map[string]any) {}

// Error does nothing
func (l *NoopLogger) Error(string, map[string]any) {}

// Flush does nothing
func (l *NoopLogger) Flush() error { return nil }
