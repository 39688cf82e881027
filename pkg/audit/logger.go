package audit

import "context"

// Logger records audit entries. Recording is best effort: callers log and
// continue on error rather than failing the user-facing operation.
type Logger interface {
	Record(ctx context.Context, entry *Entry) error
}

// NopLogger discards all entries. Used when auditing is disabled and in
// tests that do not assert on the trail.
type NopLogger struct{}

func (NopLogger) Record(ctx context.Context, entry *Entry) error { return nil }
