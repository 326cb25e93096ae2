package log

import (
	"context"
	"log/slog"
)

type contextKey string

const eventIDContextKey contextKey = "event_id"

// WithEventID tags the context with the correlation id of the event being processed
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDContextKey, eventID)
}

// EventID extracts the event correlation id from the context
func EventID(ctx context.Context) (string, bool) {
	eventID, ok := ctx.Value(eventIDContextKey).(string)
	return eventID, ok && eventID != ""
}

// FromContext returns the logger, carrying event_id when the context has one
func FromContext(ctx context.Context) *slog.Logger {
	if eventID, ok := EventID(ctx); ok {
		return logger.With("event_id", eventID)
	}
	return logger
}
