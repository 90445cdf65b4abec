package logging

import (
	"context"
	"log/slog"

	"crosstalk/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for
	// component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for run
	// identifiers.
	FieldRunID = "run_id"
)

// ContextFields extracts standardized slog attributes from the provided
// context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if component, ok := services.ComponentFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldComponent, component))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived
// from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
