package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	groupKey contextKey = "group"
)

// WithRunID annotates context with the identifier of the current sort run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithGroup annotates context with the 1-based number of the group being processed.
func WithGroup(ctx context.Context, group int) context.Context {
	if group < 0 {
		return ctx
	}
	return context.WithValue(ctx, groupKey, group)
}

// GroupFromContext returns the group number if present.
func GroupFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(groupKey)
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}
