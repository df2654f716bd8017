package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	caseIDKey contextKey = "case_id"
	serialKey contextKey = "serial"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the pipeline run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCaseID annotates context with the proceeding identifier being processed.
func WithCaseID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, caseIDKey, id)
}

// CaseIDFromContext returns the proceeding identifier if present.
func CaseIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(caseIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSerial annotates context with the mark serial number being classified.
func WithSerial(ctx context.Context, serial string) context.Context {
	if serial == "" {
		return ctx
	}
	return context.WithValue(ctx, serialKey, serial)
}

// SerialFromContext returns the mark serial number if present.
func SerialFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(serialKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
