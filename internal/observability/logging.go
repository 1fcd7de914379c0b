// Package observability carries per-build logging context through a context.Context.
package observability

import (
	"context"
	"log/slog"

	"github.com/Descent098/ezcv/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID string
	Stage   string
	Theme   string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := GetContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := GetContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTheme adds the resolved theme name to the context.
func WithTheme(ctx context.Context, theme string) context.Context {
	lc := GetContext(ctx)
	lc.Theme = theme
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the structured log context from ctx.
func GetContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func attrs(ctx context.Context, extra []slog.Attr) []slog.Attr {
	lc := GetContext(ctx)
	out := make([]slog.Attr, 0, 3+len(extra))
	if lc.BuildID != "" {
		out = append(out, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		out = append(out, logfields.Stage(lc.Stage))
	}
	if lc.Theme != "" {
		out = append(out, logfields.Theme(lc.Theme))
	}
	return append(out, extra...)
}

func InfoContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, attrs(ctx, a)...)
}

func WarnContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, attrs(ctx, a)...)
}

func ErrorContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelError, msg, attrs(ctx, a)...)
}

func DebugContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, attrs(ctx, a)...)
}
