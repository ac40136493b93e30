// Package observability carries build-scoped logging context (build ID, stage and
// trigger) through context.Context so every log line of a build can be correlated.
package observability

import (
	"context"
	"log/slog"

	"github.com/studyknots/knotsdocs/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID string
	Stage   string
	Trigger string
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

// WithTrigger records what started the build (cli, preview, poll).
func WithTrigger(ctx context.Context, trigger string) context.Context {
	lc := GetContext(ctx)
	lc.Trigger = trigger
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the structured log context carried by ctx.
func GetContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// Attrs returns the non-empty context fields as log attributes.
func Attrs(ctx context.Context) []slog.Attr {
	lc := GetContext(ctx)
	var attrs []slog.Attr
	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Trigger != "" {
		attrs = append(attrs, slog.String("trigger", lc.Trigger))
	}
	return attrs
}

// Logger writes through an slog.Logger, prefixing the context attributes.
type Logger struct {
	base *slog.Logger
}

// NewLogger wraps base. A nil base logs through slog.Default.
func NewLogger(base *slog.Logger) Logger {
	return Logger{base: base}
}

// Base returns the wrapped logger, or slog.Default when none was given.
func (l Logger) Base() *slog.Logger {
	if l.base == nil {
		return slog.Default()
	}
	return l.base
}

func (l Logger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	all := append(Attrs(ctx), attrs...)
	l.Base().LogAttrs(ctx, level, msg, all...)
}

func (l Logger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelDebug, msg, attrs)
}

func (l Logger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, msg, attrs)
}

func (l Logger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelWarn, msg, attrs)
}

func (l Logger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelError, msg, attrs)
}
