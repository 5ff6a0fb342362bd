// Package logger wraps log/slog with the fields and event names the service logs.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	// RequestIDKey carries the X-Request-ID of the current request.
	RequestIDKey contextKey = "request_id"
	// SessionIDKey carries the picker session the request operates on.
	SessionIDKey contextKey = "session_id"
)

// Logger is a slog.Logger with helpers for recurring log events.
type Logger struct {
	*slog.Logger
}

// New logs to stdout: text at debug level in development, JSON otherwise.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *Logger {
	if strings.EqualFold(env, "development") {
		return &Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Nop discards everything. Used by tests.
func Nop() *Logger {
	return NewWithWriter("production", io.Discard)
}

// ContextWithRequestID returns ctx carrying the request ID for WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// ContextWithSessionID returns ctx carrying the session ID for WithContext.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// WithContext adds the request_id and session_id found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	out := l
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		out = out.WithRequestID(id)
	}
	if id, ok := ctx.Value(SessionIDKey).(string); ok && id != "" {
		out = out.WithSessionID(id)
	}
	return out
}

func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{Logger: l.With(slog.String("request_id", id))}
}

func (l *Logger) WithSessionID(id string) *Logger {
	return &Logger{Logger: l.With(slog.String("session_id", id))}
}

// HTTPRequest logs a completed request.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// HTTPError logs a request that recorded a handler error.
func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

// GeocodeFailed logs a lookup that failed for reasons other than no match.
func (l *Logger) GeocodeFailed(query string, err error) {
	l.Warn("geocode_failed", slog.String("query", query), slog.String("error", err.Error()))
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded", slog.String("client_ip", clientIP), slog.String("path", path))
}
