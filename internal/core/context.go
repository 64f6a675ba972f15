package core

import (
	"context"
	"log/slog"

	"github.com/JonMunkholm/keydrift/internal/logging"
)

type contextKey string

const (
	ctxKeyIPAddress contextKey = "client_ip"
	ctxKeyUserAgent contextKey = "client_ua"
)

// ContextWithIPAddress adds the client IP address to context for logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// ContextWithUserAgent adds the User-Agent to context for logging.
func ContextWithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, ctxKeyUserAgent, ua)
}

// GetIPAddressFromContext extracts the client IP address from context.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}

// GetUserAgentFromContext extracts the User-Agent from context.
func GetUserAgentFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		return v
	}
	return ""
}

// logger returns the request logger enriched with the client attributes
// the web layer stored in ctx.
func logger(ctx context.Context) *slog.Logger {
	l := logging.FromContext(ctx)
	if ip := GetIPAddressFromContext(ctx); ip != "" {
		l = l.With("client_ip", ip)
	}
	if ua := GetUserAgentFromContext(ctx); ua != "" {
		l = l.With("user_agent", ua)
	}
	return l
}
