// Package context carries the caller's bearer token to outgoing MCP
// connections, which read it from the key of the viant/mcp auth transport.
package context

import (
	"context"
	"strings"

	"github.com/viant/mcp/client/auth/transport"
)

const bearerPrefix = "bearer "

// WithAuthToken returns ctx carrying token. An empty token leaves ctx as is.
func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, transport.ContextAuthTokenKey, token)
}

// AuthToken returns the token carried by ctx.
func AuthToken(ctx context.Context) (string, bool) {
	ret := ctx.Value(transport.ContextAuthTokenKey)
	if ret == nil {
		return "", false
	}
	token, ok := ret.(string)
	return token, ok && token != ""
}

// BearerToken extracts the token of an Authorization header value.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
