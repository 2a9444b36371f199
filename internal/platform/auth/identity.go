package auth

import (
	"context"
	"strings"
)

// Identity captures the authenticated customer details extracted from a session token.
type Identity struct {
	UserID    string
	Email     string
	Name      string
	SessionID string
}

// Valid reports whether the identity carries the minimum fields required downstream.
func (i *Identity) Valid() bool {
	return i != nil && strings.TrimSpace(i.UserID) != "" && strings.TrimSpace(i.SessionID) != ""
}

type contextKey string

const (
	identityContextKey contextKey = "github.com/lowkey-merch/storefront/internal/platform/auth/identity"
	browseContextKey   contextKey = "github.com/lowkey-merch/storefront/internal/platform/auth/browse"
)

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// WithBrowseSession stores the anonymous browsing-session id on the context.
// Browsing sessions exist independently of authentication; they key the
// per-visitor view state.
func WithBrowseSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, browseContextKey, strings.TrimSpace(sessionID))
}

// BrowseSessionFromContext retrieves the browsing-session id when present.
func BrowseSessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(browseContextKey).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}
