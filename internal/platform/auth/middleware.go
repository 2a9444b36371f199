package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lowkey-merch/storefront/internal/platform/httpx"
)

// SessionValidator confirms a session id is still registered, i.e. not revoked by logout.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) error
}

// ErrSessionRevoked indicates the presented session id is no longer registered.
var ErrSessionRevoked = errors.New("auth: session revoked")

// Authenticator verifies bearer session tokens and injects the resulting
// identity into the request context.
type Authenticator struct {
	tokens   *TokenIssuer
	sessions SessionValidator
}

// NewAuthenticator constructs an Authenticator from the token issuer and session validator.
func NewAuthenticator(tokens *TokenIssuer, sessions SessionValidator) (*Authenticator, error) {
	if tokens == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	if sessions == nil {
		return nil, errors.New("auth: session validator is required")
	}
	return &Authenticator{tokens: tokens, sessions: sessions}, nil
}

// Authenticate resolves the identity for a raw bearer token.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (Identity, error) {
	if a == nil || a.tokens == nil {
		return Identity{}, errors.New("auth: authenticator not initialised")
	}
	identity, err := a.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	if err := a.sessions.ValidateSession(ctx, identity.SessionID); err != nil {
		return Identity{}, ErrSessionRevoked
	}
	return identity, nil
}

// RequireSession returns middleware rejecting requests without a valid,
// unrevoked session token.
func (a *Authenticator) RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := BearerToken(r)
			if token == "" {
				httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
				return
			}

			identity, err := a.Authenticate(ctx, token)
			if err != nil {
				code := "invalid_session"
				message := "session token is invalid"
				switch {
				case errors.Is(err, ErrTokenExpired):
					code, message = "session_expired", "session token has expired"
				case errors.Is(err, ErrSessionRevoked):
					code, message = "session_revoked", "session has been logged out"
				}
				httpx.WriteError(ctx, w, httpx.NewError(code, message, http.StatusUnauthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, &identity)))
		})
	}
}

// BearerToken extracts the bearer credential from the Authorization header.
func BearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
