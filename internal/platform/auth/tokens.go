package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
)

const defaultSessionTTL = 30 * 24 * time.Hour

var (
	// ErrTokenInvalid indicates the session token failed signature or structural validation.
	ErrTokenInvalid = errors.New("auth: invalid session token")
	// ErrTokenExpired indicates the session token is syntactically valid but past its expiry.
	ErrTokenExpired = errors.New("auth: session token expired")
)

// SessionClaims is the JWT claim set carried by storefront session tokens.
type SessionClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 session tokens. The signing key is
// local configuration; there is no third-party identity provider behind it.
type TokenIssuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenIssuerOption customises the issuer.
type TokenIssuerOption func(*TokenIssuer)

// WithSessionTTL overrides the default session lifetime.
func WithSessionTTL(ttl time.Duration) TokenIssuerOption {
	return func(t *TokenIssuer) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithTokenClock injects a clock, primarily for tests.
func WithTokenClock(clock func() time.Time) TokenIssuerOption {
	return func(t *TokenIssuer) {
		if clock != nil {
			t.now = clock
		}
	}
}

// NewTokenIssuer constructs a TokenIssuer for the given signing key and issuer name.
func NewTokenIssuer(key []byte, issuer string, opts ...TokenIssuerOption) (*TokenIssuer, error) {
	if len(key) == 0 {
		return nil, errors.New("auth: signing key is required")
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("auth: issuer is required")
	}

	t := &TokenIssuer{
		key:    append([]byte(nil), key...),
		issuer: issuer,
		ttl:    defaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

// TTL exposes the configured session lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue mints a signed session token for the user. The session id becomes the
// JTI so the session store can revoke it on logout.
func (t *TokenIssuer) Issue(userID, name, email, sessionID string) (string, error) {
	if t == nil {
		return "", errors.New("auth: token issuer not initialised")
	}
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)
	if userID == "" || sessionID == "" {
		return "", errors.New("auth: user id and session id are required")
	}

	now := t.now().UTC()
	claims := SessionClaims{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning the identity it encodes.
func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	if t == nil {
		return Identity{}, errors.New("auth: token issuer not initialised")
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Identity{}, ErrTokenInvalid
	}

	claims := &SessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.key, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	// Claims are checked against the injected clock, not the wall clock.
	if !claims.VerifyIssuer(t.issuer, true) {
		return Identity{}, ErrTokenInvalid
	}
	if !claims.VerifyExpiresAt(t.now().UTC(), true) {
		return Identity{}, ErrTokenExpired
	}

	identity := Identity{
		UserID:    strings.TrimSpace(claims.Subject),
		Email:     strings.TrimSpace(claims.Email),
		Name:      strings.TrimSpace(claims.Name),
		SessionID: strings.TrimSpace(claims.ID),
	}
	if !identity.Valid() {
		return Identity{}, ErrTokenInvalid
	}
	return identity, nil
}
