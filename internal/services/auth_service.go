package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/platform/auth"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

var (
	errAuthUsersRequired    = errors.New("auth service: user repository is required")
	errAuthSessionsRequired = errors.New("auth service: session repository is required")
	errAuthTokensRequired   = errors.New("auth service: token issuer is required")
	errAuthClockRequired    = errors.New("auth service: clock is required")
)

// ErrAuthInvalidInput indicates the caller supplied invalid input.
var ErrAuthInvalidInput = errors.New("auth service: invalid input")

// ErrAuthInvalidCredentials indicates the email/password pair does not match a user.
var ErrAuthInvalidCredentials = errors.New("auth service: invalid credentials")

// ErrAuthEmailTaken indicates signup attempted to reuse a registered email.
var ErrAuthEmailTaken = errors.New("auth service: email already registered")

// ErrAuthAttemptInFlight indicates another login or signup for the same email is in progress.
var ErrAuthAttemptInFlight = errors.New("auth service: authentication attempt already in flight")

// ErrAuthUnavailable indicates the auth service cannot fulfil the request due to backend issues.
var ErrAuthUnavailable = errors.New("auth service: unavailable")

const (
	minPasswordLength = 8
	maxNameLength     = 120
)

// SessionTokenIssuer abstracts session token issuance and verification.
type SessionTokenIssuer interface {
	Issue(userID, name, email, sessionID string) (string, error)
	Verify(token string) (auth.Identity, error)
	TTL() time.Duration
}

// AuthServiceDeps wires the repositories and token issuer for authentication.
type AuthServiceDeps struct {
	Users       repositories.UserRepository
	Sessions    repositories.SessionRepository
	Tokens      SessionTokenIssuer
	Clock       func() time.Time
	Logger      func(context.Context, string, map[string]any)
	IDGenerator func() string
	BcryptCost  int
}

type authService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	tokens   SessionTokenIssuer
	newID    func() string
	now      func() time.Time
	logger   func(context.Context, string, map[string]any)
	cost     int

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewAuthService constructs an AuthService enforcing dependency validation.
func NewAuthService(deps AuthServiceDeps) (AuthService, error) {
	if deps.Users == nil {
		return nil, errAuthUsersRequired
	}
	if deps.Sessions == nil {
		return nil, errAuthSessionsRequired
	}
	if deps.Tokens == nil {
		return nil, errAuthTokensRequired
	}
	if deps.Clock == nil {
		return nil, errAuthClockRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	cost := deps.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &authService{
		users:    deps.Users,
		sessions: deps.Sessions,
		tokens:   deps.Tokens,
		newID:    idGen,
		now:      func() time.Time { return deps.Clock().UTC() },
		logger:   logger,
		cost:     cost,
		inFlight: make(map[string]struct{}),
	}, nil
}

// Signup registers a new customer and immediately authenticates them.
func (s *authService) Signup(ctx context.Context, cmd SignupCommand) (AuthResult, error) {
	if s == nil || s.users == nil {
		return AuthResult{}, ErrAuthUnavailable
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return AuthResult{}, fmt.Errorf("%w: name is required", ErrAuthInvalidInput)
	}
	if len(name) > maxNameLength {
		return AuthResult{}, fmt.Errorf("%w: name must be %d characters or fewer", ErrAuthInvalidInput, maxNameLength)
	}

	email, err := normaliseEmail(cmd.Email)
	if err != nil {
		return AuthResult{}, err
	}

	if len(cmd.Password) < minPasswordLength {
		return AuthResult{}, fmt.Errorf("%w: password must be at least %d characters", ErrAuthInvalidInput, minPasswordLength)
	}

	release, err := s.acquireEmail(email)
	if err != nil {
		return AuthResult{}, err
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrAuthEmailTaken
	} else if !isRepoNotFound(err) {
		return AuthResult{}, s.translateRepoError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.cost)
	if err != nil {
		return AuthResult{}, ErrAuthUnavailable
	}

	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}

	user := domain.User{
		ID:           strings.TrimSpace(s.newID()),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	saved, err := s.users.Insert(ctx, user)
	if err != nil {
		if isRepoConflict(err) {
			return AuthResult{}, ErrAuthEmailTaken
		}
		return AuthResult{}, s.translateRepoError(err)
	}

	result, err := s.openSession(ctx, saved)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger(ctx, "auth.signup", map[string]any{
		"userID": saved.ID,
	})

	return result, nil
}

// Login authenticates an existing customer. Bad credentials are a normal failure result.
func (s *authService) Login(ctx context.Context, cmd LoginCommand) (AuthResult, error) {
	if s == nil || s.users == nil {
		return AuthResult{}, ErrAuthUnavailable
	}

	email, err := normaliseEmail(cmd.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if cmd.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: password is required", ErrAuthInvalidInput)
	}

	release, err := s.acquireEmail(email)
	if err != nil {
		return AuthResult{}, err
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isRepoNotFound(err) {
			return AuthResult{}, ErrAuthInvalidCredentials
		}
		return AuthResult{}, s.translateRepoError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)) != nil {
		return AuthResult{}, ErrAuthInvalidCredentials
	}

	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger(ctx, "auth.login", map[string]any{
		"userID": user.ID,
	})

	return result, nil
}

// CheckAuth restores a session from a previously issued token. Invalid or revoked
// tokens yield the anonymous result, never an error.
func (s *authService) CheckAuth(ctx context.Context, token string) (SessionInfo, error) {
	if s == nil || s.sessions == nil {
		return SessionInfo{}, ErrAuthUnavailable
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return SessionInfo{}, nil
	}

	identity, err := s.tokens.Verify(trimmed)
	if err != nil {
		return SessionInfo{}, nil
	}

	session, err := s.sessions.Find(ctx, identity.SessionID)
	if err != nil {
		if isRepoNotFound(err) {
			return SessionInfo{}, nil
		}
		return SessionInfo{}, s.translateRepoError(err)
	}

	if !session.ExpiresAt.IsZero() && !s.now().Before(session.ExpiresAt) {
		return SessionInfo{}, nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if isRepoNotFound(err) {
			return SessionInfo{}, nil
		}
		return SessionInfo{}, s.translateRepoError(err)
	}

	return SessionInfo{
		Authenticated: true,
		User:          user,
		SessionID:     session.ID,
	}, nil
}

// Logout revokes the session carried by the token. Revoking an unknown or invalid
// token is a no-op.
func (s *authService) Logout(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return ErrAuthUnavailable
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil
	}

	identity, err := s.tokens.Verify(trimmed)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, identity.SessionID); err != nil {
		if isRepoNotFound(err) {
			return nil
		}
		return s.translateRepoError(err)
	}

	s.logger(ctx, "auth.logout", map[string]any{
		"userID": identity.UserID,
	})

	return nil
}

// ValidateSession reports whether the session id is still registered. It backs the
// HTTP middleware's revocation check.
func (s *authService) ValidateSession(ctx context.Context, sessionID string) error {
	if s == nil || s.sessions == nil {
		return ErrAuthUnavailable
	}

	id := strings.TrimSpace(sessionID)
	if id == "" {
		return auth.ErrSessionRevoked
	}

	session, err := s.sessions.Find(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return auth.ErrSessionRevoked
		}
		return s.translateRepoError(err)
	}

	if !session.ExpiresAt.IsZero() && !s.now().Before(session.ExpiresAt) {
		return auth.ErrSessionRevoked
	}

	return nil
}

func (s *authService) openSession(ctx context.Context, user domain.User) (AuthResult, error) {
	now := s.now()
	session := domain.Session{
		ID:        strings.TrimSpace(s.newID()),
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	}

	if err := s.sessions.Insert(ctx, session); err != nil {
		return AuthResult{}, s.translateRepoError(err)
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Email, session.ID)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return AuthResult{}, ErrAuthUnavailable
	}

	return AuthResult{
		User:         user,
		SessionToken: token,
		SessionID:    session.ID,
	}, nil
}

// acquireEmail enforces single-flight per normalised email. The returned release
// func must be called exactly once.
func (s *authService) acquireEmail(email string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[email]; busy {
		return nil, ErrAuthAttemptInFlight
	}
	s.inFlight[email] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inFlight, email)
		s.mu.Unlock()
	}, nil
}

func normaliseEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", ErrAuthInvalidInput)
	}
	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 || strings.Count(trimmed, "@") != 1 {
		return "", fmt.Errorf("%w: email is malformed", ErrAuthInvalidInput)
	}
	if !strings.Contains(trimmed[at+1:], ".") {
		return "", fmt.Errorf("%w: email is malformed", ErrAuthInvalidInput)
	}
	return trimmed, nil
}

func (s *authService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsConflict():
			return ErrAuthEmailTaken
		case repoErr.IsNotFound():
			return ErrAuthInvalidCredentials
		case repoErr.IsUnavailable():
			return ErrAuthUnavailable
		}
		return ErrAuthUnavailable
	}
	return ErrAuthUnavailable
}
