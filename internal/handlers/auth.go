package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lowkey-merch/storefront/internal/platform/auth"
	"github.com/lowkey-merch/storefront/internal/platform/httpx"
	"github.com/lowkey-merch/storefront/internal/services"
)

// AuthHandlers exposes signup, login, session restoration, and logout.
type AuthHandlers struct {
	auth services.AuthService
}

const maxAuthBodySize = 8 * 1024

// NewAuthHandlers constructs handlers over the auth service.
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{auth: authService}
}

// Routes wires the /auth endpoints onto the provided router.
func (h *AuthHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/session", h.session)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.auth == nil {
		httpx.WriteError(ctx, w, httpx.NewError("auth_unavailable", "auth service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var req signupRequest
	if err := decodeJSONBody(r, maxAuthBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	result, err := h.auth.Signup(ctx, services.SignupCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildAuthResultPayload(result))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.auth == nil {
		httpx.WriteError(ctx, w, httpx.NewError("auth_unavailable", "auth service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var req loginRequest
	if err := decodeJSONBody(r, maxAuthBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	result, err := h.auth.Login(ctx, services.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildAuthResultPayload(result))
}

// logout revokes the presented session token. It succeeds even when the token
// is missing or invalid so clients can always clear local state.
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.auth == nil {
		httpx.WriteError(ctx, w, httpx.NewError("auth_unavailable", "auth service is unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.auth.Logout(ctx, auth.BearerToken(r)); err != nil {
		h.writeAuthError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionPayload struct {
	Authenticated bool         `json:"authenticated"`
	User          *userPayload `json:"user,omitempty"`
}

// session restores the session carried by the bearer token. An invalid or
// revoked token yields the anonymous payload, not an error status.
func (h *AuthHandlers) session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.auth == nil {
		httpx.WriteError(ctx, w, httpx.NewError("auth_unavailable", "auth service is unavailable", http.StatusServiceUnavailable))
		return
	}

	info, err := h.auth.CheckAuth(ctx, auth.BearerToken(r))
	if err != nil {
		h.writeAuthError(ctx, w, err)
		return
	}

	payload := sessionPayload{Authenticated: info.Authenticated}
	if info.Authenticated {
		user := buildUserPayload(info.User)
		payload.User = &user
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

type authResultPayload struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

func buildAuthResultPayload(result services.AuthResult) authResultPayload {
	return authResultPayload{
		User:  buildUserPayload(result.User),
		Token: result.SessionToken,
	}
}

func (h *AuthHandlers) writeAuthError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrAuthInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_credentials", "email or password is incorrect", http.StatusUnauthorized))
	case errors.Is(err, services.ErrAuthEmailTaken):
		httpx.WriteError(ctx, w, httpx.NewError("email_taken", "email is already registered", http.StatusConflict))
	case errors.Is(err, services.ErrAuthAttemptInFlight):
		httpx.WriteError(ctx, w, httpx.NewError("attempt_in_flight", "another authentication attempt for this email is in progress", http.StatusConflict))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("auth_unavailable", "auth service is unavailable", http.StatusServiceUnavailable))
	}
}
