package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/platform/auth"
	"github.com/lowkey-merch/storefront/internal/platform/httpx"
	"github.com/lowkey-merch/storefront/internal/services"
)

// ViewHandlers drives the per-browsing-session navigation state machine. Every
// endpoint is keyed on the browsing-session id injected by BrowseSessionMiddleware;
// authentication is consulted only where a transition depends on it.
type ViewHandlers struct {
	views services.ViewService
	authn *auth.Authenticator
}

const maxViewBodySize = 4 * 1024

// NewViewHandlers constructs handlers over the view service. The authenticator
// is optional; without it every checkout attempt is treated as anonymous.
func NewViewHandlers(views services.ViewService, authn *auth.Authenticator) *ViewHandlers {
	return &ViewHandlers{views: views, authn: authn}
}

// Routes wires the /view endpoints onto the provided router.
func (h *ViewHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getState)
	r.Post("/select-product", h.selectProduct)
	r.Post("/overlays/{overlay}/open", h.openOverlay)
	r.Post("/overlays/{overlay}/close", h.closeOverlay)
	r.Post("/checkout", h.beginCheckout)
	r.Post("/navigate", h.navigate)
	r.Post("/home", h.goHome)
}

func (h *ViewHandlers) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.views == nil {
		httpx.WriteError(ctx, w, httpx.NewError("view_unavailable", "view service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	sessionID, ok := auth.BrowseSessionFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("missing_session", "browsing session header is required", http.StatusBadRequest))
		return "", false
	}
	return sessionID, true
}

func (h *ViewHandlers) getState(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	state, err := h.views.GetState(ctx, sessionID)
	if err != nil {
		h.writeViewError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"view": buildViewStatePayload(state)})
}

type selectProductRequest struct {
	ProductID string `json:"product_id"`
}

func (h *ViewHandlers) selectProduct(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req selectProductRequest
	if err := decodeJSONBody(r, maxViewBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	state, err := h.views.SelectProduct(ctx, sessionID, req.ProductID)
	if err != nil {
		h.writeViewError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"view": buildViewStatePayload(state)})
}

func (h *ViewHandlers) openOverlay(w http.ResponseWriter, r *http.Request) {
	h.setOverlay(w, r, true)
}

func (h *ViewHandlers) closeOverlay(w http.ResponseWriter, r *http.Request) {
	h.setOverlay(w, r, false)
}

func (h *ViewHandlers) setOverlay(w http.ResponseWriter, r *http.Request, open bool) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	overlay := domain.Overlay(chi.URLParam(r, "overlay"))

	var state domain.ViewState
	var err error
	if open {
		state, err = h.views.OpenOverlay(ctx, sessionID, overlay)
	} else {
		state, err = h.views.CloseOverlay(ctx, sessionID, overlay)
	}
	if err != nil {
		h.writeViewError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"view": buildViewStatePayload(state)})
}

// beginCheckout closes the cart drawer and either enters checkout or raises the
// auth overlay, depending on whether the request carries a valid session token.
func (h *ViewHandlers) beginCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	authenticated := false
	if h.authn != nil {
		if token := auth.BearerToken(r); token != "" {
			if _, err := h.authn.Authenticate(ctx, token); err == nil {
				authenticated = true
			}
		}
	}

	state, err := h.views.BeginCheckout(ctx, sessionID, authenticated)
	if err != nil {
		h.writeViewError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"view": buildViewStatePayload(state)})
}

type navigateRequest struct {
	Page string `json:"page"`
}

func (h *ViewHandlers) navigate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req navigateRequest
	if err := decodeJSONBody(r, maxViewBodySize, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	state, err := h.views.NavigateTo(ctx, sessionID, domain.Page(req.Page))
	if err != nil {
		h.writeViewError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"view": buildViewStatePayload(state)})
}

func (h *ViewHandlers) goHome(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	state, err := h.views.GoHome(ctx, sessionID)
	if err != nil {
		h.writeViewError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"view": buildViewStatePayload(state)})
}

func (h *ViewHandlers) writeViewError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrViewInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrViewInvalidTransition):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_transition", err.Error(), http.StatusConflict))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("view_unavailable", "view service is unavailable", http.StatusServiceUnavailable))
	}
}
