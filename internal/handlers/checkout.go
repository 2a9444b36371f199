package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lowkey-merch/storefront/internal/platform/auth"
	"github.com/lowkey-merch/storefront/internal/platform/httpx"
	"github.com/lowkey-merch/storefront/internal/platform/observability"
	"github.com/lowkey-merch/storefront/internal/services"
)

// CheckoutHandlers finalises carts into paid orders.
type CheckoutHandlers struct {
	authn    *auth.Authenticator
	checkout services.CheckoutService
	views    services.ViewService
}

const (
	maxCheckoutBodySize  = 8 * 1024
	idempotencyKeyHeader = "Idempotency-Key"
)

// NewCheckoutHandlers constructs handlers enforcing session authentication
// before invoking the checkout service. The view service is optional; when
// present, a completed order also advances the caller's navigation state to
// the confirmation page.
func NewCheckoutHandlers(authn *auth.Authenticator, checkout services.CheckoutService, views services.ViewService) *CheckoutHandlers {
	return &CheckoutHandlers{authn: authn, checkout: checkout, views: views}
}

// Routes wires the /checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireSession())
	}
	r.Post("/complete", h.completeOrder)
}

type completeOrderRequest struct {
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
}

func (h *CheckoutHandlers) completeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UserID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	var req completeOrderRequest
	if err := decodeJSONBody(r, maxCheckoutBodySize, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeBodyError(ctx, w, err)
		return
	}

	order, err := h.checkout.CompleteOrder(ctx, services.CompleteOrderCommand{
		UserID:         identity.UserID,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		IdempotencyKey: r.Header.Get(idempotencyKeyHeader),
	})
	if err != nil {
		observability.RecordCheckoutAttempt(ctx, checkoutOutcome(err))
		h.writeCheckoutError(ctx, w, err)
		return
	}

	observability.RecordCheckoutAttempt(ctx, "succeeded")
	observability.RecordOrderCompleted(ctx, order.Payment.Provider)

	// Best effort; a missing browsing session only means the client navigates itself.
	if h.views != nil {
		if sessionID, ok := auth.BrowseSessionFromContext(ctx); ok {
			_, _ = h.views.CompleteOrder(ctx, sessionID, order.ID)
		}
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"order": buildOrderPayload(order)})
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, services.ErrCheckoutPaymentFailed):
		return "payment_failed"
	case errors.Is(err, services.ErrCheckoutCartNotReady):
		return "cart_empty"
	case errors.Is(err, services.ErrCheckoutInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func (h *CheckoutHandlers) writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCheckoutInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCheckoutCartNotReady):
		httpx.WriteError(ctx, w, httpx.NewError("cart_empty", "cart has no items to check out", http.StatusConflict))
	case errors.Is(err, services.ErrCheckoutPaymentFailed):
		httpx.WriteError(ctx, w, httpx.NewError("payment_failed", "payment could not be captured", http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
	}
}
