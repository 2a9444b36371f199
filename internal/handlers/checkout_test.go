package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/platform/auth"
	"github.com/lowkey-merch/storefront/internal/services"
)

func browseStamp(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(auth.WithBrowseSession(req.Context(), sessionID))
}

type stubCheckoutService struct {
	completeFunc func(ctx context.Context, cmd services.CompleteOrderCommand) (domain.Order, error)
}

func (s *stubCheckoutService) CompleteOrder(ctx context.Context, cmd services.CompleteOrderCommand) (domain.Order, error) {
	if s.completeFunc != nil {
		return s.completeFunc(ctx, cmd)
	}
	return domain.Order{}, services.ErrCheckoutUnavailable
}

func sampleOrder(userID string) domain.Order {
	placed := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	return domain.Order{
		ID:          "01testorderid",
		OrderNumber: "LK-20260302-TORDERID",
		UserID:      userID,
		Currency:    domain.DefaultCurrency,
		Items: []domain.OrderLineItem{
			{ProductID: "1", ProductName: "Anime Hero Tee", Size: "M", Quantity: 2, UnitPrice: 35000, Total: 70000},
		},
		Totals:   domain.OrderTotals{Subtotal: 70000, Shipping: 0, Total: 70000},
		Payment:  domain.OrderPayment{Provider: "offline", ChargeRef: "off_1", Captured: true},
		Contact:  domain.OrderContact{Name: "Aiko", Email: "aiko@example.com"},
		Status:   domain.OrderStatusPaid,
		PlacedAt: placed,
	}
}

func newCheckoutRouter(checkout services.CheckoutService, views services.ViewService) chi.Router {
	router := chi.NewRouter()
	router.Route("/checkout", NewCheckoutHandlers(nil, checkout, views).Routes)
	return router
}

func TestCheckoutHandlersCompleteOrder(t *testing.T) {
	service := &stubCheckoutService{
		completeFunc: func(ctx context.Context, cmd services.CompleteOrderCommand) (domain.Order, error) {
			if cmd.UserID != "user-1" || cmd.ContactName != "Aiko" || cmd.ContactEmail != "aiko@example.com" {
				t.Fatalf("unexpected command %+v", cmd)
			}
			if cmd.IdempotencyKey != "idem-123" {
				t.Fatalf("expected idempotency key to be forwarded, got %q", cmd.IdempotencyKey)
			}
			return sampleOrder(cmd.UserID), nil
		},
	}

	body := `{"contact_name":"Aiko","contact_email":"aiko@example.com"}`
	req := authedRequest(http.MethodPost, "/checkout/complete", body, "user-1")
	req.Header.Set("Idempotency-Key", "idem-123")
	rr := httptest.NewRecorder()
	newCheckoutRouter(service, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Order orderPayload `json:"order"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Order.OrderNumber != "LK-20260302-TORDERID" || resp.Order.Total != 70000 {
		t.Fatalf("unexpected order payload %+v", resp.Order)
	}
	if resp.Order.TotalLabel != "R700" {
		t.Fatalf("unexpected total label %q", resp.Order.TotalLabel)
	}
	if resp.Order.Provider != "offline" || resp.Order.Status != string(domain.OrderStatusPaid) {
		t.Fatalf("unexpected payment fields %+v", resp.Order)
	}
}

func TestCheckoutHandlersCompleteOrderEmptyBody(t *testing.T) {
	service := &stubCheckoutService{
		completeFunc: func(ctx context.Context, cmd services.CompleteOrderCommand) (domain.Order, error) {
			if cmd.ContactName != "" || cmd.ContactEmail != "" {
				t.Fatalf("expected empty contact fields, got %+v", cmd)
			}
			return sampleOrder(cmd.UserID), nil
		},
	}

	req := authedRequest(http.MethodPost, "/checkout/complete", "", "user-1")
	rr := httptest.NewRecorder()
	newCheckoutRouter(service, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for empty body, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCheckoutHandlersAdvancesViewState(t *testing.T) {
	service := &stubCheckoutService{
		completeFunc: func(ctx context.Context, cmd services.CompleteOrderCommand) (domain.Order, error) {
			return sampleOrder(cmd.UserID), nil
		},
	}
	var advanced struct {
		sessionID string
		orderID   string
	}
	views := &stubViewService{
		completeOrderFunc: func(ctx context.Context, sessionID, orderID string) (domain.ViewState, error) {
			advanced.sessionID = sessionID
			advanced.orderID = orderID
			return domain.ViewState{SessionID: sessionID, Page: domain.PageOrderConfirmation, OrderID: orderID}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/checkout/complete", "", "user-1")
	req = browseStamp(req, "sess-browse")
	rr := httptest.NewRecorder()
	newCheckoutRouter(service, views).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if advanced.sessionID != "sess-browse" || advanced.orderID != "01testorderid" {
		t.Fatalf("expected view state advanced, got %+v", advanced)
	}
}

func TestCheckoutHandlersEmptyCart(t *testing.T) {
	service := &stubCheckoutService{
		completeFunc: func(ctx context.Context, cmd services.CompleteOrderCommand) (domain.Order, error) {
			return domain.Order{}, services.ErrCheckoutCartNotReady
		},
	}

	req := authedRequest(http.MethodPost, "/checkout/complete", "", "user-1")
	rr := httptest.NewRecorder()
	newCheckoutRouter(service, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp["error"] != "cart_empty" {
		t.Fatalf("unexpected error code %v", resp["error"])
	}
}

func TestCheckoutHandlersPaymentFailed(t *testing.T) {
	service := &stubCheckoutService{
		completeFunc: func(ctx context.Context, cmd services.CompleteOrderCommand) (domain.Order, error) {
			return domain.Order{}, services.ErrCheckoutPaymentFailed
		},
	}

	req := authedRequest(http.MethodPost, "/checkout/complete", "", "user-1")
	rr := httptest.NewRecorder()
	newCheckoutRouter(service, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rr.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp["error"] != "payment_failed" {
		t.Fatalf("unexpected error code %v", resp["error"])
	}
}

func TestCheckoutHandlersRequiresIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/checkout/complete", nil)
	rr := httptest.NewRecorder()
	newCheckoutRouter(&stubCheckoutService{}, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}
