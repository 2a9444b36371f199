package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/services"
)

type stubOrderService struct {
	getFunc  func(ctx context.Context, userID, orderID string) (domain.Order, error)
	listFunc func(ctx context.Context, userID string) ([]domain.Order, error)
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID, orderID string) (domain.Order, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, userID, orderID)
	}
	return domain.Order{}, services.ErrOrderUnavailable
}

func (s *stubOrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, userID)
	}
	return nil, services.ErrOrderUnavailable
}

func newOrderRouter(service services.OrderService) chi.Router {
	router := chi.NewRouter()
	router.Route("/orders", NewOrderHandlers(nil, service).Routes)
	return router
}

func TestOrderHandlersListOrders(t *testing.T) {
	service := &stubOrderService{
		listFunc: func(ctx context.Context, userID string) ([]domain.Order, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return []domain.Order{sampleOrder(userID)}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/orders/", "", "user-1")
	rr := httptest.NewRecorder()
	newOrderRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Orders []orderPayload `json:"orders"`
		Count  int            `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || resp.Orders[0].OrderNumber != "LK-20260302-TORDERID" {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestOrderHandlersListOrdersPaginated(t *testing.T) {
	service := &stubOrderService{
		listFunc: func(ctx context.Context, userID string) ([]domain.Order, error) {
			orders := make([]domain.Order, 5)
			for i := range orders {
				order := sampleOrder(userID)
				order.ID = order.ID + "-" + string(rune('a'+i))
				orders[i] = order
			}
			return orders, nil
		},
	}
	router := newOrderRouter(service)

	req := authedRequest(http.MethodGet, "/orders/?pageSize=2", "", "user-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Orders []orderPayload `json:"orders"`
		Count  int            `json:"count"`
		Next   string         `json:"next_page_token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 || resp.Next == "" {
		t.Fatalf("expected a 2-item page with a continuation token, got %+v", resp)
	}

	req = authedRequest(http.MethodGet, "/orders/?pageSize=2&pageToken="+resp.Next, "", "user-1")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode second page: %v", err)
	}
	if resp.Count != 2 || resp.Orders[0].ID != "01testorderid-c" {
		t.Fatalf("unexpected second page %+v", resp)
	}
}

func TestOrderHandlersListOrdersBadPageToken(t *testing.T) {
	service := &stubOrderService{
		listFunc: func(ctx context.Context, userID string) ([]domain.Order, error) {
			return nil, nil
		},
	}

	req := authedRequest(http.MethodGet, "/orders/?pageToken=!!!!", "", "user-1")
	rr := httptest.NewRecorder()
	newOrderRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestOrderHandlersGetOrder(t *testing.T) {
	service := &stubOrderService{
		getFunc: func(ctx context.Context, userID, orderID string) (domain.Order, error) {
			if orderID != "01testorderid" {
				t.Fatalf("unexpected order id %q", orderID)
			}
			return sampleOrder(userID), nil
		},
	}

	req := authedRequest(http.MethodGet, "/orders/01testorderid", "", "user-1")
	rr := httptest.NewRecorder()
	newOrderRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Order orderPayload `json:"order"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Order.ID != "01testorderid" || resp.Order.TotalLabel != "R700" {
		t.Fatalf("unexpected payload %+v", resp.Order)
	}
}

func TestOrderHandlersGetOrderNotFound(t *testing.T) {
	service := &stubOrderService{
		getFunc: func(ctx context.Context, userID, orderID string) (domain.Order, error) {
			return domain.Order{}, services.ErrOrderNotFound
		},
	}

	req := authedRequest(http.MethodGet, "/orders/missing", "", "user-1")
	rr := httptest.NewRecorder()
	newOrderRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp["error"] != "order_not_found" {
		t.Fatalf("unexpected error code %v", resp["error"])
	}
}

func TestOrderHandlersRequiresIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	rr := httptest.NewRecorder()
	newOrderRouter(&stubOrderService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}
