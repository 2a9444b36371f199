package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lowkey-merch/storefront/internal/services"
)

func TestNewRouterMountsConfiguredGroups(t *testing.T) {
	catalog := &stubCatalogService{
		listFunc: func(ctx context.Context, filter services.CatalogListFilter) ([]services.Product, error) {
			return []services.Product{{ID: "1", Name: "Anime Hero Tee"}}, nil
		},
	}

	router := NewRouter(
		WithCatalogRoutes(NewCatalogHandlers(catalog).Routes),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("unexpected count %d", resp.Count)
	}
}

func TestNewRouterUnconfiguredGroupReturnsNotImplemented(t *testing.T) {
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("expected status 501, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp["error"] != "not_implemented" {
		t.Fatalf("unexpected error code %v", resp["error"])
	}
}

func TestNewRouterUnknownRoute(t *testing.T) {
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/catalog/products", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp["error"] != "route_not_found" {
		t.Fatalf("unexpected error code %v", resp["error"])
	}
}

func TestNewRouterHealthEndpoints(t *testing.T) {
	router := NewRouter()

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200 for %s, got %d", path, rr.Code)
		}
	}
}

func TestNewRouterGroupMiddleware(t *testing.T) {
	var touched bool
	marker := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			touched = true
			next.ServeHTTP(w, r)
		})
	}

	router := NewRouter(
		WithCartRoutes(func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		}),
		WithCartMiddlewares(marker),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if !touched {
		t.Fatalf("expected cart middleware to run")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rr = httptest.NewRecorder()
	touched = false
	router.ServeHTTP(rr, req)
	if touched {
		t.Fatalf("cart middleware must not apply to other groups")
	}
}
