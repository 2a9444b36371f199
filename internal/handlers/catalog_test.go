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

type stubCatalogService struct {
	listFunc   func(ctx context.Context, filter services.CatalogListFilter) ([]services.Product, error)
	getFunc    func(ctx context.Context, productID string) (services.Product, error)
	searchFunc func(ctx context.Context, query string) ([]services.Product, error)
}

func (s *stubCatalogService) ListProducts(ctx context.Context, filter services.CatalogListFilter) ([]services.Product, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, filter)
	}
	return nil, services.ErrCatalogUnavailable
}

func (s *stubCatalogService) GetProduct(ctx context.Context, productID string) (services.Product, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, productID)
	}
	return services.Product{}, services.ErrCatalogNotFound
}

func (s *stubCatalogService) SearchProducts(ctx context.Context, query string) ([]services.Product, error) {
	if s.searchFunc != nil {
		return s.searchFunc(ctx, query)
	}
	return nil, services.ErrCatalogUnavailable
}

func newCatalogRouter(service services.CatalogService) chi.Router {
	router := chi.NewRouter()
	router.Route("/catalog", NewCatalogHandlers(service).Routes)
	return router
}

func TestCatalogHandlersListProducts(t *testing.T) {
	service := &stubCatalogService{
		listFunc: func(ctx context.Context, filter services.CatalogListFilter) ([]services.Product, error) {
			if filter.Category != "hoodies" || filter.Line != "limited" {
				t.Fatalf("unexpected filter %+v", filter)
			}
			return []services.Product{
				{ID: "l1", Name: "Golden Saiyan Hoodie", Price: "R800", PriceCents: 80000, Category: "hoodies", Line: "limited"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/catalog/products?category=hoodies&line=limited", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Products []productPayload `json:"products"`
		Count    int              `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Products) != 1 {
		t.Fatalf("expected 1 product, got %+v", resp)
	}
	if resp.Products[0].Price != "R800" || resp.Products[0].PriceCents != 80000 {
		t.Fatalf("unexpected product payload %+v", resp.Products[0])
	}
}

func TestCatalogHandlersListProductsInvalidFilter(t *testing.T) {
	service := &stubCatalogService{
		listFunc: func(ctx context.Context, filter services.CatalogListFilter) ([]services.Product, error) {
			return nil, services.ErrCatalogInvalidInput
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/catalog/products?category=vinyl", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestCatalogHandlersGetProduct(t *testing.T) {
	service := &stubCatalogService{
		getFunc: func(ctx context.Context, productID string) (services.Product, error) {
			if productID != "c1" {
				t.Fatalf("unexpected product id %q", productID)
			}
			return services.Product{ID: "c1", Name: "MAPPA x Lowkey Eren Hoodie", Price: "R550", PriceCents: 55000}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/catalog/products/c1", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Product productPayload `json:"product"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Product.ID != "c1" {
		t.Fatalf("unexpected payload %+v", resp.Product)
	}
}

func TestCatalogHandlersGetProductNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/catalog/products/zz", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(&stubCatalogService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp["error"] != "product_not_found" {
		t.Fatalf("unexpected error code %v", resp["error"])
	}
}

func TestCatalogHandlersSearch(t *testing.T) {
	service := &stubCatalogService{
		searchFunc: func(ctx context.Context, query string) ([]services.Product, error) {
			if query != "naruto" {
				t.Fatalf("unexpected query %q", query)
			}
			return []services.Product{{ID: "3"}, {ID: "l2"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/catalog/search?q=naruto", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 matches, got %d", resp.Count)
	}
}

func TestCatalogHandlersServiceMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/catalog/products", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}
