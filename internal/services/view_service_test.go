package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	memory "github.com/lowkey-merch/storefront/internal/repositories/memory"
)

func newViewFixture(t *testing.T) ViewService {
	t.Helper()

	catalog, err := memory.NewCatalogRepository(memory.DefaultCatalog())
	if err != nil {
		t.Fatalf("unexpected error seeding catalog: %v", err)
	}

	service, err := NewViewService(ViewServiceDeps{
		Repository: memory.NewViewStateRepository(),
		Catalog:    catalog,
		Clock:      func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("unexpected error constructing view service: %v", err)
	}
	return service
}

func TestViewServiceGetStateMintsHome(t *testing.T) {
	service := newViewFixture(t)

	state, err := service.GetState(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Page != domain.PageHome {
		t.Fatalf("expected home page, got %q", state.Page)
	}
	if state.SearchOpen || state.AuthOpen || state.CartOpen {
		t.Fatalf("expected all overlays closed, got %+v", state)
	}
	if state.SessionID != "sess-1" {
		t.Fatalf("expected session id preserved, got %q", state.SessionID)
	}

	if _, err := service.GetState(context.Background(), "  "); !errors.Is(err, ErrViewInvalidInput) {
		t.Fatalf("expected ErrViewInvalidInput for blank session, got %v", err)
	}
}

func TestViewServiceSelectProduct(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	state, err := service.SelectProduct(ctx, "sess-1", "l3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageProduct {
		t.Fatalf("expected product page, got %q", state.Page)
	}
	if state.SelectedProductID != "l3" {
		t.Fatalf("expected selected product l3, got %q", state.SelectedProductID)
	}

	if _, err := service.SelectProduct(ctx, "sess-1", "zz"); !errors.Is(err, ErrViewInvalidInput) {
		t.Fatalf("expected ErrViewInvalidInput for unknown product, got %v", err)
	}
	if _, err := service.SelectProduct(ctx, "sess-1", " "); !errors.Is(err, ErrViewInvalidInput) {
		t.Fatalf("expected ErrViewInvalidInput for blank product, got %v", err)
	}
}

func TestViewServiceOverlaysAreIndependent(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	if _, err := service.OpenOverlay(ctx, "sess-1", domain.OverlaySearch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := service.OpenOverlay(ctx, "sess-1", domain.OverlayCart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.SearchOpen || !state.CartOpen {
		t.Fatalf("expected search and cart open, got %+v", state)
	}

	state, err = service.CloseOverlay(ctx, "sess-1", domain.OverlayCart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !state.SearchOpen {
		t.Fatalf("expected closing the cart to leave search open")
	}
	if state.CartOpen {
		t.Fatalf("expected cart closed")
	}
	if state.Page != domain.PageHome {
		t.Fatalf("expected overlays not to change the page, got %q", state.Page)
	}

	if _, err := service.OpenOverlay(ctx, "sess-1", Overlay("drawer")); !errors.Is(err, ErrViewInvalidInput) {
		t.Fatalf("expected ErrViewInvalidInput for unknown overlay, got %v", err)
	}
}

func TestViewServiceBeginCheckoutUnauthenticatedRaisesAuth(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	if _, err := service.OpenOverlay(ctx, "sess-1", domain.OverlayCart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := service.BeginCheckout(ctx, "sess-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageHome {
		t.Fatalf("expected page unchanged for anonymous checkout, got %q", state.Page)
	}
	if !state.AuthOpen {
		t.Fatalf("expected auth overlay raised")
	}
	if state.CartOpen {
		t.Fatalf("expected cart drawer closed")
	}
}

func TestViewServiceBeginCheckoutAuthenticated(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	state, err := service.BeginCheckout(ctx, "sess-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageCheckout {
		t.Fatalf("expected checkout page, got %q", state.Page)
	}
	if state.CartOpen {
		t.Fatalf("expected cart drawer closed")
	}
}

func TestViewServiceCompleteOrder(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	// Completion outside the checkout page is rejected.
	if _, err := service.CompleteOrder(ctx, "sess-1", "order-1"); !errors.Is(err, ErrViewInvalidTransition) {
		t.Fatalf("expected ErrViewInvalidTransition, got %v", err)
	}

	if _, err := service.SelectProduct(ctx, "sess-1", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.BeginCheckout(ctx, "sess-1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := service.CompleteOrder(ctx, "sess-1", "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageOrderConfirmation {
		t.Fatalf("expected confirmation page, got %q", state.Page)
	}
	if state.OrderID != "order-1" {
		t.Fatalf("expected order reference, got %q", state.OrderID)
	}
	if state.SelectedProductID != "" {
		t.Fatalf("expected stale product selection cleared, got %q", state.SelectedProductID)
	}

	if _, err := service.CompleteOrder(ctx, "sess-1", "  "); !errors.Is(err, ErrViewInvalidInput) {
		t.Fatalf("expected ErrViewInvalidInput for blank order id, got %v", err)
	}
}

func TestViewServiceNavigateTo(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	state, err := service.NavigateTo(ctx, "sess-1", domain.PageLimited)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageLimited {
		t.Fatalf("expected limited page, got %q", state.Page)
	}

	state, err = service.NavigateTo(ctx, "sess-1", domain.PageCollabs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageCollabs {
		t.Fatalf("expected collabs page, got %q", state.Page)
	}

	state, err = service.NavigateTo(ctx, "sess-1", domain.PageHome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageHome {
		t.Fatalf("expected home page, got %q", state.Page)
	}

	for _, page := range []Page{domain.PageProduct, domain.PageCheckout, domain.PageOrderConfirmation} {
		if _, err := service.NavigateTo(ctx, "sess-1", page); !errors.Is(err, ErrViewInvalidTransition) {
			t.Fatalf("page %q: expected ErrViewInvalidTransition, got %v", page, err)
		}
	}
	if _, err := service.NavigateTo(ctx, "sess-1", Page("atelier")); !errors.Is(err, ErrViewInvalidInput) {
		t.Fatalf("expected ErrViewInvalidInput for unknown page, got %v", err)
	}
}

func TestViewServiceGoHomeClearsPayloads(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	if _, err := service.SelectProduct(ctx, "sess-1", "c2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := service.GoHome(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageHome {
		t.Fatalf("expected home page, got %q", state.Page)
	}
	if state.SelectedProductID != "" || state.OrderID != "" {
		t.Fatalf("expected payloads cleared, got %+v", state)
	}
}

func TestViewServiceSessionsAreIsolated(t *testing.T) {
	service := newViewFixture(t)
	ctx := context.Background()

	if _, err := service.SelectProduct(ctx, "sess-a", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := service.GetState(ctx, "sess-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Page != domain.PageHome || state.SelectedProductID != "" {
		t.Fatalf("expected untouched session to stay on home, got %+v", state)
	}
}
