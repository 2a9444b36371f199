package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	memory "github.com/lowkey-merch/storefront/internal/repositories/memory"
)

func newCartFixture(t *testing.T, now time.Time) CartService {
	t.Helper()

	catalog, err := memory.NewCatalogRepository(memory.DefaultCatalog())
	if err != nil {
		t.Fatalf("unexpected error seeding catalog: %v", err)
	}

	service, err := NewCartService(CartServiceDeps{
		Repository:  memory.NewCartRepository(),
		Catalog:     catalog,
		Wishlist:    memory.NewWishlistRepository(),
		Clock:       func() time.Time { return now },
		IDGenerator: sequentialIDs("line"),
	})
	if err != nil {
		t.Fatalf("unexpected error constructing cart service: %v", err)
	}
	return service
}

func TestCartServiceGetCartMintsEmptyCart(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)

	view, err := service.GetCart(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Cart.Items))
	}
	if view.Cart.Currency != "ZAR" {
		t.Fatalf("expected default currency ZAR, got %q", view.Cart.Currency)
	}
	if view.Totals.ItemCount != 0 || view.Totals.Subtotal != 0 {
		t.Fatalf("expected zero totals, got %+v", view.Totals)
	}
	if view.Totals.SubtotalLabel != "R0" {
		t.Fatalf("expected label R0, got %q", view.Totals.SubtotalLabel)
	}
}

func TestCartServiceAddItemComputesTotals(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	// Product 1 is the R350 Anime Hero Tee.
	view, err := service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Cart.Items))
	}
	line := view.Cart.Items[0]
	if line.UnitPrice != 35000 {
		t.Fatalf("expected unit price 35000 cents, got %d", line.UnitPrice)
	}
	if line.ProductName != "Anime Hero Tee" {
		t.Fatalf("expected product name snapshot, got %q", line.ProductName)
	}
	if view.Totals.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", view.Totals.ItemCount)
	}
	if view.Totals.Subtotal != 70000 {
		t.Fatalf("expected subtotal 70000, got %d", view.Totals.Subtotal)
	}
	if view.Totals.SubtotalLabel != "R700" {
		t.Fatalf("expected label R700, got %q", view.Totals.SubtotalLabel)
	}
}

func TestCartServiceAddItemMergesSameProductAndSize(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M", Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: " m ", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected re-add to merge into 1 line, got %d", len(view.Cart.Items))
	}
	if view.Cart.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", view.Cart.Items[0].Quantity)
	}

	view, err = service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "L", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cart.Items) != 2 {
		t.Fatalf("expected a different size to open a new line, got %d lines", len(view.Cart.Items))
	}
	if view.Totals.ItemCount != 4 {
		t.Fatalf("expected item count 4, got %d", view.Totals.ItemCount)
	}
}

func TestCartServiceAddItemValidation(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  AddCartItemCommand
	}{
		{name: "missing user", cmd: AddCartItemCommand{ProductID: "1", Size: "M", Quantity: 1}},
		{name: "missing product", cmd: AddCartItemCommand{UserID: "user-1", Size: "M", Quantity: 1}},
		{name: "missing size", cmd: AddCartItemCommand{UserID: "user-1", ProductID: "1", Quantity: 1}},
		{name: "zero quantity", cmd: AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M"}},
		{name: "negative quantity", cmd: AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M", Quantity: -2}},
		{name: "unknown product", cmd: AddCartItemCommand{UserID: "user-1", ProductID: "nope", Size: "M", Quantity: 1}},
		{name: "over line cap", cmd: AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M", Quantity: 100}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.AddItem(ctx, tc.cmd); !errors.Is(err, ErrCartInvalidInput) {
				t.Fatalf("expected ErrCartInvalidInput, got %v", err)
			}
		})
	}
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	view, err := service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "2", Size: "XL", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lineID := view.Cart.Items[0].ID

	view, err = service.UpdateQuantity(ctx, UpdateCartQuantityCommand{UserID: "user-1", LineID: lineID, Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", view.Cart.Items[0].Quantity)
	}
	// R550 hoodie times five.
	if view.Totals.Subtotal != 275000 {
		t.Fatalf("expected subtotal 275000, got %d", view.Totals.Subtotal)
	}

	view, err = service.UpdateQuantity(ctx, UpdateCartQuantityCommand{UserID: "user-1", LineID: lineID, Quantity: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatalf("expected zero quantity to remove the line, got %d lines", len(view.Cart.Items))
	}
}

func TestCartServiceUpdateQuantityUnknownLineIsNoOp(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	// Updating before any cart exists yields an empty view, like removal.
	view, err := service.UpdateQuantity(ctx, UpdateCartQuantityCommand{UserID: "user-1", LineID: "line-9", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Cart.Items))
	}

	if _, err := service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M", Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err = service.UpdateQuantity(ctx, UpdateCartQuantityCommand{UserID: "user-1", LineID: "line-9", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].Quantity != 1 {
		t.Fatalf("expected unknown line update to leave the cart unchanged, got %+v", view.Cart.Items)
	}
}

func TestCartServiceRemoveItemIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	// Removing from a cart that was never created yields an empty view.
	view, err := service.RemoveItem(ctx, RemoveCartItemCommand{UserID: "user-1", LineID: "line-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Cart.Items))
	}

	view, err = service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lineID := view.Cart.Items[0].ID

	view, err = service.RemoveItem(ctx, RemoveCartItemCommand{UserID: "user-1", LineID: "no-such-line"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected unknown line removal to leave the cart unchanged, got %d items", len(view.Cart.Items))
	}

	view, err = service.RemoveItem(ctx, RemoveCartItemCommand{UserID: "user-1", LineID: lineID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Cart.Items) != 0 {
		t.Fatalf("expected line removed, got %d items", len(view.Cart.Items))
	}
}

func TestCartServiceClearCart(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	if _, err := service.AddItem(ctx, AddCartItemCommand{UserID: "user-1", ProductID: "1", Size: "M", Quantity: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.ClearCart(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Clearing again is a no-op.
	if err := service.ClearCart(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected error clearing empty cart: %v", err)
	}

	view, err := service.GetCart(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Totals.ItemCount != 0 || view.Totals.Subtotal != 0 {
		t.Fatalf("expected cleared totals, got %+v", view.Totals)
	}
}

func TestCartServiceWishlistPermitsDuplicates(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		entry, err := service.AddToWishlist(ctx, AddToWishlistCommand{UserID: "user-1", ProductID: "l1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.ProductID != "l1" {
			t.Fatalf("unexpected product id %q", entry.ProductID)
		}
	}

	entries, err := service.ListWishlist(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected duplicates to be kept, got %d entries", len(entries))
	}
}

func TestCartServiceWishlistRejectsUnknownProduct(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service := newCartFixture(t, now)

	_, err := service.AddToWishlist(context.Background(), AddToWishlistCommand{UserID: "user-1", ProductID: "zzz"})
	if !errors.Is(err, ErrCartInvalidInput) {
		t.Fatalf("expected ErrCartInvalidInput, got %v", err)
	}
}

func TestCartServiceTranslatesRepositoryFailures(t *testing.T) {
	catalog, err := memory.NewCatalogRepository(memory.DefaultCatalog())
	if err != nil {
		t.Fatalf("unexpected error seeding catalog: %v", err)
	}

	repo := &stubCartRepository{
		getFunc: func(ctx context.Context, userID string) (domain.Cart, error) {
			return domain.Cart{}, &repositoryErrorStub{unavailable: true}
		},
	}
	service, err := NewCartService(CartServiceDeps{
		Repository: repo,
		Catalog:    catalog,
		Wishlist:   memory.NewWishlistRepository(),
		Clock:      time.Now,
	})
	if err != nil {
		t.Fatalf("unexpected error constructing cart service: %v", err)
	}

	if _, err := service.GetCart(context.Background(), "user-1"); !errors.Is(err, ErrCartUnavailable) {
		t.Fatalf("expected ErrCartUnavailable, got %v", err)
	}
}

func TestNewCartServiceValidatesDeps(t *testing.T) {
	catalog, err := memory.NewCatalogRepository(memory.DefaultCatalog())
	if err != nil {
		t.Fatalf("unexpected error seeding catalog: %v", err)
	}

	if _, err := NewCartService(CartServiceDeps{Catalog: catalog, Clock: time.Now}); err == nil {
		t.Fatalf("expected error for missing cart repository")
	}
	if _, err := NewCartService(CartServiceDeps{Repository: memory.NewCartRepository(), Clock: time.Now}); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
	if _, err := NewCartService(CartServiceDeps{Repository: memory.NewCartRepository(), Catalog: catalog}); err == nil {
		t.Fatalf("expected error for missing clock")
	}
}

// sequentialIDs returns a deterministic generator: prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type stubCartRepository struct {
	getFunc     func(ctx context.Context, userID string) (domain.Cart, error)
	upsertFunc  func(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	replaceFunc func(ctx context.Context, userID string, items []domain.CartItem) (domain.Cart, error)
	deleteFunc  func(ctx context.Context, userID string) error
}

func (s *stubCartRepository) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, userID)
	}
	return domain.Cart{}, &repositoryErrorStub{notFound: true}
}

func (s *stubCartRepository) UpsertCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if s.upsertFunc != nil {
		return s.upsertFunc(ctx, cart)
	}
	return cart, nil
}

func (s *stubCartRepository) ReplaceItems(ctx context.Context, userID string, items []domain.CartItem) (domain.Cart, error) {
	if s.replaceFunc != nil {
		return s.replaceFunc(ctx, userID, items)
	}
	return domain.Cart{}, errors.New("not implemented")
}

func (s *stubCartRepository) DeleteCart(ctx context.Context, userID string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, userID)
	}
	return nil
}

type repositoryErrorStub struct {
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *repositoryErrorStub) Error() string {
	return "repository error"
}

func (e *repositoryErrorStub) IsNotFound() bool {
	return e.notFound
}

func (e *repositoryErrorStub) IsConflict() bool {
	return e.conflict
}

func (e *repositoryErrorStub) IsUnavailable() bool {
	return e.unavailable
}
