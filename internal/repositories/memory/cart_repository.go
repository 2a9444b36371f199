package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

// CartRepository holds per-user carts in process memory.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

var _ repositories.CartRepository = (*CartRepository)(nil)

// NewCartRepository constructs an empty cart store.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]domain.Cart)}
}

// GetCart returns the stored cart for the user.
func (r *CartRepository) GetCart(_ context.Context, userID string) (domain.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.Cart{}, invalidError("cart repository: get", "user id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[uid]
	if !ok {
		return domain.Cart{}, notFoundError("cart repository: get", "no cart for user %s", uid)
	}
	return cloneCart(cart), nil
}

// UpsertCart stores the full cart, keyed by its user id.
func (r *CartRepository) UpsertCart(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	uid := strings.TrimSpace(cart.UserID)
	if uid == "" {
		return domain.Cart{}, invalidError("cart repository: upsert", "user id is required")
	}
	if strings.TrimSpace(cart.ID) == "" {
		cart.ID = uid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[uid] = cloneCart(cart)
	return cloneCart(cart), nil
}

// ReplaceItems swaps the line items of an existing cart, creating the cart when absent.
func (r *CartRepository) ReplaceItems(_ context.Context, userID string, items []domain.CartItem) (domain.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return domain.Cart{}, invalidError("cart repository: replace items", "user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[uid]
	if !ok {
		now := time.Now().UTC()
		cart = domain.Cart{ID: uid, UserID: uid, CreatedAt: now, UpdatedAt: now}
	}
	cart.Items = cloneCartItems(items)
	cart.UpdatedAt = time.Now().UTC()
	r.carts[uid] = cart
	return cloneCart(cart), nil
}

// DeleteCart removes the user's cart entirely. Deleting an absent cart is a no-op.
func (r *CartRepository) DeleteCart(_ context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return invalidError("cart repository: delete", "user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, uid)
	return nil
}

func cloneCart(cart domain.Cart) domain.Cart {
	dup := cart
	dup.Items = cloneCartItems(cart.Items)
	return dup
}

func cloneCartItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}
	dup := make([]domain.CartItem, len(items))
	copy(dup, items)
	for i := range dup {
		if dup[i].UpdatedAt != nil {
			ts := *dup[i].UpdatedAt
			dup[i].UpdatedAt = &ts
		}
	}
	return dup
}
