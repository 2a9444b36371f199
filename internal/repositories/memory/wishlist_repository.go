package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

// WishlistRepository appends wishlist entries per user. Append-only; the
// storefront never enforces uniqueness here.
type WishlistRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.WishlistEntry
}

var _ repositories.WishlistRepository = (*WishlistRepository)(nil)

// NewWishlistRepository constructs an empty wishlist store.
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{entries: make(map[string][]domain.WishlistEntry)}
}

// Append records a wishlist entry for the user.
func (r *WishlistRepository) Append(_ context.Context, entry domain.WishlistEntry) (domain.WishlistEntry, error) {
	uid := strings.TrimSpace(entry.UserID)
	if uid == "" || strings.TrimSpace(entry.ProductID) == "" {
		return domain.WishlistEntry{}, invalidError("wishlist repository: append", "user id and product id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[uid] = append(r.entries[uid], entry)
	return entry, nil
}

// ListByUser returns the user's wishlist in insertion order.
func (r *WishlistRepository) ListByUser(_ context.Context, userID string) ([]domain.WishlistEntry, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, invalidError("wishlist repository: list", "user id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[uid]
	dup := make([]domain.WishlistEntry, len(entries))
	copy(dup, entries)
	return dup, nil
}
