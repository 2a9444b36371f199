package repositories

import (
	"context"

	domain "github.com/lowkey-merch/storefront/internal/domain"
)

// RepositoryError wraps low-level store failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// CatalogFilter narrows catalog listings. Zero values mean "no filter".
type CatalogFilter struct {
	Category domain.ProductCategory
	Line     domain.ProductLine
}

// CatalogRepository serves the immutable product catalog seeded at startup.
type CatalogRepository interface {
	ListProducts(ctx context.Context, filter CatalogFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	AllProducts(ctx context.Context) ([]domain.Product, error)
}

// CartRepository holds the per-user cart state.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	UpsertCart(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	ReplaceItems(ctx context.Context, userID string, items []domain.CartItem) (domain.Cart, error)
	DeleteCart(ctx context.Context, userID string) error
}

// WishlistRepository appends and lists wishlist entries per user.
type WishlistRepository interface {
	Append(ctx context.Context, entry domain.WishlistEntry) (domain.WishlistEntry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
}

// UserRepository stores registered customers keyed by id and unique email.
type UserRepository interface {
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, userID string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// SessionRepository records issued session identifiers so logout can revoke them.
type SessionRepository interface {
	Insert(ctx context.Context, session domain.Session) error
	Find(ctx context.Context, sessionID string) (domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// OrderRepository stores orders produced at checkout completion.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// ViewStateRepository holds per-browsing-session navigation state.
type ViewStateRepository interface {
	Get(ctx context.Context, sessionID string) (domain.ViewState, error)
	Save(ctx context.Context, state domain.ViewState) (domain.ViewState, error)
}

// HealthRepository aggregates dependency probes for readiness endpoints.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
