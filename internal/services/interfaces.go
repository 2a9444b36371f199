package services

import (
	"context"

	domain "github.com/lowkey-merch/storefront/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Product            = domain.Product
	ProductCategory    = domain.ProductCategory
	ProductLine        = domain.ProductLine
	Cart               = domain.Cart
	CartItem           = domain.CartItem
	CartTotals         = domain.CartTotals
	WishlistEntry      = domain.WishlistEntry
	User               = domain.User
	Session            = domain.Session
	Order              = domain.Order
	OrderLineItem      = domain.OrderLineItem
	OrderTotals        = domain.OrderTotals
	OrderStatus        = domain.OrderStatus
	Page               = domain.Page
	Overlay            = domain.Overlay
	ViewState          = domain.ViewState
	SystemHealthReport = domain.SystemHealthReport
)

// CatalogService serves the immutable product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context, filter CatalogListFilter) ([]Product, error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// CatalogListFilter narrows catalog listings. Zero values mean "no filter".
type CatalogListFilter struct {
	Category ProductCategory
	Line     ProductLine
}

// CartView pairs the stored cart with its derived aggregates.
type CartView struct {
	Cart   Cart
	Totals CartTotals
}

// CartService manages per-user cart and wishlist state.
type CartService interface {
	GetCart(ctx context.Context, userID string) (CartView, error)
	AddItem(ctx context.Context, cmd AddCartItemCommand) (CartView, error)
	UpdateQuantity(ctx context.Context, cmd UpdateCartQuantityCommand) (CartView, error)
	RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (CartView, error)
	ClearCart(ctx context.Context, userID string) error
	AddToWishlist(ctx context.Context, cmd AddToWishlistCommand) (WishlistEntry, error)
	ListWishlist(ctx context.Context, userID string) ([]WishlistEntry, error)
}

// AddCartItemCommand adds quantity of a (product, size) pair to the cart.
type AddCartItemCommand struct {
	UserID    string
	ProductID string
	Size      string
	Quantity  int
}

// UpdateCartQuantityCommand sets the quantity of an existing cart line.
type UpdateCartQuantityCommand struct {
	UserID   string
	LineID   string
	Quantity int
}

// RemoveCartItemCommand deletes a cart line.
type RemoveCartItemCommand struct {
	UserID string
	LineID string
}

// AddToWishlistCommand appends a product to the user's wishlist.
type AddToWishlistCommand struct {
	UserID    string
	ProductID string
}

// AuthResult carries the outcome of a successful authentication.
type AuthResult struct {
	User         User
	SessionToken string
	SessionID    string
}

// SessionInfo describes the session restored by CheckAuth.
type SessionInfo struct {
	Authenticated bool
	User          User
	SessionID     string
}

// AuthService manages signup, login, session restoration, and logout.
type AuthService interface {
	Signup(ctx context.Context, cmd SignupCommand) (AuthResult, error)
	Login(ctx context.Context, cmd LoginCommand) (AuthResult, error)
	CheckAuth(ctx context.Context, token string) (SessionInfo, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, sessionID string) error
}

// SignupCommand registers a new customer.
type SignupCommand struct {
	Name     string
	Email    string
	Password string
}

// LoginCommand authenticates an existing customer.
type LoginCommand struct {
	Email    string
	Password string
}

// ViewService drives the per-browsing-session navigation state machine.
type ViewService interface {
	GetState(ctx context.Context, sessionID string) (ViewState, error)
	SelectProduct(ctx context.Context, sessionID, productID string) (ViewState, error)
	OpenOverlay(ctx context.Context, sessionID string, kind Overlay) (ViewState, error)
	CloseOverlay(ctx context.Context, sessionID string, kind Overlay) (ViewState, error)
	BeginCheckout(ctx context.Context, sessionID string, authenticated bool) (ViewState, error)
	CompleteOrder(ctx context.Context, sessionID, orderID string) (ViewState, error)
	NavigateTo(ctx context.Context, sessionID string, page Page) (ViewState, error)
	GoHome(ctx context.Context, sessionID string) (ViewState, error)
}

// CheckoutService finalises the cart into a paid order.
type CheckoutService interface {
	CompleteOrder(ctx context.Context, cmd CompleteOrderCommand) (Order, error)
}

// CompleteOrderCommand captures the checkout submission.
type CompleteOrderCommand struct {
	UserID         string
	ContactName    string
	ContactEmail   string
	IdempotencyKey string
}

// OrderService exposes read access to placed orders.
type OrderService interface {
	GetOrder(ctx context.Context, userID, orderID string) (Order, error)
	ListOrders(ctx context.Context, userID string) ([]Order, error)
}

// SystemService aggregates operational health for readiness probes.
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}
