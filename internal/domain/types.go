package domain

import (
	"time"
)

// ProductCategory enumerates the merchandise categories sold by the storefront.
type ProductCategory string

const (
	// CategoryTees covers printed t-shirts.
	CategoryTees ProductCategory = "tees"
	// CategoryHoodies covers hoodies and sweaters.
	CategoryHoodies ProductCategory = "hoodies"
	// CategoryPosters covers wall art prints.
	CategoryPosters ProductCategory = "posters"
	// CategoryMousepads covers desk mats and mousepads.
	CategoryMousepads ProductCategory = "mousepads"
)

// KnownCategories lists every valid product category.
func KnownCategories() []ProductCategory {
	return []ProductCategory{CategoryTees, CategoryHoodies, CategoryPosters, CategoryMousepads}
}

// ValidCategory reports whether the supplied value names a known category.
func ValidCategory(category ProductCategory) bool {
	switch category {
	case CategoryTees, CategoryHoodies, CategoryPosters, CategoryMousepads:
		return true
	}
	return false
}

// ProductLine distinguishes the three catalog lines merged into the searchable catalog.
type ProductLine string

const (
	// LineStandard is the core always-available range.
	LineStandard ProductLine = "standard"
	// LineLimited is the numbered limited-edition range.
	LineLimited ProductLine = "limited"
	// LineCollab is the studio-collaboration range.
	LineCollab ProductLine = "collab"
)

// StockLevel tracks remaining units for limited-edition products.
type StockLevel struct {
	Remaining int
	Total     int
}

// Product describes a single catalog entry. Products are seeded at startup and never mutated.
type Product struct {
	ID          string
	Name        string
	Price       string
	PriceCents  int64
	Category    ProductCategory
	Anime       string
	Line        ProductLine
	Description string
	Rarity      string
	CollabType  string
	Stock       *StockLevel
}

// Cart aggregates the mutable shopping cart state for a user.
type Cart struct {
	ID        string
	UserID    string
	Currency  string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem stores one (product, size) line within a cart. Lines are unique on
// (ProductID, Size); re-adding the same pair merges quantities.
type CartItem struct {
	ID          string
	ProductID   string
	ProductName string
	Size        string
	Quantity    int
	UnitPrice   int64
	AddedAt     time.Time
	UpdatedAt   *time.Time
}

// CartTotals summarises derived aggregates recomputed on every cart read.
type CartTotals struct {
	ItemCount     int
	Subtotal      int64
	SubtotalLabel string
}

// WishlistEntry records one appended wishlist product for a user. Append-only;
// duplicates are permitted.
type WishlistEntry struct {
	ID        string
	UserID    string
	ProductID string
	AddedAt   time.Time
}

// User is an authenticated storefront customer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Locale       string
	CreatedAt    time.Time
}

// Session records an issued session token so that logout can revoke it.
type Session struct {
	ID        string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// OrderStatus enumerates lifecycle states for placed orders.
type OrderStatus string

const (
	// OrderStatusPaid indicates payment succeeded and the order is confirmed.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusFulfilled indicates the order has been shipped to the customer.
	OrderStatusFulfilled OrderStatus = "fulfilled"
	// OrderStatusCanceled indicates the order has been canceled.
	OrderStatusCanceled OrderStatus = "canceled"
)

// Order captures the payload produced at checkout completion and shown on the
// confirmation page.
type Order struct {
	ID          string
	OrderNumber string
	UserID      string
	Currency    string
	Items       []OrderLineItem
	Totals      OrderTotals
	Payment     OrderPayment
	Contact     OrderContact
	Status      OrderStatus
	PlacedAt    time.Time
}

// OrderLineItem mirrors a cart line at the moment of checkout.
type OrderLineItem struct {
	ProductID   string
	ProductName string
	Size        string
	Quantity    int
	UnitPrice   int64
	Total       int64
}

// OrderTotals holds rolled-up monetary fields in the smallest currency unit.
type OrderTotals struct {
	Subtotal int64
	Shipping int64
	Total    int64
}

// OrderPayment records the provider reference returned by the payment processor.
type OrderPayment struct {
	Provider  string
	ChargeRef string
	Captured  bool
}

// OrderContact stores the customer contact snapshot for notifications.
type OrderContact struct {
	Name  string
	Email string
}

// Page enumerates the top-level screens of the storefront.
type Page string

const (
	// PageHome is the landing page.
	PageHome Page = "home"
	// PageProduct is the product detail screen; requires a selected product.
	PageProduct Page = "product"
	// PageCheckout is the checkout flow; requires authentication.
	PageCheckout Page = "checkout"
	// PageOrderConfirmation shows a completed order; requires an order reference.
	PageOrderConfirmation Page = "order-confirmation"
	// PageLimited lists the limited-edition range.
	PageLimited Page = "limited"
	// PageCollabs lists the collaboration range.
	PageCollabs Page = "collabs"
)

// ValidPage reports whether the supplied value names a known page.
func ValidPage(page Page) bool {
	switch page {
	case PageHome, PageProduct, PageCheckout, PageOrderConfirmation, PageLimited, PageCollabs:
		return true
	}
	return false
}

// Overlay enumerates the modal surfaces shown above the current page.
type Overlay string

const (
	// OverlaySearch is the free-text search modal.
	OverlaySearch Overlay = "search"
	// OverlayAuth is the login/signup modal.
	OverlayAuth Overlay = "auth"
	// OverlayCart is the cart drawer.
	OverlayCart Overlay = "cart"
)

// ValidOverlay reports whether the supplied value names a known overlay.
func ValidOverlay(overlay Overlay) bool {
	switch overlay {
	case OverlaySearch, OverlayAuth, OverlayCart:
		return true
	}
	return false
}

// ViewState is the per-browsing-session navigation state: one current page plus
// independent overlay flags. Overlays never force-close each other.
type ViewState struct {
	SessionID         string
	Page              Page
	SelectedProductID string
	OrderID           string
	SearchOpen        bool
	AuthOpen          bool
	CartOpen          bool
	UpdatedAt         time.Time
}
