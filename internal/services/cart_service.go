package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

var (
	errCartRepositoryRequired = errors.New("cart service: cart repository is required")
	errCartCatalogRequired    = errors.New("cart service: catalog repository is required")
	errCartClockRequired      = errors.New("cart service: clock is required")
)

// ErrCartInvalidInput indicates the caller supplied invalid input.
var ErrCartInvalidInput = errors.New("cart service: invalid input")

// ErrCartNotFound indicates the requested cart line does not exist.
var ErrCartNotFound = errors.New("cart service: not found")

// ErrCartConflict indicates the cart could not be updated due to concurrent modifications.
var ErrCartConflict = errors.New("cart service: conflict")

// ErrCartUnavailable indicates the cart service cannot fulfil the request due to backend issues.
var ErrCartUnavailable = errors.New("cart service: unavailable")

const maxCartLineQuantity = 99

// CartServiceDeps wires the repositories backing cart and wishlist operations.
type CartServiceDeps struct {
	Repository  repositories.CartRepository
	Catalog     repositories.CatalogRepository
	Wishlist    repositories.WishlistRepository
	Clock       func() time.Time
	Currency    string
	Logger      func(context.Context, string, map[string]any)
	IDGenerator func() string
}

type cartService struct {
	repo     repositories.CartRepository
	catalog  repositories.CatalogRepository
	wishlist repositories.WishlistRepository
	newID    func() string
	now      func() time.Time
	currency string
	logger   func(context.Context, string, map[string]any)
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Repository == nil {
		return nil, errCartRepositoryRequired
	}
	if deps.Catalog == nil {
		return nil, errCartCatalogRequired
	}
	if deps.Clock == nil {
		return nil, errCartClockRequired
	}

	currency := strings.ToUpper(strings.TrimSpace(deps.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	return &cartService{
		repo:     deps.Repository,
		catalog:  deps.Catalog,
		wishlist: deps.Wishlist,
		newID:    idGen,
		now:      func() time.Time { return deps.Clock().UTC() },
		currency: currency,
		logger:   logger,
	}, nil
}

// GetCart loads the user's cart, creating an empty one when absent, and recomputes totals.
func (s *cartService) GetCart(ctx context.Context, userID string) (CartView, error) {
	if s == nil || s.repo == nil {
		return CartView{}, ErrCartUnavailable
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	cart, err := s.loadOrCreateCart(ctx, uid)
	if err != nil {
		return CartView{}, err
	}

	return s.view(cart), nil
}

// AddItem merges quantity into an existing (product, size) line or appends a new one.
func (s *cartService) AddItem(ctx context.Context, cmd AddCartItemCommand) (CartView, error) {
	if s == nil || s.repo == nil {
		return CartView{}, ErrCartUnavailable
	}

	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	productID := strings.TrimSpace(cmd.ProductID)
	if productID == "" {
		return CartView{}, fmt.Errorf("%w: product_id is required", ErrCartInvalidInput)
	}

	size := strings.TrimSpace(cmd.Size)
	if size == "" {
		return CartView{}, fmt.Errorf("%w: size is required", ErrCartInvalidInput)
	}

	if cmd.Quantity <= 0 {
		return CartView{}, fmt.Errorf("%w: quantity must be greater than zero", ErrCartInvalidInput)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if isRepoNotFound(err) {
			return CartView{}, fmt.Errorf("%w: unknown product %q", ErrCartInvalidInput, productID)
		}
		return CartView{}, s.translateRepoError(err)
	}

	cart, err := s.loadOrCreateCart(ctx, uid)
	if err != nil {
		return CartView{}, err
	}

	items := cloneCartItems(cart.Items)
	now := s.now()

	idx := indexOfCartLine(items, product.ID, size)
	if idx >= 0 {
		merged := items[idx].Quantity + cmd.Quantity
		if merged > maxCartLineQuantity {
			return CartView{}, fmt.Errorf("%w: quantity may not exceed %d per line", ErrCartInvalidInput, maxCartLineQuantity)
		}
		items[idx].Quantity = merged
		ts := now
		items[idx].UpdatedAt = &ts
	} else {
		if cmd.Quantity > maxCartLineQuantity {
			return CartView{}, fmt.Errorf("%w: quantity may not exceed %d per line", ErrCartInvalidInput, maxCartLineQuantity)
		}
		newID := strings.TrimSpace(s.newID())
		if newID == "" {
			newID = fmt.Sprintf("line-%d", now.UnixNano())
		}
		items = append(items, domain.CartItem{
			ID:          newID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        size,
			Quantity:    cmd.Quantity,
			UnitPrice:   product.PriceCents,
			AddedAt:     now,
		})
	}

	saved, err := s.repo.ReplaceItems(ctx, uid, items)
	if err != nil {
		return CartView{}, s.translateRepoError(err)
	}

	s.logger(ctx, "cart.item_added", map[string]any{
		"userID":    uid,
		"productID": product.ID,
		"size":      size,
		"quantity":  cmd.Quantity,
	})

	return s.view(saved), nil
}

// UpdateQuantity sets the quantity of an existing line; zero or negative
// removes it. Updating an absent line leaves the cart unchanged.
func (s *cartService) UpdateQuantity(ctx context.Context, cmd UpdateCartQuantityCommand) (CartView, error) {
	if s == nil || s.repo == nil {
		return CartView{}, ErrCartUnavailable
	}

	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	lineID := strings.TrimSpace(cmd.LineID)
	if lineID == "" {
		return CartView{}, fmt.Errorf("%w: line id is required", ErrCartInvalidInput)
	}

	if cmd.Quantity > maxCartLineQuantity {
		return CartView{}, fmt.Errorf("%w: quantity may not exceed %d per line", ErrCartInvalidInput, maxCartLineQuantity)
	}

	cart, err := s.repo.GetCart(ctx, uid)
	if err != nil {
		if isRepoNotFound(err) {
			return s.view(s.newCart(uid)), nil
		}
		return CartView{}, s.translateRepoError(err)
	}

	items := cloneCartItems(cart.Items)
	idx := indexOfCartLineID(items, lineID)
	if idx < 0 {
		return s.view(cart), nil
	}

	now := s.now()
	if cmd.Quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = cmd.Quantity
		ts := now
		items[idx].UpdatedAt = &ts
	}

	saved, err := s.repo.ReplaceItems(ctx, uid, items)
	if err != nil {
		return CartView{}, s.translateRepoError(err)
	}

	return s.view(saved), nil
}

// RemoveItem deletes the line; removing an absent line leaves the cart unchanged.
func (s *cartService) RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (CartView, error) {
	if s == nil || s.repo == nil {
		return CartView{}, ErrCartUnavailable
	}

	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	lineID := strings.TrimSpace(cmd.LineID)
	if lineID == "" {
		return CartView{}, fmt.Errorf("%w: line id is required", ErrCartInvalidInput)
	}

	cart, err := s.repo.GetCart(ctx, uid)
	if err != nil {
		if isRepoNotFound(err) {
			return s.view(s.newCart(uid)), nil
		}
		return CartView{}, s.translateRepoError(err)
	}

	items := cloneCartItems(cart.Items)
	idx := indexOfCartLineID(items, lineID)
	if idx < 0 {
		return s.view(cart), nil
	}

	items = append(items[:idx], items[idx+1:]...)
	saved, err := s.repo.ReplaceItems(ctx, uid, items)
	if err != nil {
		return CartView{}, s.translateRepoError(err)
	}

	return s.view(saved), nil
}

// ClearCart empties the user's cart.
func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	if s == nil || s.repo == nil {
		return ErrCartUnavailable
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ErrCartInvalidInput
	}

	if err := s.repo.DeleteCart(ctx, uid); err != nil {
		if isRepoNotFound(err) {
			return nil
		}
		return s.translateRepoError(err)
	}
	return nil
}

// AddToWishlist appends the product to the user's wishlist. Duplicates are permitted.
func (s *cartService) AddToWishlist(ctx context.Context, cmd AddToWishlistCommand) (WishlistEntry, error) {
	if s == nil || s.wishlist == nil {
		return WishlistEntry{}, ErrCartUnavailable
	}

	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return WishlistEntry{}, ErrCartInvalidInput
	}

	productID := strings.TrimSpace(cmd.ProductID)
	if productID == "" {
		return WishlistEntry{}, fmt.Errorf("%w: product_id is required", ErrCartInvalidInput)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if isRepoNotFound(err) {
			return WishlistEntry{}, fmt.Errorf("%w: unknown product %q", ErrCartInvalidInput, productID)
		}
		return WishlistEntry{}, s.translateRepoError(err)
	}

	entry := domain.WishlistEntry{
		ID:        strings.TrimSpace(s.newID()),
		UserID:    uid,
		ProductID: product.ID,
		AddedAt:   s.now(),
	}

	saved, err := s.wishlist.Append(ctx, entry)
	if err != nil {
		return WishlistEntry{}, s.translateRepoError(err)
	}

	s.logger(ctx, "cart.wishlist_added", map[string]any{
		"userID":    uid,
		"productID": product.ID,
	})

	return saved, nil
}

// ListWishlist returns the user's wishlist entries in append order.
func (s *cartService) ListWishlist(ctx context.Context, userID string) ([]WishlistEntry, error) {
	if s == nil || s.wishlist == nil {
		return nil, ErrCartUnavailable
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidInput
	}

	entries, err := s.wishlist.ListByUser(ctx, uid)
	if err != nil {
		return nil, s.translateRepoError(err)
	}
	return entries, nil
}

func (s *cartService) loadOrCreateCart(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if isRepoNotFound(err) {
			return s.newCart(userID), nil
		}
		return domain.Cart{}, s.translateRepoError(err)
	}
	return s.normaliseCart(cart, userID), nil
}

func (s *cartService) newCart(userID string) domain.Cart {
	now := s.now()
	return domain.Cart{
		ID:        userID,
		UserID:    userID,
		Currency:  s.currency,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *cartService) normaliseCart(cart domain.Cart, userID string) domain.Cart {
	if cart.ID = strings.TrimSpace(cart.ID); cart.ID == "" {
		cart.ID = userID
	}
	if cart.UserID = strings.TrimSpace(cart.UserID); cart.UserID == "" {
		cart.UserID = userID
	}
	if cart.Currency = strings.ToUpper(strings.TrimSpace(cart.Currency)); cart.Currency == "" {
		cart.Currency = s.currency
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = s.now()
	}
	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = s.now()
	}
	return cart
}

// view recomputes the derived aggregates; they are never stored.
func (s *cartService) view(cart domain.Cart) CartView {
	cart = s.normaliseCart(cart, cart.UserID)

	var count int
	var subtotal int64
	for _, item := range cart.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			continue
		}
		count += item.Quantity
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	return CartView{
		Cart: cart,
		Totals: CartTotals{
			ItemCount:     count,
			Subtotal:      subtotal,
			SubtotalLabel: domain.FormatPrice(subtotal),
		},
	}
}

func (s *cartService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrCartNotFound
		case repoErr.IsConflict():
			return ErrCartConflict
		case repoErr.IsUnavailable():
			return ErrCartUnavailable
		}
		return ErrCartUnavailable
	}
	return ErrCartUnavailable
}

func cloneCartItems(items []domain.CartItem) []domain.CartItem {
	if len(items) == 0 {
		return []domain.CartItem{}
	}
	dup := make([]domain.CartItem, len(items))
	copy(dup, items)
	for i := range dup {
		if dup[i].UpdatedAt != nil {
			ts := dup[i].UpdatedAt.UTC()
			dup[i].UpdatedAt = &ts
		}
	}
	return dup
}

func indexOfCartLine(items []domain.CartItem, productID, size string) int {
	for i, item := range items {
		if strings.EqualFold(strings.TrimSpace(item.ProductID), productID) &&
			strings.EqualFold(strings.TrimSpace(item.Size), size) {
			return i
		}
	}
	return -1
}

func indexOfCartLineID(items []domain.CartItem, lineID string) int {
	target := strings.TrimSpace(lineID)
	if target == "" {
		return -1
	}
	for i, item := range items {
		if strings.EqualFold(strings.TrimSpace(item.ID), target) {
			return i
		}
	}
	return -1
}
