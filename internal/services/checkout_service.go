package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/payments"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

var (
	errCheckoutCartsRequired    = errors.New("checkout service: cart service is required")
	errCheckoutOrdersRequired   = errors.New("checkout service: order repository is required")
	errCheckoutPaymentsRequired = errors.New("checkout service: payment charger is required")
	errCheckoutUsersRequired    = errors.New("checkout service: user repository is required")
	errCheckoutClockRequired    = errors.New("checkout service: clock is required")
)

// ErrCheckoutInvalidInput indicates the caller supplied invalid input.
var ErrCheckoutInvalidInput = errors.New("checkout service: invalid input")

// ErrCheckoutCartNotReady indicates the cart is empty and cannot be checked out.
var ErrCheckoutCartNotReady = errors.New("checkout service: cart is empty")

// ErrCheckoutPaymentFailed indicates the payment provider declined or errored. The
// cart is left untouched so the caller can retry.
var ErrCheckoutPaymentFailed = errors.New("checkout service: payment failed")

// ErrCheckoutUnavailable indicates the checkout service cannot fulfil the request.
var ErrCheckoutUnavailable = errors.New("checkout service: unavailable")

// PaymentCharger abstracts the payment provider manager.
type PaymentCharger interface {
	Charge(ctx context.Context, preferred string, req payments.ChargeRequest) (payments.PaymentDetails, error)
}

// cartReader is the slice of CartService checkout needs.
type cartReader interface {
	GetCart(ctx context.Context, userID string) (CartView, error)
	ClearCart(ctx context.Context, userID string) error
}

// CheckoutServiceDeps wires the collaborators for order completion.
type CheckoutServiceDeps struct {
	Carts       cartReader
	Orders      repositories.OrderRepository
	Users       repositories.UserRepository
	Payments    PaymentCharger
	Provider    string
	Currency    string
	Clock       func() time.Time
	Logger      func(context.Context, string, map[string]any)
	IDGenerator func() string
}

type checkoutService struct {
	carts    cartReader
	orders   repositories.OrderRepository
	users    repositories.UserRepository
	payments PaymentCharger
	provider string
	currency string
	newID    func() string
	now      func() time.Time
	logger   func(context.Context, string, map[string]any)
}

// NewCheckoutService constructs a CheckoutService enforcing dependency validation.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Carts == nil {
		return nil, errCheckoutCartsRequired
	}
	if deps.Orders == nil {
		return nil, errCheckoutOrdersRequired
	}
	if deps.Users == nil {
		return nil, errCheckoutUsersRequired
	}
	if deps.Payments == nil {
		return nil, errCheckoutPaymentsRequired
	}
	if deps.Clock == nil {
		return nil, errCheckoutClockRequired
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

	return &checkoutService{
		carts:    deps.Carts,
		orders:   deps.Orders,
		users:    deps.Users,
		payments: deps.Payments,
		provider: strings.ToLower(strings.TrimSpace(deps.Provider)),
		currency: currency,
		newID:    idGen,
		now:      func() time.Time { return deps.Clock().UTC() },
		logger:   logger,
	}, nil
}

// CompleteOrder snapshots the cart into an order, charges for it, stores it, and
// clears the cart. Payment failure leaves the cart untouched.
func (s *checkoutService) CompleteOrder(ctx context.Context, cmd CompleteOrderCommand) (Order, error) {
	if s == nil || s.orders == nil {
		return Order{}, ErrCheckoutUnavailable
	}

	uid := strings.TrimSpace(cmd.UserID)
	if uid == "" {
		return Order{}, ErrCheckoutInvalidInput
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if isRepoNotFound(err) {
			return Order{}, fmt.Errorf("%w: unknown user", ErrCheckoutInvalidInput)
		}
		return Order{}, ErrCheckoutUnavailable
	}

	view, err := s.carts.GetCart(ctx, uid)
	if err != nil {
		return Order{}, ErrCheckoutUnavailable
	}
	if len(view.Cart.Items) == 0 || view.Totals.ItemCount == 0 {
		return Order{}, ErrCheckoutCartNotReady
	}

	contactName := strings.TrimSpace(cmd.ContactName)
	if contactName == "" {
		contactName = user.Name
	}
	contactEmail := strings.ToLower(strings.TrimSpace(cmd.ContactEmail))
	if contactEmail == "" {
		contactEmail = user.Email
	}

	now := s.now()
	orderID := strings.TrimSpace(s.newID())
	if orderID == "" {
		orderID = fmt.Sprintf("order-%d", now.UnixNano())
	}

	lines := make([]domain.OrderLineItem, 0, len(view.Cart.Items))
	var subtotal int64
	for _, item := range view.Cart.Items {
		if item.Quantity <= 0 {
			continue
		}
		lineTotal := item.UnitPrice * int64(item.Quantity)
		subtotal += lineTotal
		lines = append(lines, domain.OrderLineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       lineTotal,
		})
	}
	if len(lines) == 0 || subtotal <= 0 {
		return Order{}, ErrCheckoutCartNotReady
	}

	chargeItems := make([]payments.ChargeLineItem, 0, len(lines))
	for _, line := range lines {
		chargeItems = append(chargeItems, payments.ChargeLineItem{
			Name:     line.ProductName,
			Size:     line.Size,
			Quantity: int64(line.Quantity),
			Amount:   line.UnitPrice,
			Currency: s.currency,
		})
	}

	details, err := s.payments.Charge(ctx, s.provider, payments.ChargeRequest{
		OrderID:        orderID,
		Amount:         subtotal,
		Currency:       s.currency,
		CustomerEmail:  contactEmail,
		IdempotencyKey: strings.TrimSpace(cmd.IdempotencyKey),
		Items:          chargeItems,
	})
	if err != nil {
		s.logger(ctx, "checkout.payment_failed", map[string]any{
			"userID":  uid,
			"orderID": orderID,
			"error":   err.Error(),
		})
		return Order{}, fmt.Errorf("%w: %v", ErrCheckoutPaymentFailed, err)
	}
	if details.Status != payments.StatusSucceeded {
		return Order{}, fmt.Errorf("%w: charge not captured (status %s)", ErrCheckoutPaymentFailed, details.Status)
	}

	order := domain.Order{
		ID:          orderID,
		OrderNumber: orderNumber(orderID, now),
		UserID:      uid,
		Currency:    s.currency,
		Items:       lines,
		Totals: domain.OrderTotals{
			Subtotal: subtotal,
			Shipping: 0,
			Total:    subtotal,
		},
		Payment: domain.OrderPayment{
			Provider:  details.Provider,
			ChargeRef: details.Reference,
			Captured:  details.Captured,
		},
		Contact: domain.OrderContact{
			Name:  contactName,
			Email: contactEmail,
		},
		Status:   domain.OrderStatusPaid,
		PlacedAt: now,
	}

	saved, err := s.orders.Insert(ctx, order)
	if err != nil {
		return Order{}, ErrCheckoutUnavailable
	}

	// The charge has already been captured; a failing cart clear must not undo the order.
	if err := s.carts.ClearCart(ctx, uid); err != nil {
		s.logger(ctx, "checkout.cart_clear_failed", map[string]any{
			"userID":  uid,
			"orderID": saved.ID,
			"error":   err.Error(),
		})
	}

	s.logger(ctx, "checkout.order_completed", map[string]any{
		"userID":   uid,
		"orderID":  saved.ID,
		"total":    saved.Totals.Total,
		"provider": saved.Payment.Provider,
	})

	return saved, nil
}

// orderNumber derives a short human-facing reference from the order id.
func orderNumber(orderID string, placedAt time.Time) string {
	suffix := strings.ToUpper(orderID)
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return fmt.Sprintf("LK-%s-%s", placedAt.Format("20060102"), suffix)
}
