package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lowkey-merch/storefront/internal/repositories"
)

var errOrderRepositoryRequired = errors.New("order service: repository is required")

// ErrOrderInvalidInput indicates the caller supplied invalid input.
var ErrOrderInvalidInput = errors.New("order service: invalid input")

// ErrOrderNotFound indicates the requested order does not exist or belongs to another user.
var ErrOrderNotFound = errors.New("order service: not found")

// ErrOrderUnavailable indicates the order service cannot fulfil the request.
var ErrOrderUnavailable = errors.New("order service: unavailable")

// OrderServiceDeps wires the repository for order reads.
type OrderServiceDeps struct {
	Repository repositories.OrderRepository
	Logger     func(context.Context, string, map[string]any)
}

type orderService struct {
	repo   repositories.OrderRepository
	logger func(context.Context, string, map[string]any)
}

// NewOrderService constructs an OrderService enforcing dependency validation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Repository == nil {
		return nil, errOrderRepositoryRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &orderService{
		repo:   deps.Repository,
		logger: logger,
	}, nil
}

// GetOrder returns the order when it belongs to the user. Orders of other users
// surface as not found rather than forbidden.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID string) (Order, error) {
	if s == nil || s.repo == nil {
		return Order{}, ErrOrderUnavailable
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return Order{}, ErrOrderInvalidInput
	}
	id := strings.TrimSpace(orderID)
	if id == "" {
		return Order{}, fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, ErrOrderUnavailable
	}

	if !strings.EqualFold(order.UserID, uid) {
		return Order{}, ErrOrderNotFound
	}

	return order, nil
}

// ListOrders returns the user's orders, most recent first.
func (s *orderService) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	if s == nil || s.repo == nil {
		return nil, ErrOrderUnavailable
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrOrderInvalidInput
	}

	orders, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, ErrOrderUnavailable
	}
	return orders, nil
}
