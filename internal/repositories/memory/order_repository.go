package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

// OrderRepository stores placed orders in process memory.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	byUser map[string][]string
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository constructs an empty order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]domain.Order),
		byUser: make(map[string][]string),
	}
}

// Insert stores a newly placed order.
func (r *OrderRepository) Insert(_ context.Context, order domain.Order) (domain.Order, error) {
	id := strings.TrimSpace(order.ID)
	uid := strings.TrimSpace(order.UserID)
	if id == "" || uid == "" {
		return domain.Order{}, invalidError("order repository: insert", "order id and user id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[id]; exists {
		return domain.Order{}, conflictError("order repository: insert", "order %s already exists", id)
	}
	r.orders[id] = cloneOrder(order)
	r.byUser[uid] = append(r.byUser[uid], id)
	return cloneOrder(order), nil
}

// FindByID returns the stored order.
func (r *OrderRepository) FindByID(_ context.Context, orderID string) (domain.Order, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return domain.Order{}, invalidError("order repository: find", "order id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, notFoundError("order repository: find", "no order %s", id)
	}
	return cloneOrder(order), nil
}

// ListByUser returns the user's orders, most recent first.
func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, invalidError("order repository: list", "user id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[uid]
	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		if order, ok := r.orders[id]; ok {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})
	return orders, nil
}

func cloneOrder(order domain.Order) domain.Order {
	dup := order
	if order.Items != nil {
		dup.Items = make([]domain.OrderLineItem, len(order.Items))
		copy(dup.Items, order.Items)
	}
	return dup
}
