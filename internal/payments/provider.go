package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status enumerates the normalised payment states shared across providers.
type Status string

const (
	// StatusPending indicates the payment is awaiting confirmation.
	StatusPending Status = "pending"
	// StatusSucceeded indicates the payment has been captured.
	StatusSucceeded Status = "succeeded"
	// StatusFailed indicates the payment failed and no further action is possible.
	StatusFailed Status = "failed"
)

// ErrUnsupportedProvider is returned when the manager cannot locate a provider.
var ErrUnsupportedProvider = errors.New("payments: unsupported provider")

// ChargeLineItem describes a single order line submitted with a charge.
type ChargeLineItem struct {
	Name     string
	Size     string
	Quantity int64
	Amount   int64
	Currency string
}

// ChargeRequest captures the payload required to charge for an order.
type ChargeRequest struct {
	OrderID        string
	Amount         int64
	Currency       string
	CustomerEmail  string
	Locale         string
	Metadata       map[string]string
	IdempotencyKey string
	Items          []ChargeLineItem
}

// PaymentDetails normalises provider specific fields for storage on the order.
type PaymentDetails struct {
	Provider   string
	Reference  string
	Status     Status
	Amount     int64
	Currency   string
	Captured   bool
	CapturedAt *time.Time
}

// Provider defines the contract payment adapters implement.
type Provider interface {
	Charge(ctx context.Context, req ChargeRequest) (PaymentDetails, error)
	LookupPayment(ctx context.Context, reference string) (PaymentDetails, error)
}

// Manager coordinates provider selection and exposes the aggregated interface.
type Manager struct {
	providers       map[string]Provider
	defaultProvider string
}

// ManagerOption configures optional behaviour when building a Manager.
type ManagerOption func(*Manager)

// WithDefaultProvider overrides the provider used when no preference is given.
func WithDefaultProvider(provider string) ManagerOption {
	return func(m *Manager) {
		m.defaultProvider = strings.TrimSpace(strings.ToLower(provider))
	}
}

// NewManager constructs a Manager over the supplied providers.
func NewManager(providers map[string]Provider, opts ...ManagerOption) (*Manager, error) {
	if len(providers) == 0 {
		return nil, errors.New("payments: at least one provider is required")
	}
	copyMap := make(map[string]Provider, len(providers))
	for k, v := range providers {
		key := strings.TrimSpace(strings.ToLower(k))
		if key == "" || v == nil {
			return nil, fmt.Errorf("payments: invalid provider registration for key %q", k)
		}
		copyMap[key] = v
	}
	m := &Manager{
		providers: copyMap,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) resolveProvider(preferred string) (string, Provider, error) {
	if m == nil {
		return "", nil, errors.New("payments: manager is nil")
	}
	if len(m.providers) == 0 {
		return "", nil, errors.New("payments: no providers registered")
	}
	if provider := strings.TrimSpace(strings.ToLower(preferred)); provider != "" {
		if p, ok := m.providers[provider]; ok {
			return provider, p, nil
		}
	}
	if def := m.defaultProvider; def != "" {
		if p, ok := m.providers[def]; ok {
			return def, p, nil
		}
	}
	if len(m.providers) == 1 {
		for key, p := range m.providers {
			return key, p, nil
		}
	}
	return "", nil, ErrUnsupportedProvider
}

// Charge delegates to the resolved provider.
func (m *Manager) Charge(ctx context.Context, preferred string, req ChargeRequest) (PaymentDetails, error) {
	key, provider, err := m.resolveProvider(preferred)
	if err != nil {
		return PaymentDetails{}, err
	}
	details, err := provider.Charge(ctx, req)
	if err != nil {
		return PaymentDetails{}, err
	}
	details.Provider = key
	return details, nil
}

// LookupPayment delegates to the resolved provider.
func (m *Manager) LookupPayment(ctx context.Context, preferred, reference string) (PaymentDetails, error) {
	key, provider, err := m.resolveProvider(preferred)
	if err != nil {
		return PaymentDetails{}, err
	}
	details, err := provider.LookupPayment(ctx, reference)
	if err != nil {
		return PaymentDetails{}, err
	}
	if details.Provider == "" {
		details.Provider = key
	}
	return details, nil
}
