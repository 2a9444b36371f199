package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// OfflineProviderConfig configures the OfflineProvider.
type OfflineProviderConfig struct {
	Logger      StripeLogger
	Clock       func() time.Time
	IDGenerator func() string
}

// OfflineProvider approves charges locally without contacting a payment
// network. It backs local development and test environments.
type OfflineProvider struct {
	mu      sync.Mutex
	charges map[string]PaymentDetails
	clock   func() time.Time
	newID   func() string
	logger  StripeLogger
}

// NewOfflineProvider constructs an OfflineProvider.
func NewOfflineProvider(cfg OfflineProviderConfig) *OfflineProvider {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := cfg.IDGenerator
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &OfflineProvider{
		charges: make(map[string]PaymentDetails),
		clock: func() time.Time {
			return clock().UTC()
		},
		newID:  newID,
		logger: logger,
	}
}

// Charge records an immediately captured payment.
func (p *OfflineProvider) Charge(ctx context.Context, req ChargeRequest) (PaymentDetails, error) {
	if p == nil {
		return PaymentDetails{}, errors.New("offline: provider is nil")
	}
	if req.Amount <= 0 {
		return PaymentDetails{}, errors.New("offline: charge amount must be positive")
	}

	now := p.clock()
	details := PaymentDetails{
		Provider:   "offline",
		Reference:  "off_" + p.newID(),
		Status:     StatusSucceeded,
		Amount:     req.Amount,
		Currency:   strings.ToUpper(req.Currency),
		Captured:   true,
		CapturedAt: &now,
	}

	p.mu.Lock()
	p.charges[details.Reference] = details
	p.mu.Unlock()

	p.logger(ctx, "payments.offline.charge.captured", map[string]any{
		"reference": details.Reference,
		"orderId":   req.OrderID,
		"amount":    req.Amount,
	})

	return details, nil
}

// LookupPayment returns a previously recorded charge.
func (p *OfflineProvider) LookupPayment(_ context.Context, reference string) (PaymentDetails, error) {
	if p == nil {
		return PaymentDetails{}, errors.New("offline: provider is nil")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	details, ok := p.charges[reference]
	if !ok {
		return PaymentDetails{}, fmt.Errorf("offline: unknown payment reference %q", reference)
	}
	return details, nil
}
