package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

var (
	errViewRepositoryRequired = errors.New("view service: state repository is required")
	errViewCatalogRequired    = errors.New("view service: catalog repository is required")
	errViewClockRequired      = errors.New("view service: clock is required")
)

// ErrViewInvalidInput indicates the caller supplied invalid input.
var ErrViewInvalidInput = errors.New("view service: invalid input")

// ErrViewInvalidTransition indicates the requested navigation is not permitted from the current state.
var ErrViewInvalidTransition = errors.New("view service: invalid transition")

// ErrViewUnavailable indicates the view service cannot fulfil the request due to backend issues.
var ErrViewUnavailable = errors.New("view service: unavailable")

// ViewServiceDeps wires the repositories backing the navigation state machine.
type ViewServiceDeps struct {
	Repository repositories.ViewStateRepository
	Catalog    repositories.CatalogRepository
	Clock      func() time.Time
	Logger     func(context.Context, string, map[string]any)
}

type viewService struct {
	repo    repositories.ViewStateRepository
	catalog repositories.CatalogRepository
	now     func() time.Time
	logger  func(context.Context, string, map[string]any)
}

// NewViewService constructs a ViewService enforcing dependency validation.
func NewViewService(deps ViewServiceDeps) (ViewService, error) {
	if deps.Repository == nil {
		return nil, errViewRepositoryRequired
	}
	if deps.Catalog == nil {
		return nil, errViewCatalogRequired
	}
	if deps.Clock == nil {
		return nil, errViewClockRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &viewService{
		repo:    deps.Repository,
		catalog: deps.Catalog,
		now:     func() time.Time { return deps.Clock().UTC() },
		logger:  logger,
	}, nil
}

// GetState returns the current navigation state, minting the home state when absent.
func (s *viewService) GetState(ctx context.Context, sessionID string) (ViewState, error) {
	if s == nil || s.repo == nil {
		return ViewState{}, ErrViewUnavailable
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}
	return state, nil
}

// SelectProduct validates the product and navigates to its detail page.
func (s *viewService) SelectProduct(ctx context.Context, sessionID, productID string) (ViewState, error) {
	if s == nil || s.repo == nil {
		return ViewState{}, ErrViewUnavailable
	}

	id := strings.TrimSpace(productID)
	if id == "" {
		return ViewState{}, fmt.Errorf("%w: product id is required", ErrViewInvalidInput)
	}

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return ViewState{}, fmt.Errorf("%w: unknown product %q", ErrViewInvalidInput, id)
		}
		return ViewState{}, ErrViewUnavailable
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}

	state.Page = domain.PageProduct
	state.SelectedProductID = product.ID
	state.OrderID = ""

	return s.save(ctx, state)
}

// OpenOverlay raises the named overlay. Overlays are independent flags.
func (s *viewService) OpenOverlay(ctx context.Context, sessionID string, kind Overlay) (ViewState, error) {
	return s.setOverlay(ctx, sessionID, kind, true)
}

// CloseOverlay dismisses the named overlay without touching the others.
func (s *viewService) CloseOverlay(ctx context.Context, sessionID string, kind Overlay) (ViewState, error) {
	return s.setOverlay(ctx, sessionID, kind, false)
}

func (s *viewService) setOverlay(ctx context.Context, sessionID string, kind Overlay, open bool) (ViewState, error) {
	if s == nil || s.repo == nil {
		return ViewState{}, ErrViewUnavailable
	}

	if !domain.ValidOverlay(kind) {
		return ViewState{}, fmt.Errorf("%w: unknown overlay %q", ErrViewInvalidInput, kind)
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}

	switch kind {
	case domain.OverlaySearch:
		state.SearchOpen = open
	case domain.OverlayAuth:
		state.AuthOpen = open
	case domain.OverlayCart:
		state.CartOpen = open
	}

	return s.save(ctx, state)
}

// BeginCheckout closes the cart drawer and either enters checkout or raises the
// auth overlay when the caller is not authenticated.
func (s *viewService) BeginCheckout(ctx context.Context, sessionID string, authenticated bool) (ViewState, error) {
	if s == nil || s.repo == nil {
		return ViewState{}, ErrViewUnavailable
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}

	state.CartOpen = false
	if !authenticated {
		state.AuthOpen = true
		return s.save(ctx, state)
	}

	state.Page = domain.PageCheckout
	state.OrderID = ""

	return s.save(ctx, state)
}

// CompleteOrder moves from checkout to the confirmation page carrying the order reference.
func (s *viewService) CompleteOrder(ctx context.Context, sessionID, orderID string) (ViewState, error) {
	if s == nil || s.repo == nil {
		return ViewState{}, ErrViewUnavailable
	}

	id := strings.TrimSpace(orderID)
	if id == "" {
		return ViewState{}, fmt.Errorf("%w: order id is required", ErrViewInvalidInput)
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}

	if state.Page != domain.PageCheckout {
		return ViewState{}, fmt.Errorf("%w: order completion requires the checkout page", ErrViewInvalidTransition)
	}

	state.Page = domain.PageOrderConfirmation
	state.OrderID = id
	state.SelectedProductID = ""

	return s.save(ctx, state)
}

// NavigateTo switches between the freely reachable pages: home, limited, collabs.
func (s *viewService) NavigateTo(ctx context.Context, sessionID string, page Page) (ViewState, error) {
	if s == nil || s.repo == nil {
		return ViewState{}, ErrViewUnavailable
	}

	switch page {
	case domain.PageHome:
		return s.GoHome(ctx, sessionID)
	case domain.PageLimited, domain.PageCollabs:
	case domain.PageProduct, domain.PageCheckout, domain.PageOrderConfirmation:
		return ViewState{}, fmt.Errorf("%w: page %q requires its dedicated transition", ErrViewInvalidTransition, page)
	default:
		return ViewState{}, fmt.Errorf("%w: unknown page %q", ErrViewInvalidInput, page)
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}

	state.Page = page
	state.SelectedProductID = ""
	state.OrderID = ""

	return s.save(ctx, state)
}

// GoHome returns to the landing page from anywhere, clearing stale payloads.
func (s *viewService) GoHome(ctx context.Context, sessionID string) (ViewState, error) {
	if s == nil || s.repo == nil {
		return ViewState{}, ErrViewUnavailable
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}

	state.Page = domain.PageHome
	state.SelectedProductID = ""
	state.OrderID = ""

	return s.save(ctx, state)
}

func (s *viewService) loadState(ctx context.Context, sessionID string) (domain.ViewState, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return domain.ViewState{}, fmt.Errorf("%w: session id is required", ErrViewInvalidInput)
	}

	state, err := s.repo.Get(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.ViewState{
				SessionID: id,
				Page:      domain.PageHome,
				UpdatedAt: s.now(),
			}, nil
		}
		return domain.ViewState{}, ErrViewUnavailable
	}
	if !domain.ValidPage(state.Page) {
		state.Page = domain.PageHome
		state.SelectedProductID = ""
		state.OrderID = ""
	}
	return state, nil
}

func (s *viewService) save(ctx context.Context, state domain.ViewState) (ViewState, error) {
	if err := validateViewState(state); err != nil {
		return ViewState{}, err
	}

	state.UpdatedAt = s.now()
	saved, err := s.repo.Save(ctx, state)
	if err != nil {
		return ViewState{}, ErrViewUnavailable
	}

	s.logger(ctx, "view.transition", map[string]any{
		"sessionID": state.SessionID,
		"page":      string(state.Page),
	})

	return saved, nil
}

// validateViewState enforces the page payload invariants on every transition.
func validateViewState(state domain.ViewState) error {
	if !domain.ValidPage(state.Page) {
		return fmt.Errorf("%w: unknown page %q", ErrViewInvalidInput, state.Page)
	}
	if state.Page == domain.PageProduct && strings.TrimSpace(state.SelectedProductID) == "" {
		return fmt.Errorf("%w: product page requires a selected product", ErrViewInvalidTransition)
	}
	if state.Page == domain.PageOrderConfirmation && strings.TrimSpace(state.OrderID) == "" {
		return fmt.Errorf("%w: confirmation page requires an order reference", ErrViewInvalidTransition)
	}
	return nil
}
