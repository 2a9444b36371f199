package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lowkey-merch/storefront/internal/payments"
	"github.com/lowkey-merch/storefront/internal/platform/auth"
	"github.com/lowkey-merch/storefront/internal/platform/config"
	"github.com/lowkey-merch/storefront/internal/platform/observability"
	"github.com/lowkey-merch/storefront/internal/repositories"
	"github.com/lowkey-merch/storefront/internal/repositories/memory"
	"github.com/lowkey-merch/storefront/internal/services"
)

// Repositories bundles the storage contracts the service layer relies upon.
type Repositories struct {
	Catalog    repositories.CatalogRepository
	Carts      repositories.CartRepository
	Wishlist   repositories.WishlistRepository
	Users      repositories.UserRepository
	Sessions   repositories.SessionRepository
	Orders     repositories.OrderRepository
	ViewStates repositories.ViewStateRepository
	Health     repositories.HealthRepository
}

// Services bundles the service-layer contracts that handlers rely upon.
type Services struct {
	Catalog  services.CatalogService
	Cart     services.CartService
	Auth     services.AuthService
	View     services.ViewService
	Checkout services.CheckoutService
	Orders   services.OrderService
	System   services.SystemService
}

// Container wires repositories, services, payments, and authentication for runtime use.
type Container struct {
	Config        config.Config
	Repositories  Repositories
	Services      Services
	Payments      *payments.Manager
	Tokens        *auth.TokenIssuer
	Authenticator *auth.Authenticator
}

// NewMemoryRepositories assembles the in-memory storage layer seeded with the
// full product range. The health repository probes the catalog and order stores.
func NewMemoryRepositories() (Repositories, error) {
	catalog, err := memory.NewCatalogRepository(memory.DefaultCatalog())
	if err != nil {
		return Repositories{}, fmt.Errorf("di: seed catalog: %w", err)
	}

	orders := memory.NewOrderRepository()

	health, err := repositories.NewDependencyHealthRepository([]repositories.DependencyCheck{
		{
			Name: "catalog",
			Check: func(ctx context.Context) error {
				_, err := catalog.ListProducts(ctx, repositories.CatalogFilter{})
				return err
			},
		},
		{
			Name: "orders",
			Check: func(ctx context.Context) error {
				_, err := orders.ListByUser(ctx, "healthcheck")
				return err
			},
		},
	})
	if err != nil {
		return Repositories{}, fmt.Errorf("di: health repository: %w", err)
	}

	return Repositories{
		Catalog:    catalog,
		Carts:      memory.NewCartRepository(),
		Wishlist:   memory.NewWishlistRepository(),
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionRepository(),
		Orders:     orders,
		ViewStates: memory.NewViewStateRepository(),
		Health:     health,
	}, nil
}

// BuildInfo carries release metadata stamped at build time.
type BuildInfo struct {
	Version     string
	Environment string
	StartedAt   time.Time
}

// NewContainer constructs the runtime dependency graph from configuration and
// pre-built repositories. Tests can supply in-memory registries; production
// wiring goes through NewMemoryRepositories until an external store lands.
func NewContainer(ctx context.Context, cfg config.Config, repos Repositories, logger *zap.Logger, build BuildInfo) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if repos.Catalog == nil || repos.Carts == nil || repos.Users == nil ||
		repos.Sessions == nil || repos.Orders == nil || repos.ViewStates == nil {
		return nil, errors.New("di: repositories are incomplete")
	}

	eventLogger := observability.EventLogger(logger)

	tokens, err := auth.NewTokenIssuer(
		[]byte(cfg.Auth.TokenSecret),
		cfg.Auth.Issuer,
		auth.WithSessionTTL(cfg.Auth.SessionTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("di: token issuer: %w", err)
	}

	manager, err := buildPaymentManager(cfg.Payment, eventLogger)
	if err != nil {
		return nil, fmt.Errorf("di: payments: %w", err)
	}

	catalogSvc, err := services.NewCatalogService(services.CatalogServiceDeps{
		Repository: repos.Catalog,
		Logger:     eventLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("di: catalog service: %w", err)
	}

	cartSvc, err := services.NewCartService(services.CartServiceDeps{
		Repository: repos.Carts,
		Catalog:    repos.Catalog,
		Wishlist:   repos.Wishlist,
		Clock:      time.Now,
		Currency:   cfg.Payment.Currency,
		Logger:     eventLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("di: cart service: %w", err)
	}

	authSvc, err := services.NewAuthService(services.AuthServiceDeps{
		Users:    repos.Users,
		Sessions: repos.Sessions,
		Tokens:   tokens,
		Clock:    time.Now,
		Logger:   eventLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("di: auth service: %w", err)
	}

	viewSvc, err := services.NewViewService(services.ViewServiceDeps{
		Repository: repos.ViewStates,
		Catalog:    repos.Catalog,
		Clock:      time.Now,
		Logger:     eventLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("di: view service: %w", err)
	}

	checkoutSvc, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Carts:    cartSvc,
		Orders:   repos.Orders,
		Users:    repos.Users,
		Payments: manager,
		Provider: cfg.Payment.Provider,
		Currency: cfg.Payment.Currency,
		Clock:    time.Now,
		Logger:   eventLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("di: checkout service: %w", err)
	}

	orderSvc, err := services.NewOrderService(services.OrderServiceDeps{
		Repository: repos.Orders,
		Logger:     eventLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("di: order service: %w", err)
	}

	var systemSvc services.SystemService
	if repos.Health != nil {
		systemSvc, err = services.NewSystemService(services.SystemServiceDeps{
			HealthRepository: repos.Health,
			Build: services.BuildInfo{
				Version:     build.Version,
				Environment: build.Environment,
				StartedAt:   build.StartedAt,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("di: system service: %w", err)
		}
	}

	authenticator, err := auth.NewAuthenticator(tokens, authSvc)
	if err != nil {
		return nil, fmt.Errorf("di: authenticator: %w", err)
	}

	return &Container{
		Config:       cfg,
		Repositories: repos,
		Services: Services{
			Catalog:  catalogSvc,
			Cart:     cartSvc,
			Auth:     authSvc,
			View:     viewSvc,
			Checkout: checkoutSvc,
			Orders:   orderSvc,
			System:   systemSvc,
		},
		Payments:      manager,
		Tokens:        tokens,
		Authenticator: authenticator,
	}, nil
}

func buildPaymentManager(cfg config.PaymentConfig, logger payments.StripeLogger) (*payments.Manager, error) {
	providers := map[string]payments.Provider{
		"offline": payments.NewOfflineProvider(payments.OfflineProviderConfig{Logger: logger}),
	}

	if cfg.StripeAPIKey != "" {
		stripe, err := payments.NewStripeProvider(payments.StripeProviderConfig{
			APIKey: cfg.StripeAPIKey,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		providers["stripe"] = stripe
	}

	return payments.NewManager(providers, payments.WithDefaultProvider(cfg.Provider))
}
