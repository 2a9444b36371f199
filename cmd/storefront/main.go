package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lowkey-merch/storefront/internal/di"
	"github.com/lowkey-merch/storefront/internal/handlers"
	"github.com/lowkey-merch/storefront/internal/platform/config"
	"github.com/lowkey-merch/storefront/internal/platform/idempotency"
	"github.com/lowkey-merch/storefront/internal/platform/observability"
)

// Build metadata stamped via -ldflags at release time.
var (
	version     = "dev"
	environment = "local"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := di.NewMemoryRepositories()
	if err != nil {
		return fmt.Errorf("build repositories: %w", err)
	}

	container, err := di.NewContainer(ctx, cfg, repos, logger, di.BuildInfo{
		Version:     version,
		Environment: environment,
		StartedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}

	idemStore := idempotency.NewMemoryStore()
	idemMiddleware := idempotency.Middleware(idemStore,
		idempotency.WithHeader(cfg.Idempotency.Header),
		idempotency.WithTTL(cfg.Idempotency.TTL),
		idempotency.WithLogger(observability.NewPrintfAdapter(logger)),
	)
	go runIdempotencyCleanup(ctx, idemStore, cfg.Idempotency, logger)

	authn := container.Authenticator
	svc := container.Services

	cartHandlers := handlers.NewCartHandlers(authn, svc.Cart)

	routerOpts := []handlers.Option{
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
			handlers.BrowseSessionMiddleware(),
		),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(svc.System)),
		handlers.WithCatalogRoutes(handlers.NewCatalogHandlers(svc.Catalog).Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithCartMiddlewares(idemMiddleware),
		handlers.WithAuthRoutes(handlers.NewAuthHandlers(svc.Auth).Routes),
		handlers.WithViewRoutes(handlers.NewViewHandlers(svc.View, authn).Routes),
		handlers.WithCheckoutRoutes(handlers.NewCheckoutHandlers(authn, svc.Checkout, svc.View).Routes),
		handlers.WithCheckoutMiddlewares(idemMiddleware),
		handlers.WithOrderRoutes(handlers.NewOrderHandlers(authn, svc.Orders).Routes),
	}
	if cfg.Features.EnableWishlist {
		routerOpts = append(routerOpts, handlers.WithWishlistRoutes(cartHandlers.WishlistRoutes))
	}

	router := handlers.NewRouter(routerOpts...)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("version", version),
			zap.String("environment", environment),
			zap.String("payment_provider", cfg.Payment.Provider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// runIdempotencyCleanup periodically purges expired idempotency records until
// the context is cancelled.
func runIdempotencyCleanup(ctx context.Context, store *idempotency.MemoryStore, cfg config.IdempotencyConfig, logger *zap.Logger) {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := store.CleanupExpired(ctx, now.UTC(), cfg.CleanupBatchSize)
			if err != nil {
				logger.Warn("idempotency cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Debug("idempotency records purged", zap.Int("removed", removed))
			}
		}
	}
}
