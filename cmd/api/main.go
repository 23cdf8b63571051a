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

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/progression"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Cancelled on SIGINT or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// Repositories
	var productRepo repository.ProductRepository = repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	jobRepo := repository.NewStatusJobRepository(logger)

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, catalogue cache will fall through to postgres")
		}
		productRepo = repository.NewCachedProductRepository(productRepo, client, cfg.Redis.CacheTTL, logger)
	}

	publisher, err := newPublisher(cfg.AMQP, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if err := seedCatalog(ctx, cfg, productRepo, logger); err != nil {
		return err
	}

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	progressor := progression.New(orderRepo, jobRepo, publisher, cfg.Progression, logger)

	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, progressor, publisher, logger)
	authService := service.NewAuthService(userRepo, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, logger)

	if cfg.Auth.SeedDemoUser {
		if err := authService.SeedDemoUser(ctx); err != nil {
			return fmt.Errorf("failed to seed demo user: %w", err)
		}
	}

	mux := router.New(router.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Auth:     handler.NewAuthHandler(authService, logger),
	}, tokens, cfg.Server.CORSAllowedOrigin, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return progressor.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("server shutdown completed")
	return nil
}

// newPublisher connects to the broker when enabled and otherwise logs events.
func newPublisher(cfg config.AMQPConfig, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.Enabled {
		logger.Info().Msg("AMQP disabled, order events will be logged only")
		return events.NewLogPublisher(logger), nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	return publisher, nil
}

// seedCatalog fills the catalogue from the configured seed file, reading it
// from S3 first when enabled.
func seedCatalog(ctx context.Context, cfg *config.Config, store catalog.ProductWriter, logger zerolog.Logger) error {
	var loader catalog.Loader = catalog.NewFileLoader(logger)

	if cfg.S3.Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, loader, cfg.S3.Prefix, logger)
		}
	}

	if err := catalog.NewSeeder(loader, store, logger).Seed(ctx, cfg.Catalog.SeedFile); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}
	return nil
}
