package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/coupon"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	limiterSweepInterval = time.Minute
	limiterIdleAfter     = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			return err
		}
	}

	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	orderRepo := order.NewRepository(database)

	var publisher checkout.EventPublisher
	if cfg.EventsEnabled {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			return err
		}
		pub, err := events.NewPublisher(ch, events.NewSequenceRepository(database), logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := pub.Close(); err != nil {
				logger.Warn("publisher close error", zap.Error(err))
			}
		}()
		publisher = pub
	} else {
		logger.Info("event publishing disabled")
	}

	h := httpapi.NewHandler(httpapi.Deps{
		Catalog:       catalog.NewPostgresRepository(pool),
		Orders:        orderRepo,
		Carts:         cart.NewRepository(database),
		Coupons:       coupon.NewRepository(database),
		Checkout:      checkout.NewSubmitter(orderRepo, publisher, logger),
		Log:           logger,
		Timeout:       cfg.RequestTimeout,
		CurrencyLabel: cfg.CurrencyLabel,
	})

	var limiter *middleware.RateLimiter
	if cfg.CheckoutRateRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.CheckoutRateRPS, cfg.CheckoutRateBurst)
		go limiter.Run(ctx, limiterSweepInterval, limiterIdleAfter)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(h, logger, cfg.CORSAllowOrigins, limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}
	return nil
}
