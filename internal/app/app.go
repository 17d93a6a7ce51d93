package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/orderup-cart/internal/config"
	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/event"
	handler "github.com/nikolayk812/orderup-cart/internal/handler/http"
	"github.com/nikolayk812/orderup-cart/internal/health"
	"github.com/nikolayk812/orderup-cart/internal/httpclient"
	"github.com/nikolayk812/orderup-cart/internal/metrics"
	"github.com/nikolayk812/orderup-cart/internal/order"
	"github.com/nikolayk812/orderup-cart/internal/port"
	"github.com/nikolayk812/orderup-cart/internal/repository"
	redisrepo "github.com/nikolayk812/orderup-cart/internal/repository/redis"
	"github.com/nikolayk812/orderup-cart/internal/session"
	"github.com/nikolayk812/orderup-cart/internal/tenant"
)

// App wires together all dependencies and runs the cart service.
type App struct {
	logger     *slog.Logger
	rdb        *redis.Client
	pool       *pgxpool.Pool
	producer   *event.Producer
	httpServer *http.Server
}

// NewApp connects to the configured cart store and builds the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pricing, err := cfg.Pricing()
	if err != nil {
		return nil, fmt.Errorf("cfg.Pricing: %w", err)
	}
	policy, err := domain.ParseMergePolicy(cfg.MergePolicy)
	if err != nil {
		return nil, fmt.Errorf("domain.ParseMergePolicy: %w", err)
	}

	a := &App{logger: logger}
	healthHandler := health.NewHandler()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	repo, err := a.connectStore(connectCtx, cfg, pricing.Currency, healthHandler)
	if err != nil {
		a.close()
		return nil, err
	}

	var events port.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		a.producer = event.NewProducer(cfg.KafkaBrokers, logger)
		events = a.producer
		healthHandler.Register("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no kafka brokers configured, checkout events are disabled")
	}

	m := metrics.New(httpclient.Collectors()...)
	orders := order.NewClient(newOrderDoer(cfg, logger), cfg.OrderServiceURL, logger)

	sessions := session.NewManager(repo, orders, events, pricing, policy, m, logger)
	router := handler.NewRouter(sessions, tenant.NewResolver(cfg.DefaultTenant), healthHandler, m, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("cart service configured",
		slog.String("store", cfg.Store),
		slog.String("merge_policy", policy.String()),
		slog.String("tax_rate", pricing.TaxRate.String()),
		slog.String("delivery_fee", pricing.DeliveryFee.String()),
		slog.String("currency", pricing.Currency.String()),
	)

	return a, nil
}

func (a *App) connectStore(ctx context.Context, cfg *config.Config, cur currency.Unit, h *health.Handler) (port.CartRepository, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.pool = pool

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		h.Register("postgres", pool.Ping)
		a.logger.Info("connected to Postgres")

		return repository.NewCart(pool, cur), nil

	default:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		a.rdb = rdb

		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		h.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		a.logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

		return redisrepo.NewCartRepository(rdb, time.Duration(cfg.CartTTL)*time.Hour), nil
	}
}

// newOrderDoer builds the retrying, circuit-broken client for the order
// service. While the breaker is open callers get a 503 without a network call.
func newOrderDoer(cfg *config.Config, logger *slog.Logger) order.HTTPDoer {
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = time.Duration(cfg.OrderTimeoutSeconds) * time.Second

	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "order-service",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}

	return httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg), cbCfg, logger).
		WithFallback(orderServiceUnavailable)
}

func orderServiceUnavailable(_ context.Context, _ error) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"detail":"temporarily unavailable, try again later"}`)),
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.close()
		return err
	}

	return a.Shutdown()
}

// Shutdown drains the HTTP server for up to 10 seconds, then closes clients.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.close()

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
