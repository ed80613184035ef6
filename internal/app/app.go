// Package app wires the storefront dependencies together and runs the server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart/store"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/catalog"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/config"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/event"
	handler "github.com/AdrielTeles97/nihon-auto-sub000/internal/handler/http"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/quote"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/quote/migrations"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/variation"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/database"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/health"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/httpclient"
	pkgkafka "github.com/AdrielTeles97/nihon-auto-sub000/pkg/kafka"
	"github.com/AdrielTeles97/nihon-auto-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Cart persistence. An unreachable Redis degrades to an in-memory store:
	// carts survive the session but not a restart, and the storefront stays up.
	var rdb *redis.Client
	var cartStore store.Store
	rdb, err = database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unreachable, carts will not survive restarts",
			slog.String("addr", cfg.RedisAddr()),
			slog.String("error", err.Error()),
		)
		rdb = nil
		cartStore = store.NewMemoryStore()
	} else {
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr()))
		cartStore = store.NewRedisStore(rdb, cfg.CartTTL())
	}

	// Quote storage is PostgreSQL; without it the storefront cannot fulfil
	// its purpose, so a connect failure is fatal.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "storefront")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Kafka producer and event publisher.
	var producer *pkgkafka.Producer
	var publisher *event.Publisher
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewPublisher(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// WooCommerce catalog client behind retry plus circuit breaker.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = time.Duration(cfg.CatalogTimeout) * time.Second
	catalogHTTP := httpclient.NewCircuitBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	catalogClient := catalog.NewClient(catalogHTTP,
		cfg.CatalogBaseURL, cfg.CatalogConsumerKey, cfg.CatalogConsumerSecret, logger)

	// Build the dependency graph.
	registry := cart.NewRegistry(cartStore, logger)
	quoteRepo := quote.NewRepository(pool)

	var quotePublisher quote.Publisher
	if publisher != nil {
		quotePublisher = publisher
	}
	quoteService := quote.NewService(quoteRepo, quotePublisher, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	var cartEvents handler.CartEvents
	if publisher != nil {
		cartEvents = publisher
	}

	router := handler.NewRouter(handler.RouterConfig{
		Catalog:            catalogClient,
		Registry:           registry,
		Quotes:             quoteService,
		Events:             cartEvents,
		Classifier:         variation.DefaultClassifier(),
		HealthHandler:      healthHandler,
		Logger:             logger,
		Environment:        cfg.Environment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CatalogCacheMaxAge: cfg.CatalogCacheMaxAge,
		PprofAllowedCIDRs:  cfg.PprofAllowedCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

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

	a.pool.Close()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
