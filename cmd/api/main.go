package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dejobratic/storefront/internal/cache"
	catalogadapters "github.com/dejobratic/storefront/internal/catalog/adapters"
	cataloghttp "github.com/dejobratic/storefront/internal/catalog/adapters/http"
	catalogmemory "github.com/dejobratic/storefront/internal/catalog/adapters/memory"
	catalogpostgres "github.com/dejobratic/storefront/internal/catalog/adapters/postgres"
	catalogredis "github.com/dejobratic/storefront/internal/catalog/adapters/redis"
	catalogapp "github.com/dejobratic/storefront/internal/catalog/app"
	catalogports "github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/dejobratic/storefront/internal/config"
	"github.com/dejobratic/storefront/internal/database"
	"github.com/dejobratic/storefront/internal/events"
	"github.com/dejobratic/storefront/internal/httpapi"
	idemmemory "github.com/dejobratic/storefront/internal/idempotency/memory"
	idempostgres "github.com/dejobratic/storefront/internal/idempotency/postgres"
	ordersadapters "github.com/dejobratic/storefront/internal/orders/adapters"
	ordershttp "github.com/dejobratic/storefront/internal/orders/adapters/http"
	ordersmemory "github.com/dejobratic/storefront/internal/orders/adapters/memory"
	orderspostgres "github.com/dejobratic/storefront/internal/orders/adapters/postgres"
	ordersapp "github.com/dejobratic/storefront/internal/orders/app"
	ordersdomain "github.com/dejobratic/storefront/internal/orders/domain"
	ordersmetrics "github.com/dejobratic/storefront/internal/orders/metrics"
	ordersports "github.com/dejobratic/storefront/internal/orders/ports"
	storefronthttp "github.com/dejobratic/storefront/internal/storefront/adapters/http"
	storefrontmemory "github.com/dejobratic/storefront/internal/storefront/adapters/memory"
	storefrontredis "github.com/dejobratic/storefront/internal/storefront/adapters/redis"
	storefrontapp "github.com/dejobratic/storefront/internal/storefront/app"
	storefrontmetrics "github.com/dejobratic/storefront/internal/storefront/metrics"
	storefrontports "github.com/dejobratic/storefront/internal/storefront/ports"
	"github.com/dejobratic/storefront/internal/telemetry"
	"github.com/dejobratic/storefront/migrations"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const eventStreamMaxLen = 10000

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := otel.Meter(cfg.Service.Name)
	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		return err
	}
	httpMetrics, err := httpapi.NewMetrics(meter)
	if err != nil {
		return err
	}
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		return err
	}
	sessionMetrics, err := storefrontmetrics.NewMetrics(meter)
	if err != nil {
		return err
	}
	eventMetrics, err := events.NewMetrics(meter)
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = database.NewPool(ctx, database.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return fmt.Errorf("create database pool: %w", err)
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			var source fs.FS = migrations.FS
			if cfg.Database.MigrationsPath != "" {
				source = os.DirFS(cfg.Database.MigrationsPath)
			}
			version, err := database.RunMigrations(cfg.Database.URL, source)
			if err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("database schema up to date", "version", version)
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var redisClient *cache.Client
	if cfg.Redis.Addr != "" {
		redisClient = cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisClient.Ping(ctx); err != nil {
			_ = redisClient.Close()
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn("REDIS_ADDR not set, caching catalog and sessions in process")
	}

	var (
		catalogRepo  catalogports.Repository
		catalogCache catalogports.Cache
		orderRepo    ordersports.OrderRepository
		idemStore    ordersports.IdempotencyStore
		sessions     storefrontports.SessionStore
		eventBus     ordersports.EventBus
	)

	if pool != nil {
		catalogRepo = catalogadapters.NewObservableRepository(catalogpostgres.NewRepository(pool), dbMetrics)
		orderRepo = ordersadapters.NewObservableRepository(orderspostgres.NewRepository(pool), dbMetrics)
		idemStore = idempostgres.NewStore(pool, cfg.Storefront.IdempotencyTTL)
	} else {
		catalogRepo = catalogmemory.NewRepository()
		orderRepo = ordersmemory.NewRepository()
		idemStore = idemmemory.NewStore(cfg.Storefront.IdempotencyTTL)
	}

	if redisClient != nil {
		catalogCache = catalogredis.NewCache(redisClient.Redis(), cfg.Redis.CatalogTTL)
		sessions = storefrontredis.NewSessionStore(redisClient.Redis(), cfg.Redis.SessionTTL)
		eventBus = events.NewStreamPublisher(redisClient.Redis(), eventStreamMaxLen)
	} else {
		catalogCache = catalogmemory.NewCache(cfg.Redis.CatalogTTL)
		sessions = storefrontmemory.NewSessionStore()
		eventBus = events.NewLogPublisher(logger)
	}
	eventBus = ordersadapters.NewObservableEventBus(eventBus, eventMetrics)

	catalogService := catalogapp.NewService(catalogRepo, catalogCache, logger)
	orderService := ordersapp.NewService(
		orderRepo,
		eventBus,
		idemStore,
		ordersdomain.NewInvoiceNumberGenerator(cfg.Storefront.InvoicePrefix),
		logger,
		orderMetrics,
	)
	sessionService := storefrontapp.NewService(sessions, catalogService, orderService, logger, sessionMetrics)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpapi.WithLogging(logger))
	r.Use(middleware.Recoverer)
	r.Use(httpapi.WithMetrics(httpMetrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]database.Pinger{}
		if pool != nil {
			checks["postgres"] = pool
		}
		if redisClient != nil {
			checks["redis"] = redisClient
		}
		for name, dep := range checks {
			if err := database.CheckHealth(r.Context(), dep); err != nil {
				httpapi.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "not ready",
					"check":  name,
					"error":  err.Error(),
				})
				return
			}
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	cataloghttp.NewHandler(catalogService).Register(r)
	storefronthttp.NewHandler(sessionService, orderService, cfg.Storefront.TransitionDelay).Register(r)
	ordershttp.NewHandler(
		orderService,
		cfg.Storefront.WhatsAppNumber,
		cfg.Storefront.DocumentPageSize,
		cfg.Storefront.AdminOrderPageSize,
	).Register(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           otelhttp.NewHandler(r, cfg.Service.Name),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
