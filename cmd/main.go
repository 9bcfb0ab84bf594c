package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/lumenwell/lumen-notification-triage/internal/config"
	"github.com/lumenwell/lumen-notification-triage/internal/handler"
	"github.com/lumenwell/lumen-notification-triage/internal/health"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/decisionrecorder"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/prefstore"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/repository"
	"github.com/lumenwell/lumen-notification-triage/internal/infra/scorer"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/logging"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/metrics"
	"github.com/lumenwell/lumen-notification-triage/internal/observability/middleware"
	"github.com/lumenwell/lumen-notification-triage/internal/service/bundle"
	"github.com/lumenwell/lumen-notification-triage/internal/service/classify"
	"github.com/lumenwell/lumen-notification-triage/internal/service/contextres"
	"github.com/lumenwell/lumen-notification-triage/internal/service/dispatch"
	"github.com/lumenwell/lumen-notification-triage/internal/service/filter"
	"github.com/lumenwell/lumen-notification-triage/internal/service/queue"
	"github.com/lumenwell/lumen-notification-triage/internal/service/triage"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.Gateway.Validate(); err != nil {
		slog.Error("delivery gateway configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	triageMetrics, err := metrics.NewTriageMetrics()
	if err != nil {
		slog.Error("failed to initialize triage metrics", slog.String("error", err.Error()))
		return 1
	}

	// Decision audit recorder (InfluxDB, noop when unconfigured)
	recorderCfg := decisionrecorder.LoadConfig()
	recorder, err := decisionrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize decision recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close decision recorder", slog.String("error", err.Error()))
		}
	}()

	// Delivery gateway (platform-specific)
	gw, cleanup, err := initGateway(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize delivery gateway", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("delivery gateway cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	prefs, err := prefstore.NewSQLiteStore(cfg.Preferences.DBPath)
	if err != nil {
		slog.Error("failed to open preferences store",
			slog.String("path", cfg.Preferences.DBPath),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			slog.Warn("failed to close preferences store", slog.String("error", err.Error()))
		}
	}()

	queueStore := repository.NewQueueStore(redisClient)
	bundleStore := repository.NewBundleStore(redisClient)
	dedupStore := repository.NewDedupStore(redisClient)

	var remoteScorer scorer.Scorer
	if cfg.Classifier.ModelURL != "" {
		remoteScorer = scorer.NewClient(cfg.Classifier.ModelURL)
		slog.Info("remote scorer configured",
			slog.String("url", cfg.Classifier.ModelURL),
		)
	}

	classifier := classify.NewClassifier(cfg.Classifier, remoteScorer, triageMetrics)
	resolver := contextres.NewResolver(prefs, cfg.Schedule)
	decisionFilter := filter.New(cfg.Filter)
	queues := queue.NewManager(queueStore, cfg.Queue, triageMetrics)
	bundler := bundle.NewBundler(bundleStore, cfg.Bundle, triageMetrics)

	triageService := triage.NewService(
		classifier,
		resolver,
		decisionFilter,
		queues,
		bundler,
		gw,
		dedupStore,
		recorder,
		triageMetrics,
	)
	dispatcher := dispatch.NewDispatcher(queues, bundler, gw, cfg.Dispatch, triageMetrics)

	ingestHandler := handler.NewIngestHandler(triageService)
	queueHandler := handler.NewQueueHandler(queues, bundler)
	prefsHandler := handler.NewPreferencesHandler(prefs)
	dispatchHandler := handler.NewDispatchHandler(dispatcher)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:      logging.Module("notification-triage"),
		TracerName:  "github.com/lumenwell/lumen-notification-triage/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, prefs.DB(), Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/notifications", ingestHandler.HandleIngest)
		v1.POST("/notifications/batch", ingestHandler.HandleIngestBatch)
		v1.GET("/users/:user_id/queue", queueHandler.HandleQueueSnapshot)
		v1.GET("/users/:user_id/queue/:entry_id", queueHandler.HandleQueueEntry)
		v1.DELETE("/users/:user_id/queue/:entry_id", queueHandler.HandleCancel)
		v1.GET("/users/:user_id/bundles", queueHandler.HandleBundles)
		v1.GET("/users/:user_id/bundles/:key", queueHandler.HandleBundleByKey)
		v1.GET("/users/:user_id/preferences", prefsHandler.HandleGet)
		v1.PUT("/users/:user_id/preferences", prefsHandler.HandlePut)
		v1.POST("/users/:user_id/context", prefsHandler.HandleOverride)
		v1.POST("/dispatch/run", dispatchHandler.HandleRun)
	}

	if cfg.Dispatch.LoopDisabled {
		slog.Info("background dispatch loop disabled")
	} else {
		go dispatcher.Run(ctx)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Duration("dispatch_interval", cfg.Dispatch.Interval),
			slog.Int("queue_max_size", cfg.Queue.MaxSize),
			slog.Int("bundle_size_threshold", cfg.Bundle.SizeThreshold),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		if err := recorder.Flush(shutdownCtx); err != nil {
			slog.Warn("failed to flush decision recorder", slog.String("error", err.Error()))
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
