package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/levelshop/backend/internal/application/admin"
	storefrontapp "github.com/levelshop/backend/internal/application/storefront"
	"github.com/levelshop/backend/internal/infrastructure/auth"
	"github.com/levelshop/backend/internal/infrastructure/cache"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/levelshop/backend/internal/infrastructure/logger"
	"github.com/levelshop/backend/internal/infrastructure/persistence"
	"github.com/levelshop/backend/internal/infrastructure/storage"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
	"github.com/levelshop/backend/internal/interfaces/http/handler"
	"github.com/levelshop/backend/internal/interfaces/http/middleware"
	"github.com/levelshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/levelshop/backend"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.ForEnvironment(cfg.App.Env, logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry providers are no-ops when disabled
	providers, err := telemetry.Setup(ctx, telemetry.Settings{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Metrics:           cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		Logs:              cfg.Telemetry.LogsEnabled,
		SpanProfiles:      cfg.Telemetry.ProfilingEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = providers.Tee(log)
	defer func() {
		_ = logger.Sync(log)
	}()

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerSettings{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServer,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.ProfilingUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingPassword,
		Profiles:          cfg.Telemetry.ProfilingTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	meter := providers.Meter(instrumentationName)
	storeMetrics, err := telemetry.NewStoreMetrics(meter)
	if err != nil {
		log.Warn("Store metrics unavailable", zap.Error(err))
	}

	// Store client; a missing or unreachable store only degrades reads
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Store.SlowQuery),
		logger.WithIgnoreRecordNotFoundError(true),
		logger.WithParameterizedQueries(cfg.App.Env == "production"),
	)
	db, err := persistence.NewDatabase(cfg.Store, log, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to create store client", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem: db.Driver,
	}, log); err != nil {
		log.Warn("Failed to register store tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meter, telemetry.DBMetricsConfig{
		Enabled:   cfg.Telemetry.MetricsEnabled,
		SlowQuery: cfg.Store.SlowQuery,
	}, log)
	if err != nil {
		log.Warn("Database metrics unavailable", zap.Error(err))
	}

	// Services
	svcOpts := []storefrontapp.Option{
		storefrontapp.WithLogger(log),
		storefrontapp.WithMetrics(storeMetrics),
	}
	accountService := storefrontapp.NewAccountService(persistence.NewGormAccountRepository(db.DB), svcOpts...)
	bannerService := storefrontapp.NewBannerService(persistence.NewGormBannerRepository(db.DB), svcOpts...)
	newsService := storefrontapp.NewNewsService(persistence.NewGormNewsRepository(db.DB), svcOpts...)
	termsService := storefrontapp.NewTermsService(persistence.NewGormTermsRepository(db.DB), svcOpts...)
	purchaseService := storefrontapp.NewPurchaseService(accountService, cfg.Purchase.WhatsAppNumber)

	imageStorage, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	mediaService := storefrontapp.NewMediaService(imageStorage, cfg.Storage.PresignExpiration, svcOpts...)

	// Admin auth
	revocations, err := cache.NewRevocationStore(ctx, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize token revocation store", zap.Error(err))
	}
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := admin.NewAuthService(cfg.Admin, jwtService, revocations, log)
	log.Info("Admin sign-in enabled",
		zap.String("username", cfg.Admin.Username),
		zap.Duration("session_lifetime", jwtService.Expiration()),
	)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Logger: log,
		Meter:  meter,
	})

	guards := router.Guards{AdminAuth: middleware.AdminAuth(authService)}
	if cfg.HTTP.LoginRateLimit > 0 {
		limiter := middleware.NewRateLimiter(ctx, cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
		guards.LoginLimit = middleware.RateLimit(limiter)
		log.Info("Login rate limiting enabled",
			zap.Int("requests", cfg.HTTP.LoginRateLimit),
			zap.Duration("window", cfg.HTTP.LoginRateWindow),
		)
	}

	groups := router.Mount(engine, router.Handlers{
		Storefront: handler.NewStorefrontHandler(accountService, purchaseService, bannerService, newsService, termsService),
		Admin:      handler.NewAdminHandler(accountService, bannerService, newsService, termsService, mediaService),
		Auth:       handler.NewAuthHandler(authService),
		Health:     handler.NewHealthHandler(db, telemetry.ServiceVersion),
	}, guards)
	for _, group := range groups {
		log.Debug("Mounted route group",
			zap.String("group", group.Name()),
			zap.Int("routes", len(group.Routes())),
			zap.Bool("admin_only", group.Guarded()),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	dbMetrics.Stop()
	if err := db.Close(); err != nil {
		log.Error("Error closing store", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
