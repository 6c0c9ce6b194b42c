package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/returnhub/backend/internal/application/inventory"
	returnsapp "github.com/returnhub/backend/internal/application/returns"
	"github.com/returnhub/backend/internal/infrastructure/auth"
	"github.com/returnhub/backend/internal/infrastructure/cache"
	"github.com/returnhub/backend/internal/infrastructure/config"
	"github.com/returnhub/backend/internal/infrastructure/event"
	"github.com/returnhub/backend/internal/infrastructure/logger"
	"github.com/returnhub/backend/internal/infrastructure/persistence"
	"github.com/returnhub/backend/internal/interfaces/http/handler"
	"github.com/returnhub/backend/internal/interfaces/http/middleware"
	"github.com/returnhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ReturnHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	unitRepo := persistence.NewGormUnitRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	supervisorGate := auth.NewBcryptSupervisorGate(cfg.Supervisor)
	operators := auth.NewOperatorRegistry(cfg.Auth)
	if len(cfg.Auth.Operators) == 0 {
		log.Warn("No operators configured, login is locked")
	}

	eventBus := event.NewInMemoryEventBus(log)

	// Optional Redis cache for the derived ledger
	var ledgerCache inventoryapp.LedgerCache
	var redisCache *cache.RedisLedgerCache
	if cfg.Ledger.CacheEnabled {
		redisCache, err = cache.NewRedisLedgerCache(cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		ledgerCache = redisCache
		log.Info("Ledger cache enabled",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Duration("ttl", cfg.Ledger.CacheTTL),
		)
	}

	unitService := returnsapp.NewUnitService(unitRepo, supervisorGate)
	gradingService := returnsapp.NewGradingService(unitRepo)
	batchService := returnsapp.NewBatchService(unitRepo, returnsapp.TaxPolicy{
		VATRate:    decimal.NewFromFloat(cfg.Tax.VATRate),
		VATEnabled: cfg.Tax.VATEnabled,
	})
	ledgerService := inventoryapp.NewLedgerService(unitRepo, ledgerCache, cfg.Ledger.CacheTTL)

	// Inject event bus into services that publish events
	unitService.SetEventPublisher(eventBus)
	gradingService.SetEventPublisher(eventBus)
	batchService.SetEventPublisher(eventBus)

	// Keep the cached ledger coherent with unit changes
	if ledgerCache != nil {
		invalidator := inventoryapp.NewCacheInvalidator(ledgerCache)
		eventBus.Subscribe(invalidator, invalidator.EventTypes()...)
	}

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	unitHandler := handler.NewUnitHandler(unitService)
	gradingHandler := handler.NewGradingHandler(gradingService)
	groupHandler := handler.NewGroupHandler(unitService)
	batchHandler := handler.NewBatchHandler(batchService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	authHandler := handler.NewAuthHandler(jwtService, operators)
	systemHandler := handler.NewSystemHandler()
	healthHandler := handler.NewHealthHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Request ID first so recovery and request logs can tag entries;
	// rate limiting last so rejected requests still get logged.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health probes (outside API versioning)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// JWT authentication for the protected domain groups
	authMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.ReturnsRoutes(unitHandler, gradingHandler, groupHandler, batchHandler, authMiddleware)).
		Register(handler.LedgerRoutes(ledgerHandler, authMiddleware)).
		Register(handler.AuthRoutes(authHandler)).
		Register(handler.SystemRoutes(systemHandler))
	r.Setup()

	// Unauthenticated ping under the API prefix for load balancer checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
