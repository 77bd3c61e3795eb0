package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apporders "github.com/orderdesk/backend/internal/application/orders"
	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/orderdesk/backend/internal/infrastructure/cache"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/orderdesk/backend/internal/infrastructure/logger"
	"github.com/orderdesk/backend/internal/infrastructure/sheets"
	"github.com/orderdesk/backend/internal/interfaces/http/handler"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
	"github.com/orderdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting order tracking backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to the spreadsheet backend. A failure here is not fatal:
	// the server comes up degraded, the health endpoint reports it,
	// and data endpoints answer 503 until a restart fixes the cause.
	rowCache := cache.NewRowCache(cfg.Cache.TTL)
	var repo orders.Repository
	sheetsClient, err := sheets.New(context.Background(), cfg.Sheets, rowCache, log)
	if err != nil {
		log.Error("Spreadsheet backend initialization failed, serving degraded",
			zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID),
			zap.Error(err),
		)
	} else {
		repo = sheetsClient
	}

	// Double-submit guard
	factoryOpts := []cache.DedupStoreFactoryOption{
		cache.WithWindow(cfg.Dedup.Window),
	}
	if cfg.Dedup.Backend == "redis" {
		factoryOpts = append(factoryOpts,
			cache.WithRedis(cache.RedisConfig{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}),
			cache.WithInMemoryFallback(),
		)
	}
	dedupStore, err := cache.NewDedupStoreFactory(log, factoryOpts...).Create()
	if err != nil {
		log.Fatal("Failed to create dedup store", zap.Error(err))
	}
	defer func() {
		_ = dedupStore.Close()
	}()

	// Application services
	orderSvc := apporders.NewOrderService(repo, dedupStore, cfg.Dedup.Horizon, log)
	reportSvc := apporders.NewReportService(repo, log)
	dispatchSvc := apporders.NewDispatchService(repo, log)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsCfg))

	var rateLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		rateLimit = middleware.RateLimit(limiter)
	}

	// Routes
	router.NewRouter(engine).
		Register(handler.NewSystemHandler(repo != nil)).
		Register(handler.NewOrderHandler(orderSvc, reportSvc, rateLimit)).
		Register(handler.NewReportHandler(reportSvc, rateLimit)).
		Register(handler.NewDispatchHandler(dispatchSvc, reportSvc)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
