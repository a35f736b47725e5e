package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/FlorisRimb/AI-Agent-Xiatech/config"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/handlers"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/http/ratelimit"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/ledger"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/middleware"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/mirror"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/session"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting restock agent")

	ctx := context.Background()

	cleanup := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	backendURL := config.GetBackendURL()
	if backendURL == "" {
		logger.Fatal().Msg("BACKEND_URL not set")
	}

	client := backend.NewClient(backendURL, ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
		MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
	}, cfg.Backend.Timeout)

	store := mirror.New(client, mirror.Config{
		Interval:          cfg.Refresh.Interval,
		LowStockThreshold: cfg.Refresh.LowStockThreshold,
	}, logger)
	go store.Start(ctx)

	sessions := session.NewManager(ctx, client, store, session.Config{
		AnalysisDelay: cfg.Session.AnalysisDelay,
		HistoryLimit:  cfg.Session.HistoryLimit,
		MaxEvents:     cfg.Session.MaxEvents,
	}, logger)

	orders := ledger.New(client, sessions, store, sessions.Events(), logger)

	stockConfig := stock.Config{
		RelevantOnHandThreshold: cfg.Stock.RelevantOnHandThreshold,
		LowStockThreshold:       cfg.Refresh.LowStockThreshold,
	}

	handlers.Init(store, sessions, orders, client, stockConfig)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware())
	{
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("", handlers.Dashboard)
			dashboard.GET("/summary", handlers.Summary)
		}

		stocks := api.Group("/stocks")
		{
			stocks.GET("/comparison", handlers.StockComparison)
			stocks.GET("/comparison/export", handlers.ExportStockComparison)
		}

		sessionRoutes := api.Group("/sessions")
		{
			sessionRoutes.POST("", handlers.ActivateSession)
			sessionRoutes.GET("/current", handlers.SessionState)
			sessionRoutes.GET("/events", handlers.SessionEvents)
		}

		orderRoutes := api.Group("/orders")
		{
			orderRoutes.GET("", handlers.ListOrders)
			orderRoutes.POST("/receive-all-pending", handlers.ReceiveOrders)
		}

		products := api.Group("/products")
		{
			products.PUT("/:sku", handlers.UpdateProduct)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	store.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "restock-agent").Logger()
	return &logger
}
