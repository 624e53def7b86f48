package main

import (
	"fmt"
	"net/http"
	"os"

	"stocklab/internal/config"
	"stocklab/internal/database"
	"stocklab/internal/handlers"
	"stocklab/internal/logger"
	"stocklab/internal/metrics"
	"stocklab/internal/middleware"
	"stocklab/internal/provider"
	"stocklab/internal/services"
	"stocklab/internal/staleness"
	"stocklab/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize vendor gateway and pipeline collaborators
	gatewayOpts := []provider.YahooOption{
		provider.WithBaseURL(appConfig.VendorBaseURL),
		provider.WithRateLimit(appConfig.VendorRateLimit),
	}
	if appConfig.StatementCadence == "quarterly" {
		gatewayOpts = append(gatewayOpts, provider.WithQuarterlyStatements())
	}
	gateway := provider.NewYahooGateway(&http.Client{Timeout: appConfig.VendorTimeout}, gatewayOpts...)

	policy := staleness.NewPolicy(appConfig.PriceMaxAge, appConfig.QuarterlyMaxAge, appConfig.AnnualMaxAge)
	engine := metrics.NewEngine(appConfig.MetricsWindow, appConfig.MinObservations, appConfig.PeriodsPerYear)

	// Initialize services
	db := dbManager.DB()
	stockService := services.NewStockService(db)
	refreshService := services.NewRefreshService(db, gateway, policy, engine, services.RefreshOptions{
		StatementCadence: appConfig.StatementCadence,
		MarketIndex:      appConfig.MarketIndex,
		HistoryRange:     appConfig.HistoryRange,
		Workers:          appConfig.RefreshWorkers,
	})
	optionService := services.NewOptionService(db, gateway)
	valuationService := services.NewValuationService(stockService, optionService)

	// Initialize handlers
	stockHandler := handlers.NewStockHandler(stockService, refreshService)
	optionHandler := handlers.NewOptionHandler(optionService, valuationService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Stock routes
	stocks := v1.Group("/stocks")
	stocks.GET("", stockHandler.ListStocks)
	stocks.POST("/refresh", stockHandler.RefreshBatch)
	stocks.GET("/:ticker", stockHandler.GetStock)
	stocks.POST("/:ticker/refresh", stockHandler.Refresh)
	stocks.GET("/:ticker/metrics", stockHandler.GetMetrics)
	stocks.GET("/:ticker/statements/:kind", stockHandler.GetStatement)
	stocks.POST("/:ticker/options/sync", optionHandler.SyncOptions)

	// Option routes
	options := v1.Group("/options")
	options.GET("", optionHandler.ListOptions)
	options.POST("/value", optionHandler.ValueOption)
	options.GET("/:symbol", optionHandler.GetOption)
	options.POST("/:symbol/value", optionHandler.ValueStoredOption)

	log.Infof("Starting stocklab API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
