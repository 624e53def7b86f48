// Command refreshd runs the acquisition pipeline on a schedule, keeping
// every stored ticker within its staleness budget without the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stocklab/internal/config"
	"stocklab/internal/database"
	"stocklab/internal/logger"
	"stocklab/internal/metrics"
	"stocklab/internal/provider"
	"stocklab/internal/services"
	"stocklab/internal/staleness"

	"github.com/robfig/cron/v3"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

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

	refreshService := services.NewRefreshService(dbManager.DB(), gateway, policy, engine, services.RefreshOptions{
		StatementCadence: appConfig.StatementCadence,
		MarketIndex:      appConfig.MarketIndex,
		HistoryRange:     appConfig.HistoryRange,
		Workers:          appConfig.RefreshWorkers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep := func() {
		results, err := refreshService.RefreshAll(ctx)
		if err != nil {
			log.Errorw("refresh sweep failed", "error", err.Error())
			return
		}
		refreshed := 0
		for _, r := range results {
			if r.Quote == services.OutcomeRefreshed {
				refreshed++
			}
		}
		log.Infow("refresh sweep finished", "tickers", len(results), "quotes_refreshed", refreshed)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(appConfig.RefreshCron, sweep); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", appConfig.RefreshCron, err)
	}

	log.Infof("Starting refresh daemon with schedule %q", appConfig.RefreshCron)
	sweep()
	scheduler.Start()

	<-ctx.Done()
	log.Info("Shutting down refresh daemon")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}
