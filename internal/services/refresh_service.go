package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/logger"
	"stocklab/internal/metrics"
	"stocklab/internal/models"
	"stocklab/internal/normalize"
	"stocklab/internal/provider"
	"stocklab/internal/staleness"
)

// RefreshOptions carries the tunables of the acquisition pipeline.
type RefreshOptions struct {
	// StatementCadence is "annual" or "quarterly" and selects which
	// staleness class gates statement refreshes.
	StatementCadence string
	// MarketIndex is the benchmark ticker used for beta.
	MarketIndex string
	// HistoryRange is the vendor range keyword for price history.
	HistoryRange string
	// Workers bounds batch refresh concurrency.
	Workers int
}

// refreshService orchestrates the per-ticker acquisition pipeline.
type refreshService struct {
	db      *gorm.DB
	gateway provider.Gateway
	policy  *staleness.Policy
	engine  *metrics.Engine
	opts    RefreshOptions
	now     func() time.Time
}

// NewRefreshService creates a new RefreshServicer.
func NewRefreshService(db *gorm.DB, gateway provider.Gateway, policy *staleness.Policy, engine *metrics.Engine, opts RefreshOptions) RefreshServicer {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &refreshService{
		db:      db,
		gateway: gateway,
		policy:  policy,
		engine:  engine,
		opts:    opts,
		now:     time.Now,
	}
}

// statementClass maps the configured cadence to its staleness class.
func (s *refreshService) statementClass() staleness.AssetClass {
	if s.opts.StatementCadence == "quarterly" {
		return staleness.ClassQuarterlyStatement
	}
	return staleness.ClassAnnualStatement
}

// Refresh runs the full pipeline for one ticker. Vendor and normalization
// failures in a single step never abort the run: the step is marked failed,
// a warning is recorded, and the previously stored row stays in place.
func (s *refreshService) Refresh(ctx context.Context, ticker string) (*RefreshResult, error) {
	t, err := canonicalTicker(ticker)
	if err != nil {
		return nil, err
	}

	started := s.now()
	result := &RefreshResult{
		RunID:      uuid.NewString(),
		Ticker:     t,
		Statements: make(map[models.StatementKind]StepOutcome, 3),
	}
	log := logger.Get().With("run_id", result.RunID, "ticker", t)

	result.Quote = s.refreshQuote(ctx, t, result)
	for _, kind := range models.Kinds() {
		result.Statements[kind] = s.refreshStatement(ctx, t, kind, result)
	}
	result.Metrics = s.refreshMetrics(ctx, t, result)

	result.Duration = s.now().Sub(started)
	log.Infow("Refresh run finished",
		"quote", result.Quote,
		"metrics", result.Metrics,
		"warnings", len(result.Warnings),
		"duration", result.Duration)
	return result, nil
}

// warnf records a non-fatal step failure on the run.
func (r *RefreshResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// refreshQuote fetches and stores the quote snapshot when the stored row is
// stale or missing. Derived metrics on an existing row survive the replace.
func (s *refreshService) refreshQuote(ctx context.Context, ticker string, result *RefreshResult) StepOutcome {
	var existing models.Stock
	var lastUpdate *time.Time
	err := s.db.First(&existing, "ticker = ?", ticker).Error
	switch {
	case err == nil:
		lastUpdate = &existing.LastUpdate
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first sight of this ticker
	default:
		result.warnf("quote: %v", err)
		return OutcomeFailed
	}

	if !staleness.NeedsRefresh(s.policy.Evaluate(staleness.ClassPrice, lastUpdate, s.now())) {
		return OutcomeSkipped
	}

	quote, err := s.gateway.FetchQuote(ctx, ticker)
	if err != nil {
		result.warnf("quote: %v", err)
		return OutcomeFailed
	}

	row := models.Stock{
		Ticker:     ticker,
		LastUpdate: s.now(),
		LastPrice:  quote.LastPrice,
		Currency:   quote.Currency,
		Exchange:   quote.Exchange,
		MarketCap:  quote.MarketCap,
		EPS:        quote.EPS,
		PE:         quote.PE,
		DE:         quote.DE,
		Div:        quote.Div,
		DivYield:   quote.DivYield,
		VendorBeta: quote.Beta,
	}
	if lastUpdate != nil {
		// Carry the derived triple over; only a metrics run may change it.
		row.Drift = existing.Drift
		row.Vol = existing.Vol
		row.Beta = existing.Beta
		row.MetricsUpdatedAt = existing.MetricsUpdatedAt
	}

	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		result.warnf("quote: %v", err)
		return OutcomeFailed
	}
	return OutcomeRefreshed
}

// refreshStatement fetches, normalizes, and stores one statement kind when
// the stored row is stale or missing.
func (s *refreshService) refreshStatement(ctx context.Context, ticker string, kind models.StatementKind, result *RefreshResult) StepOutcome {
	lastUpdate, err := s.statementLastUpdate(ticker, kind)
	if err != nil {
		result.warnf("%s: %v", kind, err)
		return OutcomeFailed
	}
	if !staleness.NeedsRefresh(s.policy.Evaluate(s.statementClass(), lastUpdate, s.now())) {
		return OutcomeSkipped
	}

	raw, err := s.gateway.FetchStatement(ctx, ticker, kind)
	if err != nil {
		result.warnf("%s: %v", kind, err)
		return OutcomeFailed
	}

	var row interface{}
	now := s.now()
	switch kind {
	case models.KindIncome:
		row, err = normalize.NormalizeIncome(ticker, raw, now)
	case models.KindBalance:
		row, err = normalize.NormalizeBalance(ticker, raw, now)
	case models.KindCashFlow:
		row, err = normalize.NormalizeCashFlow(ticker, raw, now)
	}
	if err != nil {
		result.warnf("%s: %v", kind, err)
		return OutcomeFailed
	}

	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
		result.warnf("%s: %v", kind, err)
		return OutcomeFailed
	}
	return OutcomeRefreshed
}

// statementLastUpdate reads the stored LastUpdate for one statement kind,
// nil when no row exists yet.
func (s *refreshService) statementLastUpdate(ticker string, kind models.StatementKind) (*time.Time, error) {
	var row struct{ LastUpdate time.Time }
	var model interface{}
	switch kind {
	case models.KindIncome:
		model = &models.IncomeStatement{}
	case models.KindBalance:
		model = &models.BalanceSheet{}
	case models.KindCashFlow:
		model = &models.CashFlowStatement{}
	}

	err := s.db.Model(model).Select("last_update").Where("ticker = ?", ticker).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.LastUpdate, nil
}

// refreshMetrics recomputes drift, volatility, and beta from aligned price
// history and patches only those columns on the stock row. Without a stored
// stock row there is nothing to attach the metrics to. The step shares the
// price staleness class, so fresh metrics skip both history fetches.
func (s *refreshService) refreshMetrics(ctx context.Context, ticker string, result *RefreshResult) StepOutcome {
	var stock models.Stock
	if err := s.db.First(&stock, "ticker = ?", ticker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.warnf("metrics: no stored stock row")
			return OutcomeFailed
		}
		result.warnf("metrics: %v", err)
		return OutcomeFailed
	}

	if !staleness.NeedsRefresh(s.policy.Evaluate(staleness.ClassPrice, stock.MetricsUpdatedAt, s.now())) {
		return OutcomeSkipped
	}

	stockHist, err := s.gateway.FetchPriceHistory(ctx, ticker, s.opts.HistoryRange)
	if err != nil {
		result.warnf("metrics: %v", err)
		return OutcomeFailed
	}
	marketHist, err := s.gateway.FetchPriceHistory(ctx, s.opts.MarketIndex, s.opts.HistoryRange)
	if err != nil {
		result.warnf("metrics: market index: %v", err)
		return OutcomeFailed
	}

	computed, err := s.engine.Compute(toPricePoints(stockHist), toPricePoints(marketHist))
	if err != nil {
		result.warnf("metrics: %v", err)
		return OutcomeFailed
	}

	patch := map[string]interface{}{
		"drift":              computed.Drift,
		"vol":                computed.Vol,
		"metrics_updated_at": s.now(),
	}
	if computed.BetaErr != nil {
		// Drift and vol still persist; beta keeps its previous value.
		result.warnf("metrics: beta: %v", computed.BetaErr)
	} else {
		patch["beta"] = computed.Beta
	}

	if err := s.db.Model(&models.Stock{}).Where("ticker = ?", ticker).Updates(patch).Error; err != nil {
		result.warnf("metrics: %v", err)
		return OutcomeFailed
	}
	return OutcomeRefreshed
}

func toPricePoints(series *provider.RawPriceSeries) []metrics.PricePoint {
	points := make([]metrics.PricePoint, 0, len(series.Points))
	for _, p := range series.Points {
		points = append(points, metrics.PricePoint{Date: p.Date, Close: p.Close})
	}
	return points
}

// RefreshBatch refreshes many tickers through a bounded worker pool, keeping
// result order aligned with the input.
func (s *refreshService) RefreshBatch(ctx context.Context, tickers []string) ([]RefreshResult, error) {
	if len(tickers) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Tickers array is empty")
	}

	results := make([]RefreshResult, len(tickers))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := s.opts.Workers
	if workers > len(tickers) {
		workers = len(tickers)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := s.Refresh(ctx, tickers[i])
				if err != nil {
					results[i] = RefreshResult{
						Ticker:   tickers[i],
						Quote:    OutcomeFailed,
						Metrics:  OutcomeFailed,
						Warnings: []string{err.Error()},
					}
					continue
				}
				results[i] = *res
			}
		}()
	}

	for i := range tickers {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results, apperrors.Wrap(apperrors.ErrInternalServer, ctx.Err())
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results, nil
}

// RefreshAll refreshes every stored ticker.
func (s *refreshService) RefreshAll(ctx context.Context) ([]RefreshResult, error) {
	var tickers []string
	if err := s.db.Model(&models.Stock{}).Order("ticker ASC").Pluck("ticker", &tickers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(tickers) == 0 {
		return nil, nil
	}
	return s.RefreshBatch(ctx, tickers)
}
