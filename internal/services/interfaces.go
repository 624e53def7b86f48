package services

import (
	"context"
	"time"

	"stocklab/internal/models"
	"stocklab/internal/pagination"
	"stocklab/internal/pricing"
)

// MetricsView is the derived-analytics slice of a stock row.
type MetricsView struct {
	Ticker    string    `json:"ticker"`
	Drift     float64   `json:"drift"`
	Vol       float64   `json:"vol"`
	Beta      float64   `json:"beta"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockServicer defines the contract for stored stock data reads.
type StockServicer interface {
	GetStock(ticker string) (*models.Stock, error)
	ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	GetStatement(ticker string, kind models.StatementKind) (interface{}, error)
	GetMetrics(ticker string) (*MetricsView, error)
	Tickers() ([]string, error)
}

// StepOutcome reports what a refresh run did with one asset class.
type StepOutcome string

const (
	// OutcomeRefreshed means fresh vendor data replaced the stored row.
	OutcomeRefreshed StepOutcome = "refreshed"
	// OutcomeSkipped means the stored row was still within its max age.
	OutcomeSkipped StepOutcome = "skipped"
	// OutcomeFailed means the fetch or normalization failed; the previously
	// stored row, if any, is untouched.
	OutcomeFailed StepOutcome = "failed"
)

// RefreshResult summarizes one per-ticker refresh run.
type RefreshResult struct {
	RunID      string                             `json:"run_id"`
	Ticker     string                             `json:"ticker"`
	Quote      StepOutcome                        `json:"quote"`
	Statements map[models.StatementKind]StepOutcome `json:"statements"`
	Metrics    StepOutcome                        `json:"metrics"`
	Warnings   []string                           `json:"warnings,omitempty"`
	Duration   time.Duration                      `json:"duration"`
}

// RefreshServicer defines the contract for the acquisition pipeline.
type RefreshServicer interface {
	// Refresh runs the full pipeline for one ticker: quote, statements,
	// and derived metrics, each gated by its staleness class.
	Refresh(ctx context.Context, ticker string) (*RefreshResult, error)
	// RefreshBatch refreshes many tickers concurrently with a bounded
	// worker pool. Per-ticker failures are reported in the results, not
	// returned as an error.
	RefreshBatch(ctx context.Context, tickers []string) ([]RefreshResult, error)
	// RefreshAll refreshes every stored ticker.
	RefreshAll(ctx context.Context) ([]RefreshResult, error)
}

// SyncResult summarizes one option chain sync.
type SyncResult struct {
	Ticker  string `json:"ticker"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}

// OptionServicer defines the contract for stored option contracts.
type OptionServicer interface {
	// SyncOptions pulls the current chain for a stored stock and upserts
	// each contract. Strike and maturity never change on an existing row.
	SyncOptions(ctx context.Context, ticker string) (*SyncResult, error)
	GetOption(symbol string) (*models.Option, error)
	ListOptions(underlying string, page pagination.PageRequest) (*pagination.PageResponse[models.Option], error)
}

// Valuation is one priced contract. Greeks is nil when the sensitivities are
// undefined at the given parameters; the value itself is always present.
type Valuation struct {
	Style    models.OptionStyle `json:"style"`
	Value    float64            `json:"value"`
	Greeks   *pricing.Greeks    `json:"greeks,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
}

// ValuationServicer defines the contract for option valuation.
type ValuationServicer interface {
	ValueOption(style models.OptionStyle, params pricing.Params) (*Valuation, error)
	// ValueStoredOption prices a stored contract using the underlying
	// stock's last price, derived volatility, and dividend yield.
	ValueStoredOption(symbol string, rate float64, asOf time.Time) (*Valuation, error)
}
