// Package provider defines the gateway contract for fetching raw, vendor-shaped
// market data: quotes, financial statements, price history, and option chains.
// Everything in this package is vendor-shaped; the normalize package turns it
// into the fixed relational schema.
package provider

import (
	"context"
	"time"

	"stocklab/internal/models"
)

// RawQuote is a vendor quote snapshot for one ticker.
type RawQuote struct {
	Ticker    string
	Exchange  string
	Currency  string
	LastPrice float64
	MarketCap int64
	EPS       float64
	PE        float64
	DE        float64
	Div       float64
	DivYield  float64
	Beta      float64
}

// RawStatementTable is one statement kind as the vendor delivers it: an
// ordered period axis (most recent first) shared by a variable set of named
// rows. A nil cell marks a value the vendor did not report for that period.
type RawStatementTable struct {
	Kind    models.StatementKind
	Unit    string
	Periods []string
	Rows    map[string][]*float64
}

// RawPricePoint is a single close in a price history series.
type RawPricePoint struct {
	Date  time.Time
	Close float64
}

// RawPriceSeries is a chronologically ascending daily close series.
type RawPriceSeries struct {
	Ticker string
	Points []RawPricePoint
}

// RawOptionContract is one listed contract from a vendor option chain.
type RawOptionContract struct {
	Symbol    string
	Style     models.OptionStyle
	Strike    float64
	Maturity  time.Time
	LastPrice float64
}

// Gateway fetches raw market data for one ticker at a time. Implementations
// must honor ctx cancellation on every call and report failures through the
// vendor error sentinels (not found, rate limited, unavailable).
type Gateway interface {
	FetchQuote(ctx context.Context, ticker string) (*RawQuote, error)
	FetchStatement(ctx context.Context, ticker string, kind models.StatementKind) (*RawStatementTable, error)
	FetchPriceHistory(ctx context.Context, ticker, rng string) (*RawPriceSeries, error)
	FetchOptionChain(ctx context.Context, ticker string) ([]RawOptionContract, error)
}
