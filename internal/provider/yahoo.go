package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
)

const (
	yahooBaseURL = "https://query1.finance.yahoo.com"
	yahooUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

	// Cadence prefixes for the fundamentals timeseries endpoint.
	cadenceAnnual    = "annual"
	cadenceQuarterly = "quarterly"
)

// YahooGateway fetches quotes, statements, price history, and option chains
// from Yahoo Finance. All requests go through a shared rate limiter.
type YahooGateway struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	limiter    *rate.Limiter
	cadence    string
}

// YahooOption configures the YahooGateway.
type YahooOption func(*YahooGateway)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) YahooOption {
	return func(g *YahooGateway) {
		if baseURL != "" {
			g.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) YahooOption {
	return func(g *YahooGateway) {
		if rps > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithQuarterlyStatements requests quarterly instead of annual statements.
func WithQuarterlyStatements() YahooOption {
	return func(g *YahooGateway) { g.cadence = cadenceQuarterly }
}

// NewYahooGateway creates a new Yahoo Finance gateway.
func NewYahooGateway(httpClient *http.Client, opts ...YahooOption) *YahooGateway {
	g := &YahooGateway{
		httpClient: httpClient,
		baseURL:    yahooBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
		cadence:    cadenceAnnual,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// get performs one rate-limited GET and maps transport/status failures onto
// the vendor error sentinels. The caller owns closing the response body.
func (g *YahooGateway) get(ctx context.Context, url string) (*http.Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, fmt.Errorf("http request: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, apperrors.ErrVendorNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		_ = resp.Body.Close()
		return nil, apperrors.ErrVendorRateLimited
	default:
		_ = resp.Body.Close()
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// exchangeSuffixes maps exchange codes to Yahoo Finance ticker suffixes.
var exchangeSuffixes = map[string]string{
	"TSX":      ".TO",
	"TSXV":     ".V",
	"LSE":      ".L",
	"HKEX":     ".HK",
	"ASX":      ".AX",
	"NSE":      ".NS",
	"BSE":      ".BO",
	"SGX":      ".SI",
	"KRX":      ".KS",
	"KOSDAQ":   ".KQ",
	"BURSA":    ".KL",
	"JPX":      ".T",
	"FRA":      ".F",
	"XETRA":    ".DE",
	"SIX":      ".SW",
	"EURONEXT": ".PA",
}

// vendorSymbol converts a stored ticker to a Yahoo-compatible one. Tickers
// for non-US listings carry their exchange code after an "@" (for example
// "BARC@LSE"); the code is swapped for the exchange's Yahoo suffix. Plain
// tickers and unknown exchange codes pass through untouched.
func vendorSymbol(ticker string) string {
	symbol, exchange, found := strings.Cut(ticker, "@")
	if !found {
		return ticker
	}
	if suffix, ok := exchangeSuffixes[exchange]; ok {
		return symbol + suffix
	}
	return ticker
}

// yahooQuoteResponse is the top-level quote API response.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	} `json:"quoteResponse"`
}

// yahooQuoteResult is a single quote result.
type yahooQuoteResult struct {
	Symbol             string  `json:"symbol"`
	FullExchangeName   string  `json:"fullExchangeName"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	MarketCap          int64   `json:"marketCap"`
	EPSTrailing        float64 `json:"epsTrailingTwelveMonths"`
	TrailingPE         float64 `json:"trailingPE"`
	DebtToEquity       float64 `json:"debtToEquity"`
	DividendRate       float64 `json:"trailingAnnualDividendRate"`
	DividendYield      float64 `json:"trailingAnnualDividendYield"`
	Beta               float64 `json:"beta"`
}

// FetchQuote fetches the current quote snapshot for one ticker.
func (g *YahooGateway) FetchQuote(ctx context.Context, ticker string) (*RawQuote, error) {
	url := g.baseURL + "/v7/finance/quote?symbols=" + vendorSymbol(ticker)

	resp, err := g.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var quoteResp yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, fmt.Errorf("decoding quote response: %w", err))
	}
	if len(quoteResp.QuoteResponse.Result) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrVendorNotFound, "No quote for symbol "+ticker)
	}

	r := quoteResp.QuoteResponse.Result[0]
	return &RawQuote{
		Ticker:    ticker,
		Exchange:  r.FullExchangeName,
		Currency:  r.Currency,
		LastPrice: r.RegularMarketPrice,
		MarketCap: r.MarketCap,
		EPS:       r.EPSTrailing,
		PE:        r.TrailingPE,
		DE:        r.DebtToEquity,
		Div:       r.DividendRate,
		DivYield:  r.DividendYield,
		Beta:      r.Beta,
	}, nil
}

// yahooTimeseriesResponse is the top-level fundamentals timeseries response.
type yahooTimeseriesResponse struct {
	Timeseries struct {
		Result []yahooTimeseriesResult `json:"result"`
		Error  *json.RawMessage        `json:"error"`
	} `json:"timeseries"`
}

// yahooTimeseriesValue is a single reported value for one fiscal period.
type yahooTimeseriesValue struct {
	AsOfDate      string `json:"asOfDate"`
	CurrencyCode  string `json:"currencyCode"`
	ReportedValue struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}

// yahooTimeseriesResult is one row of the timeseries response. The period
// values live under a dynamic key equal to the row's type, so decoding goes
// through a raw map.
type yahooTimeseriesResult struct {
	Type   string
	Values []*yahooTimeseriesValue
}

// UnmarshalJSON resolves the dynamic value key from meta.type.
func (r *yahooTimeseriesResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var meta struct {
		Type []string `json:"type"`
	}
	if m, ok := raw["meta"]; ok {
		if err := json.Unmarshal(m, &meta); err != nil {
			return err
		}
	}
	if len(meta.Type) == 0 {
		return nil
	}
	r.Type = meta.Type[0]

	values, ok := raw[r.Type]
	if !ok {
		return nil
	}
	return json.Unmarshal(values, &r.Values)
}

// timeseriesType converts a vendor row label into the timeseries type key,
// e.g. "Total Revenue" -> "annualTotalRevenue".
func timeseriesType(cadence, label string) string {
	var b strings.Builder
	b.WriteString(cadence)
	for _, word := range strings.Fields(label) {
		if word == "&" {
			b.WriteString("And")
			continue
		}
		word = strings.Map(func(c rune) rune {
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				return c
			}
			return -1
		}, word)
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

// FetchStatement fetches one statement kind and assembles it onto a single
// most-recent-first period axis shared by every returned row.
func (g *YahooGateway) FetchStatement(ctx context.Context, ticker string, kind models.StatementKind) (*RawStatementTable, error) {
	labels := StatementLabels(kind)
	if labels == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown statement kind "+string(kind))
	}

	types := make([]string, len(labels))
	typeToLabel := make(map[string]string, len(labels))
	for i, label := range labels {
		t := timeseriesType(g.cadence, label)
		types[i] = t
		typeToLabel[t] = label
	}

	url := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?type=%s&period1=0&period2=%d",
		g.baseURL, vendorSymbol(ticker), strings.Join(types, ","), time.Now().Unix())

	resp, err := g.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var tsResp yahooTimeseriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&tsResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, fmt.Errorf("decoding timeseries response: %w", err))
	}
	if len(tsResp.Timeseries.Result) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrVendorNotFound, "No "+string(kind)+" statement for symbol "+ticker)
	}

	// First pass: collect the union of reporting dates and the per-row values.
	seen := map[string]bool{}
	var periods []string
	unit := ""
	rowValues := make(map[string]map[string]float64)
	for _, res := range tsResp.Timeseries.Result {
		label, ok := typeToLabel[res.Type]
		if !ok {
			continue
		}
		byDate := make(map[string]float64, len(res.Values))
		for _, v := range res.Values {
			if v == nil || v.AsOfDate == "" {
				continue
			}
			byDate[v.AsOfDate] = v.ReportedValue.Raw
			if !seen[v.AsOfDate] {
				seen[v.AsOfDate] = true
				periods = append(periods, v.AsOfDate)
			}
			if unit == "" {
				unit = v.CurrencyCode
			}
		}
		rowValues[label] = byDate
	}

	// Most recent period first, matching the stored dateIndex convention.
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	// Second pass: align every row onto the shared axis.
	rows := make(map[string][]*float64, len(rowValues))
	for label, byDate := range rowValues {
		cells := make([]*float64, len(periods))
		for i, p := range periods {
			if v, ok := byDate[p]; ok {
				value := v
				cells[i] = &value
			}
		}
		rows[label] = cells
	}

	return &RawStatementTable{Kind: kind, Unit: unit, Periods: periods, Rows: rows}, nil
}

// yahooChartResponse is the top-level chart API response.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *json.RawMessage `json:"error"`
	} `json:"chart"`
}

// FetchPriceHistory fetches daily closes for the given range (e.g. "1y").
// Points come back in ascending date order; days without a close are skipped.
func (g *YahooGateway) FetchPriceHistory(ctx context.Context, ticker, rng string) (*RawPriceSeries, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", g.baseURL, vendorSymbol(ticker), rng)

	resp, err := g.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, fmt.Errorf("decoding chart response: %w", err))
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrVendorNotFound, "No price history for symbol "+ticker)
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrVendorUnavailable, "Chart response missing quote indicators")
	}
	closes := result.Indicators.Quote[0].Close

	series := &RawPriceSeries{Ticker: ticker}
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series.Points = append(series.Points, RawPricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	return series, nil
}

// yahooOptionsResponse is the top-level option chain response.
type yahooOptionsResponse struct {
	OptionChain struct {
		Result []struct {
			Options []struct {
				ExpirationDate int64                 `json:"expirationDate"`
				Calls          []yahooOptionContract `json:"calls"`
				Puts           []yahooOptionContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *json.RawMessage `json:"error"`
	} `json:"optionChain"`
}

// yahooOptionContract is one contract in the chain.
type yahooOptionContract struct {
	ContractSymbol string  `json:"contractSymbol"`
	Strike         float64 `json:"strike"`
	LastPrice      float64 `json:"lastPrice"`
}

// FetchOptionChain fetches the listed option chain for a ticker. Listed US
// equity options are American-style, so contracts are tagged accordingly.
func (g *YahooGateway) FetchOptionChain(ctx context.Context, ticker string) ([]RawOptionContract, error) {
	url := g.baseURL + "/v7/finance/options/" + vendorSymbol(ticker)

	resp, err := g.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var chainResp yahooOptionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&chainResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrVendorUnavailable, fmt.Errorf("decoding option chain response: %w", err))
	}
	if len(chainResp.OptionChain.Result) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrVendorNotFound, "No option chain for symbol "+ticker)
	}

	var contracts []RawOptionContract
	for _, expiry := range chainResp.OptionChain.Result[0].Options {
		maturity := time.Unix(expiry.ExpirationDate, 0).UTC()
		for _, c := range expiry.Calls {
			contracts = append(contracts, RawOptionContract{
				Symbol:    c.ContractSymbol,
				Style:     models.StyleAmericanCall,
				Strike:    c.Strike,
				Maturity:  maturity,
				LastPrice: c.LastPrice,
			})
		}
		for _, p := range expiry.Puts {
			contracts = append(contracts, RawOptionContract{
				Symbol:    p.ContractSymbol,
				Style:     models.StyleAmericanPut,
				Strike:    p.Strike,
				Maturity:  maturity,
				LastPrice: p.LastPrice,
			})
		}
	}
	return contracts, nil
}
