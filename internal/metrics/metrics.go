// Package metrics derives drift, volatility, and beta from historical price
// series. Computation is pure: persistence of the results is the caller's
// responsibility.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	apperrors "stocklab/internal/errors"
)

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// Result holds the derived analytics for one ticker. Drift and Vol are
// always valid when Compute returns without error. Beta is valid only when
// BetaErr is nil: a degenerate flat market window yields BetaErr instead of
// an infinite or NaN beta.
type Result struct {
	Drift   float64
	Vol     float64
	Beta    float64
	BetaErr error
}

// Engine computes trailing-window return statistics.
type Engine struct {
	// Window is the number of trailing log-returns used. Zero means all.
	Window int
	// MinObservations is the minimum aligned price points required (>= 2).
	MinObservations int
	// PeriodsPerYear scales the per-period volatility to an annual figure.
	PeriodsPerYear int
}

// NewEngine creates an engine, clamping MinObservations to at least 2.
func NewEngine(window, minObservations, periodsPerYear int) *Engine {
	if minObservations < 2 {
		minObservations = 2
	}
	if periodsPerYear <= 0 {
		periodsPerYear = 252
	}
	return &Engine{Window: window, MinObservations: minObservations, PeriodsPerYear: periodsPerYear}
}

// Compute derives drift, volatility, and beta for a stock series against a
// market index series. Both series are deduplicated, ordered, and aligned by
// calendar day first; dates present in only one series are dropped. Fewer
// than MinObservations aligned points fails with ErrInsufficientHistory and
// nothing is derived.
func (e *Engine) Compute(stock, market []PricePoint) (*Result, error) {
	stockByDay := dedupe(stock)
	marketByDay := dedupe(market)

	var days []string
	for day := range stockByDay {
		if _, ok := marketByDay[day]; ok {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	if len(days) < e.MinObservations {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientHistory,
			fmt.Sprintf("Need at least %d aligned observations, have %d", e.MinObservations, len(days)))
	}

	stockReturns := make([]float64, 0, len(days)-1)
	marketReturns := make([]float64, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		sp, sq := stockByDay[days[i-1]], stockByDay[days[i]]
		mp, mq := marketByDay[days[i-1]], marketByDay[days[i]]
		if sp <= 0 || sq <= 0 || mp <= 0 || mq <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrComputation, "Non-positive price in series")
		}
		stockReturns = append(stockReturns, math.Log(sq/sp))
		marketReturns = append(marketReturns, math.Log(mq/mp))
	}

	if e.Window > 0 && len(stockReturns) > e.Window {
		stockReturns = stockReturns[len(stockReturns)-e.Window:]
		marketReturns = marketReturns[len(marketReturns)-e.Window:]
	}

	res := &Result{
		Drift: mean(stockReturns),
		Vol:   sampleStd(stockReturns) * math.Sqrt(float64(e.PeriodsPerYear)),
	}

	marketVar := sampleVar(marketReturns)
	if marketVar == 0 {
		res.BetaErr = apperrors.WithMessage(apperrors.ErrComputation,
			"Market return variance is zero over the window")
		return res, nil
	}
	res.Beta = sampleCov(stockReturns, marketReturns) / marketVar
	return res, nil
}

// dedupe keys points by calendar day (UTC), keeping the last close seen.
func dedupe(points []PricePoint) map[string]float64 {
	byDay := make(map[string]float64, len(points))
	for _, p := range points {
		byDay[p.Date.UTC().Format("2006-01-02")] = p.Close
	}
	return byDay
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleVar is the unbiased (n-1) variance; zero for fewer than two values.
func sampleVar(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

func sampleStd(xs []float64) float64 {
	return math.Sqrt(sampleVar(xs))
}

// sampleCov is the unbiased covariance of two equal-length series.
func sampleCov(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	sum := 0.0
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs)-1)
}
