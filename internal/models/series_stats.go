package models

import (
	"math"
	"sort"

	apperrors "stocklab/internal/errors"
)

// Trend selects the curve fitted by SeriesStats.Predict.
type Trend string

const (
	// TrendLinear fits y = a + b*x.
	TrendLinear Trend = "linear"
	// TrendExponential fits y = a*exp(b*x); requires positive values.
	TrendExponential Trend = "exponential"
	// TrendLogarithmic fits y = a*ln(b*x).
	TrendLogarithmic Trend = "logarithmic"
)

// SeriesStats holds one decoded statement line item in chronological order
// (oldest period first) for summary statistics and trend projection.
type SeriesStats struct {
	values []float64
}

// NewSeriesStats decodes one encoded line item against its date index.
// Missing cells are dropped; period labels are ISO dates, so lexicographic
// order is chronological order.
func NewSeriesStats(dateIndex, field string) (*SeriesStats, error) {
	byPeriod, err := DecodeSeries(dateIndex, field)
	if err != nil {
		return nil, err
	}

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	values := make([]float64, len(periods))
	for i, p := range periods {
		values[i] = byPeriod[p]
	}
	return &SeriesStats{values: values}, nil
}

// Values returns a copy of the stored values, oldest first.
func (s *SeriesStats) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Mean returns the mean of the stored values.
func (s *SeriesStats) Mean() (float64, error) {
	if len(s.values) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInsufficientHistory, "No reported values")
	}
	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values)), nil
}

// Std returns the population standard deviation of the stored values.
func (s *SeriesStats) Std() (float64, error) {
	mean, err := s.Mean()
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for _, v := range s.values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(s.values))), nil
}

// Predict projects the next n periods by least-squares fitting the chosen
// trend over the reported values at x = 1..len. The exponential form matches
// a geometric-growth assumption on the line item; the linear and logarithmic
// forms bracket it from the aggressive and conservative side.
func (s *SeriesStats) Predict(n int, trend Trend) ([]float64, error) {
	if n <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prediction count must be positive")
	}
	if len(s.values) < 2 {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientHistory, "Need at least 2 reported values to fit a trend")
	}

	switch trend {
	case TrendLinear:
		intercept, slope := fitLine(identityX(len(s.values)), s.values)
		return projectFrom(len(s.values), n, func(x float64) float64 {
			return intercept + slope*x
		}), nil

	case TrendExponential:
		logs := make([]float64, len(s.values))
		for i, v := range s.values {
			if v <= 0 {
				return nil, apperrors.WithMessage(apperrors.ErrComputation, "Exponential trend requires positive values")
			}
			logs[i] = math.Log(v)
		}
		intercept, slope := fitLine(identityX(len(logs)), logs)
		return projectFrom(len(s.values), n, func(x float64) float64 {
			return math.Exp(intercept + slope*x)
		}), nil

	case TrendLogarithmic:
		xs := make([]float64, len(s.values))
		for i := range xs {
			xs[i] = math.Log(float64(i + 1))
		}
		intercept, slope := fitLine(xs, s.values)
		return projectFrom(len(s.values), n, func(x float64) float64 {
			return intercept + slope*math.Log(x)
		}), nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown trend "+string(trend))
}

func identityX(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	return xs
}

// fitLine performs an ordinary least-squares fit of y against x.
func fitLine(xs, ys []float64) (intercept, slope float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return intercept, slope
}

func projectFrom(last, n int, f func(x float64) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(float64(last + i + 1))
	}
	return out
}
