// Package pricing values option contracts. Each supported contract style is
// backed by its own Model implementation; ForStyle selects the model so the
// caller never branches on style itself.
package pricing

import (
	"fmt"
	"math"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
)

// Params are the market inputs for a single valuation.
type Params struct {
	Spot     float64 `json:"spot" binding:"required,gt=0"`
	Strike   float64 `json:"strike" binding:"required,gt=0"`
	Rate     float64 `json:"rate"`
	Dividend float64 `json:"dividend" binding:"gte=0"`
	Vol      float64 `json:"vol" binding:"gte=0"`
	// Expiry is the time to maturity in years. Zero values an expiring
	// contract at intrinsic.
	Expiry float64 `json:"expiry" binding:"gte=0"`
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate rejects parameter sets no model can price.
func (p Params) Validate() error {
	switch {
	case !finite(p.Spot) || !finite(p.Strike) || !finite(p.Rate) ||
		!finite(p.Dividend) || !finite(p.Vol) || !finite(p.Expiry):
		return apperrors.WithMessage(apperrors.ErrInvalidParameters, "Parameters must be finite")
	case p.Spot <= 0:
		return apperrors.WithMessage(apperrors.ErrInvalidParameters, fmt.Sprintf("Spot must be positive, got %g", p.Spot))
	case p.Strike <= 0:
		return apperrors.WithMessage(apperrors.ErrInvalidParameters, fmt.Sprintf("Strike must be positive, got %g", p.Strike))
	case p.Vol < 0:
		return apperrors.WithMessage(apperrors.ErrInvalidParameters, fmt.Sprintf("Volatility must be non-negative, got %g", p.Vol))
	case p.Dividend < 0:
		return apperrors.WithMessage(apperrors.ErrInvalidParameters, fmt.Sprintf("Dividend yield must be non-negative, got %g", p.Dividend))
	case p.Expiry < 0:
		return apperrors.WithMessage(apperrors.ErrInvalidParameters, fmt.Sprintf("Expiry must be non-negative, got %g", p.Expiry))
	}
	return nil
}

// Greeks are the standard first- and second-order sensitivities.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Model values one contract style.
type Model interface {
	// Style identifies the contract variant this model prices.
	Style() models.OptionStyle
	// Value returns the fair value. It is non-negative for valid params.
	Value(p Params) (float64, error)
	// Greeks returns the sensitivities at p.
	Greeks(p Params) (Greeks, error)
}

// ForStyle returns the pricing model for a contract style.
func ForStyle(style models.OptionStyle) (Model, error) {
	switch style {
	case models.StyleEuropeanCall:
		return &European{call: true}, nil
	case models.StyleEuropeanPut:
		return &European{call: false}, nil
	case models.StyleAmericanCall:
		return &American{call: true, steps: defaultLatticeSteps}, nil
	case models.StyleAmericanPut:
		return &American{call: false, steps: defaultLatticeSteps}, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrUnknownStyle, fmt.Sprintf("Unsupported option style %q", style))
}

// intrinsic is the exercise value at spot s.
func intrinsic(call bool, s, k float64) float64 {
	if call {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

// normCDF is the standard normal cumulative distribution.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
