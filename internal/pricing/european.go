package pricing

import (
	"math"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
)

// European prices European calls and puts with the Black-Scholes-Merton
// closed form, dividend yield included.
type European struct {
	call bool
}

// Style implements Model.
func (m *European) Style() models.OptionStyle {
	if m.call {
		return models.StyleEuropeanCall
	}
	return models.StyleEuropeanPut
}

// d1d2 returns the two BSM quantiles. Only valid for vol > 0 and expiry > 0.
func (m *European) d1d2(p Params) (float64, float64) {
	volSqrtT := p.Vol * math.Sqrt(p.Expiry)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate-p.Dividend+0.5*p.Vol*p.Vol)*p.Expiry) / volSqrtT
	return d1, d1 - volSqrtT
}

// Value implements Model. An expired contract is worth its intrinsic value;
// a zero-volatility contract is worth the discounted forward intrinsic, which
// keeps put-call parity exact in the deterministic limit.
func (m *European) Value(p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if p.Expiry == 0 {
		return intrinsic(m.call, p.Spot, p.Strike), nil
	}

	discS := p.Spot * math.Exp(-p.Dividend*p.Expiry)
	discK := p.Strike * math.Exp(-p.Rate*p.Expiry)
	if p.Vol == 0 {
		if m.call {
			return math.Max(discS-discK, 0), nil
		}
		return math.Max(discK-discS, 0), nil
	}

	d1, d2 := m.d1d2(p)
	if m.call {
		return discS*normCDF(d1) - discK*normCDF(d2), nil
	}
	return discK*normCDF(-d2) - discS*normCDF(-d1), nil
}

// Greeks implements Model. The sensitivities are analytic; at expiry or zero
// volatility the derivatives are not defined, so the call fails rather than
// report a one-sided limit.
func (m *European) Greeks(p Params) (Greeks, error) {
	if err := p.Validate(); err != nil {
		return Greeks{}, err
	}
	if p.Expiry == 0 || p.Vol == 0 {
		return Greeks{}, apperrors.WithMessage(apperrors.ErrComputation,
			"Greeks are undefined at zero expiry or zero volatility")
	}

	d1, d2 := m.d1d2(p)
	discQ := math.Exp(-p.Dividend * p.Expiry)
	discR := math.Exp(-p.Rate * p.Expiry)
	sqrtT := math.Sqrt(p.Expiry)

	g := Greeks{
		Gamma: discQ * normPDF(d1) / (p.Spot * p.Vol * sqrtT),
		Vega:  p.Spot * discQ * normPDF(d1) * sqrtT,
	}
	if m.call {
		g.Delta = discQ * normCDF(d1)
		g.Theta = -p.Spot*discQ*normPDF(d1)*p.Vol/(2*sqrtT) -
			p.Rate*p.Strike*discR*normCDF(d2) +
			p.Dividend*p.Spot*discQ*normCDF(d1)
		g.Rho = p.Strike * p.Expiry * discR * normCDF(d2)
	} else {
		g.Delta = -discQ * normCDF(-d1)
		g.Theta = -p.Spot*discQ*normPDF(d1)*p.Vol/(2*sqrtT) +
			p.Rate*p.Strike*discR*normCDF(-d2) -
			p.Dividend*p.Spot*discQ*normCDF(-d1)
		g.Rho = -p.Strike * p.Expiry * discR * normCDF(-d2)
	}
	return g, nil
}
