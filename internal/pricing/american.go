package pricing

import (
	"math"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
)

// defaultLatticeSteps balances binomial convergence against latency; at this
// depth the lattice price is within a fraction of a cent of the continuous
// limit for typical equity inputs.
const defaultLatticeSteps = 512

// American prices American calls and puts on a Cox-Ross-Rubinstein binomial
// lattice with early exercise at every node.
type American struct {
	call  bool
	steps int
}

// Style implements Model.
func (m *American) Style() models.OptionStyle {
	if m.call {
		return models.StyleAmericanCall
	}
	return models.StyleAmericanPut
}

// Value implements Model. An expired contract is worth its intrinsic value.
// With zero volatility the tree degenerates, so the value is the greater of
// immediate exercise and the deterministic European value.
func (m *American) Value(p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if p.Expiry == 0 {
		return intrinsic(m.call, p.Spot, p.Strike), nil
	}
	if p.Vol == 0 {
		euro := &European{call: m.call}
		v, err := euro.Value(p)
		if err != nil {
			return 0, err
		}
		return math.Max(v, intrinsic(m.call, p.Spot, p.Strike)), nil
	}
	return m.lattice(p), nil
}

// lattice runs the backward induction. Callers must ensure vol > 0 and
// expiry > 0.
func (m *American) lattice(p Params) float64 {
	n := m.steps
	dt := p.Expiry / float64(n)
	up := math.Exp(p.Vol * math.Sqrt(dt))
	down := 1 / up
	growth := math.Exp((p.Rate - p.Dividend) * dt)
	prob := (growth - down) / (up - down)
	// Deep drift relative to vol can push the risk-neutral probability out
	// of [0,1]; clamping keeps the induction a convex combination.
	prob = math.Min(math.Max(prob, 0), 1)
	disc := math.Exp(-p.Rate * dt)

	values := make([]float64, n+1)
	spot := p.Spot * math.Pow(down, float64(n))
	for i := 0; i <= n; i++ {
		values[i] = intrinsic(m.call, spot, p.Strike)
		spot *= up * up
	}

	for step := n - 1; step >= 0; step-- {
		spot = p.Spot * math.Pow(down, float64(step))
		for i := 0; i <= step; i++ {
			cont := disc * (prob*values[i+1] + (1-prob)*values[i])
			values[i] = math.Max(cont, intrinsic(m.call, spot, p.Strike))
			spot *= up * up
		}
	}
	return values[0]
}

// Greeks implements Model using central finite differences on the lattice.
// Bump sizes follow the usual scale-relative convention.
func (m *American) Greeks(p Params) (Greeks, error) {
	if err := p.Validate(); err != nil {
		return Greeks{}, err
	}
	if p.Expiry == 0 || p.Vol == 0 {
		return Greeks{}, apperrors.WithMessage(apperrors.ErrComputation,
			"Greeks are undefined at zero expiry or zero volatility")
	}

	base := m.lattice(p)

	dS := p.Spot * 1e-3
	pUp, pDown := p, p
	pUp.Spot += dS
	pDown.Spot -= dS
	vUp, vDown := m.lattice(pUp), m.lattice(pDown)

	dVol := math.Max(p.Vol*1e-3, 1e-5)
	pVolUp, pVolDown := p, p
	pVolUp.Vol += dVol
	pVolDown.Vol = math.Max(p.Vol-dVol, 0)

	dT := math.Min(p.Expiry*1e-3, p.Expiry/2)
	pShort := p
	pShort.Expiry -= dT

	dR := 1e-4
	pRateUp, pRateDown := p, p
	pRateUp.Rate += dR
	pRateDown.Rate -= dR

	g := Greeks{
		Delta: (vUp - vDown) / (2 * dS),
		Gamma: (vUp - 2*base + vDown) / (dS * dS),
		Vega:  (m.lattice(pVolUp) - m.lattice(pVolDown)) / (pVolUp.Vol - pVolDown.Vol),
		Theta: (m.lattice(pShort) - base) / dT,
		Rho:   (m.lattice(pRateUp) - m.lattice(pRateDown)) / (2 * dR),
	}
	return g, nil
}
