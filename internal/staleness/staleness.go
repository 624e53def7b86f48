// Package staleness decides, from last-update timestamps and per-asset-class
// refresh cadence, whether stored data warrants a refetch.
package staleness

import "time"

// AssetClass groups stored data by refresh cadence.
type AssetClass string

const (
	ClassPrice              AssetClass = "price"
	ClassQuarterlyStatement AssetClass = "quarterly_statement"
	ClassAnnualStatement    AssetClass = "annual_statement"
)

// State is the freshness of one stored row.
type State string

const (
	StateFresh   State = "fresh"
	StateStale   State = "stale"
	StateMissing State = "missing"
)

// Policy holds the configured maximum age per asset class.
type Policy struct {
	maxAge map[AssetClass]time.Duration
}

// NewPolicy builds a policy from per-class maximum ages.
func NewPolicy(price, quarterly, annual time.Duration) *Policy {
	return &Policy{maxAge: map[AssetClass]time.Duration{
		ClassPrice:              price,
		ClassQuarterlyStatement: quarterly,
		ClassAnnualStatement:    annual,
	}}
}

// MaxAge returns the configured maximum age for a class (zero if unknown).
func (p *Policy) MaxAge(class AssetClass) time.Duration {
	return p.maxAge[class]
}

// Evaluate reports the freshness of a row. A nil lastUpdate means no stored
// row exists. A row is stale iff now-lastUpdate strictly exceeds the class's
// maximum age.
func (p *Policy) Evaluate(class AssetClass, lastUpdate *time.Time, now time.Time) State {
	if lastUpdate == nil {
		return StateMissing
	}
	if now.Sub(*lastUpdate) > p.maxAge[class] {
		return StateStale
	}
	return StateFresh
}

// NeedsRefresh reports whether a refresh should be attempted for a state.
// A failed refresh leaves the stored row, and therefore the state, untouched.
func NeedsRefresh(s State) bool {
	return s == StateStale || s == StateMissing
}
