package models

import "time"

// Stock represents one company row keyed by ticker. Vendor-sourced fields are
// replaced wholesale on every successful quote refresh; the derived
// Drift/Vol/Beta triple is patched only by a successful metrics run and
// survives quote refreshes in between.
type Stock struct {
	Ticker     string    `gorm:"primaryKey" json:"ticker"`
	LastUpdate time.Time `gorm:"not null" json:"last_update"`
	LastPrice  float64   `json:"last_price"`
	Currency   string    `json:"currency"`
	Exchange   string    `json:"exchange"`
	MarketCap  int64     `json:"market_cap"`
	EPS        float64   `json:"eps"`
	PE         float64   `json:"pe"`
	DE         float64   `json:"de"`
	Div        float64   `json:"div"`
	DivYield   float64   `json:"div_yield"`
	// Beta as reported by the vendor, distinct from the derived Beta below.
	VendorBeta float64 `json:"vendor_beta"`

	// Derived analytics, written only by the metrics engine.
	Drift            float64    `json:"drift"`
	Vol              float64    `json:"vol"`
	Beta             float64    `json:"beta"`
	MetricsUpdatedAt *time.Time `json:"metrics_updated_at,omitempty"`
}
