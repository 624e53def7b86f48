package models

import "time"

// OptionStyle tags an option contract variant. It doubles as the selector
// for the pricing model, so a stored contract can be valued directly.
type OptionStyle string

const (
	StyleEuropeanCall OptionStyle = "european_call"
	StyleEuropeanPut  OptionStyle = "european_put"
	StyleAmericanCall OptionStyle = "american_call"
	StyleAmericanPut  OptionStyle = "american_put"
)

// Valid reports whether the style is one of the known variants.
func (s OptionStyle) Valid() bool {
	switch s {
	case StyleEuropeanCall, StyleEuropeanPut, StyleAmericanCall, StyleAmericanPut:
		return true
	}
	return false
}

// IsCall reports whether the style pays off on the upside.
func (s OptionStyle) IsCall() bool {
	return s == StyleEuropeanCall || s == StyleAmericanCall
}

// Option represents one listed contract keyed by its vendor symbol.
// Strike and Maturity are immutable once the contract exists; a re-fetch
// only moves LastPrice and LastUpdate.
type Option struct {
	Symbol     string      `gorm:"primaryKey" json:"symbol"`
	Underlying string      `gorm:"not null;index" json:"underlying"`
	Style      OptionStyle `gorm:"not null" json:"style"`
	LastUpdate time.Time   `gorm:"not null" json:"last_update"`
	LastPrice  float64     `json:"last_price"`
	Strike     float64     `json:"strike"`
	Maturity   time.Time   `json:"maturity"`

	Stock Stock `gorm:"foreignKey:Underlying;references:Ticker" json:"-"`
}
