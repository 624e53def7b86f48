package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"stocklab/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestStock creates a stock with a unique ticker and a fresh quote.
func CreateTestStock(t *testing.T, db *gorm.DB) *models.Stock {
	t.Helper()
	ticker := fmt.Sprintf("TST%d", nextID())
	return CreateTestStockWithTicker(t, db, ticker)
}

// CreateTestStockWithTicker creates a stock with the given ticker.
func CreateTestStockWithTicker(t *testing.T, db *gorm.DB, ticker string) *models.Stock {
	t.Helper()

	stock := &models.Stock{
		Ticker:     ticker,
		LastUpdate: time.Now(),
		LastPrice:  100,
		Currency:   "USD",
		Exchange:   "NMS",
		MarketCap:  1_000_000_000,
		EPS:        5,
		PE:         20,
		DivYield:   0.01,
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// SetTestMetrics patches the derived metrics columns on a stock, the way a
// successful metrics run would.
func SetTestMetrics(t *testing.T, db *gorm.DB, ticker string, drift, vol, beta float64) {
	t.Helper()

	patch := map[string]interface{}{
		"drift":              drift,
		"vol":                vol,
		"beta":               beta,
		"metrics_updated_at": time.Now(),
	}
	if err := db.Model(&models.Stock{}).Where("ticker = ?", ticker).Updates(patch).Error; err != nil {
		t.Fatalf("failed to set test metrics: %v", err)
	}
}

// CreateTestOption creates an option contract for the given underlying.
func CreateTestOption(t *testing.T, db *gorm.DB, underlying string, style models.OptionStyle) *models.Option {
	t.Helper()

	option := &models.Option{
		Symbol:     fmt.Sprintf("%s260116C%08d", underlying, nextID()),
		Underlying: underlying,
		Style:      style,
		LastUpdate: time.Now(),
		LastPrice:  4.2,
		Strike:     100,
		Maturity:   time.Now().AddDate(0, 6, 0),
	}
	if err := db.Create(option).Error; err != nil {
		t.Fatalf("failed to create test option: %v", err)
	}
	return option
}

// CreateTestIncomeStatement creates a minimal income statement row.
func CreateTestIncomeStatement(t *testing.T, db *gorm.DB, ticker string) *models.IncomeStatement {
	t.Helper()

	stmt := &models.IncomeStatement{
		Ticker:       ticker,
		LastUpdate:   time.Now(),
		DateIndex:    "2024-12-31:2023-12-31",
		Unit:         "USD",
		TotalRevenue: "391035000000:383285000000",
	}
	if err := db.Create(stmt).Error; err != nil {
		t.Fatalf("failed to create test income statement: %v", err)
	}
	return stmt
}
