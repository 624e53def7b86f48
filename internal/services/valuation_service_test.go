package services

import (
	"testing"
	"time"

	"stocklab/internal/models"
	"stocklab/internal/pricing"
	"stocklab/internal/testutil"
)

func TestValueOption(t *testing.T) {
	svc := NewValuationService(nil, nil)
	params := pricing.Params{Spot: 100, Strike: 100, Rate: 0.05, Vol: 0.2, Expiry: 1}

	t.Run("european_call_with_greeks", func(t *testing.T) {
		valuation, err := svc.ValueOption(models.StyleEuropeanCall, params)
		testutil.AssertNoError(t, err)

		testutil.AssertInDelta(t, 10.4506, valuation.Value, 1e-4)
		if valuation.Greeks == nil {
			t.Fatal("expected greeks")
		}
		testutil.AssertInDelta(t, 0.6368, valuation.Greeks.Delta, 1e-4)
	})

	t.Run("expired_contract_values_without_greeks", func(t *testing.T) {
		expired := params
		expired.Expiry = 0
		expired.Spot = 120

		valuation, err := svc.ValueOption(models.StyleEuropeanCall, expired)
		testutil.AssertNoError(t, err)

		testutil.AssertInDelta(t, 20, valuation.Value, 1e-12)
		if valuation.Greeks != nil {
			t.Error("expected no greeks at expiry")
		}
		if len(valuation.Warnings) == 0 {
			t.Error("expected a warning about undefined greeks")
		}
	})

	t.Run("unknown_style", func(t *testing.T) {
		_, err := svc.ValueOption("perpetual_call", params)
		testutil.AssertAppError(t, err, "UNKNOWN_STYLE")
	})

	t.Run("invalid_parameters", func(t *testing.T) {
		bad := params
		bad.Spot = -1
		_, err := svc.ValueOption(models.StyleAmericanPut, bad)
		testutil.AssertAppError(t, err, "INVALID_PARAMETERS")
	})
}

func TestValueStoredOption(t *testing.T) {
	setup := func(t *testing.T) (ValuationServicer, func()) {
		db := testutil.SetupTestDB(t)

		stock := testutil.CreateTestStockWithTicker(t, db, "AAPL")
		testutil.SetTestMetrics(t, db, stock.Ticker, 0.05, 0.2, 1.1)
		option := &models.Option{
			Symbol:     "AAPL270115C00100000",
			Underlying: "AAPL",
			Style:      models.StyleAmericanCall,
			LastUpdate: time.Now(),
			Strike:     100,
			Maturity:   time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		}
		testutil.AssertNoError(t, db.Create(option).Error)

		stocks := NewStockService(db)
		options := NewOptionService(db, chainGateway())
		return NewValuationService(stocks, options), func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("prices_from_stored_state", func(t *testing.T) {
		svc, done := setup(t)
		defer done()

		asOf := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		valuation, err := svc.ValueStoredOption("AAPL270115C00100000", 0.04, asOf)
		testutil.AssertNoError(t, err)

		if valuation.Style != models.StyleAmericanCall {
			t.Errorf("expected american call, got %s", valuation.Style)
		}
		if valuation.Value <= 0 {
			t.Errorf("expected positive value, got %g", valuation.Value)
		}
		// Spot 100, strike 100, one year out: the value stays near the
		// comparable European call.
		if valuation.Value < 5 || valuation.Value > 20 {
			t.Errorf("value %g outside plausible band", valuation.Value)
		}
	})

	t.Run("expired_contract_is_intrinsic", func(t *testing.T) {
		svc, done := setup(t)
		defer done()

		asOf := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		valuation, err := svc.ValueStoredOption("AAPL270115C00100000", 0.04, asOf)
		testutil.AssertNoError(t, err)
		// Fixture spot equals strike, so the expired call is worthless.
		testutil.AssertInDelta(t, 0, valuation.Value, 1e-12)
	})

	t.Run("missing_metrics", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		testutil.CreateTestStockWithTicker(t, db, "MSFT")
		testutil.CreateTestOption(t, db, "MSFT", models.StyleAmericanPut)

		var option models.Option
		testutil.AssertNoError(t, db.First(&option, "underlying = ?", "MSFT").Error)

		svc := NewValuationService(NewStockService(db), NewOptionService(db, chainGateway()))
		_, err := svc.ValueStoredOption(option.Symbol, 0.04, time.Now())
		testutil.AssertAppError(t, err, "INSUFFICIENT_HISTORY")
	})

	t.Run("unknown_symbol", func(t *testing.T) {
		svc, done := setup(t)
		defer done()

		_, err := svc.ValueStoredOption("NOSUCH", 0.04, time.Now())
		testutil.AssertAppError(t, err, "OPTION_NOT_FOUND")
	})
}
