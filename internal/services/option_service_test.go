package services

import (
	"context"
	"testing"
	"time"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/pagination"
	"stocklab/internal/provider"
	"stocklab/internal/testutil"
)

func chainGateway(contracts ...provider.RawOptionContract) *mockGateway {
	return &mockGateway{chain: contracts}
}

func sampleContract(symbol string, style models.OptionStyle, strike, price float64) provider.RawOptionContract {
	return provider.RawOptionContract{
		Symbol:    symbol,
		Style:     style,
		Strike:    strike,
		Maturity:  time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		LastPrice: price,
	}
}

func TestSyncOptions(t *testing.T) {
	t.Run("creates_new_contracts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestStockWithTicker(t, db, "AAPL")

		gateway := chainGateway(
			sampleContract("AAPL270115C00230000", models.StyleAmericanCall, 230, 12.4),
			sampleContract("AAPL270115P00230000", models.StyleAmericanPut, 230, 9.1),
		)
		svc := NewOptionService(db, gateway)

		result, err := svc.SyncOptions(context.Background(), "AAPL")
		testutil.AssertNoError(t, err)

		if result.Created != 2 || result.Updated != 0 {
			t.Errorf("expected 2 created / 0 updated, got %d/%d", result.Created, result.Updated)
		}

		option, err := svc.GetOption("AAPL270115C00230000")
		testutil.AssertNoError(t, err)
		if option.Underlying != "AAPL" {
			t.Errorf("expected underlying AAPL, got %s", option.Underlying)
		}
		if option.Style != models.StyleAmericanCall {
			t.Errorf("expected american call, got %s", option.Style)
		}
	})

	t.Run("resync_updates_price_not_terms", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestStockWithTicker(t, db, "AAPL")

		gateway := chainGateway(sampleContract("AAPL270115C00230000", models.StyleAmericanCall, 230, 12.4))
		svc := NewOptionService(db, gateway)

		_, err := svc.SyncOptions(context.Background(), "AAPL")
		testutil.AssertNoError(t, err)

		// The vendor re-lists the contract with moved price and, absurdly,
		// different terms. Terms must not move on the stored row.
		moved := sampleContract("AAPL270115C00230000", models.StyleAmericanCall, 999, 13.7)
		moved.Maturity = moved.Maturity.AddDate(1, 0, 0)
		gateway.chain = []provider.RawOptionContract{moved}

		result, err := svc.SyncOptions(context.Background(), "AAPL")
		testutil.AssertNoError(t, err)
		if result.Created != 0 || result.Updated != 1 {
			t.Errorf("expected 0 created / 1 updated, got %d/%d", result.Created, result.Updated)
		}

		option, err := svc.GetOption("AAPL270115C00230000")
		testutil.AssertNoError(t, err)
		if option.LastPrice != 13.7 {
			t.Errorf("expected updated price 13.7, got %g", option.LastPrice)
		}
		if option.Strike != 230 {
			t.Errorf("expected immutable strike 230, got %g", option.Strike)
		}
		if option.Maturity.Year() != 2027 {
			t.Errorf("expected immutable maturity year 2027, got %d", option.Maturity.Year())
		}
	})

	t.Run("unknown_underlying", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewOptionService(db, chainGateway())
		_, err := svc.SyncOptions(context.Background(), "NOSUCH")
		testutil.AssertAppError(t, err, "UNKNOWN_UNDERLYING")
	})

	t.Run("vendor_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestStockWithTicker(t, db, "AAPL")

		gateway := chainGateway()
		gateway.chainErr = apperrors.ErrVendorRateLimited
		svc := NewOptionService(db, gateway)

		_, err := svc.SyncOptions(context.Background(), "AAPL")
		testutil.AssertAppError(t, err, "VENDOR_RATE_LIMITED")
	})
}

func TestGetOption(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewOptionService(db, chainGateway())

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.GetOption("NOSUCH")
		testutil.AssertAppError(t, err, "OPTION_NOT_FOUND")
	})

	t.Run("empty_symbol", func(t *testing.T) {
		_, err := svc.GetOption("  ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListOptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	testutil.CreateTestStockWithTicker(t, db, "AAPL")
	testutil.CreateTestStockWithTicker(t, db, "MSFT")
	testutil.CreateTestOption(t, db, "AAPL", models.StyleAmericanCall)
	testutil.CreateTestOption(t, db, "AAPL", models.StyleAmericanPut)
	testutil.CreateTestOption(t, db, "MSFT", models.StyleAmericanCall)

	svc := NewOptionService(db, chainGateway())

	t.Run("all", func(t *testing.T) {
		page, err := svc.ListOptions("", pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3 options, got %d", page.TotalItems)
		}
	})

	t.Run("filtered_by_underlying", func(t *testing.T) {
		page, err := svc.ListOptions("aapl", pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 AAPL options, got %d", page.TotalItems)
		}
		for _, o := range page.Data {
			if o.Underlying != "AAPL" {
				t.Errorf("unexpected underlying %s", o.Underlying)
			}
		}
	})

	t.Run("paginated", func(t *testing.T) {
		page, err := svc.ListOptions("", pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 2 {
			t.Errorf("expected 2 items on page, got %d", len(page.Data))
		}
		if page.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", page.TotalPages)
		}
	})
}
