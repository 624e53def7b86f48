package normalize

import (
	"testing"
	"time"

	"stocklab/internal/models"
	"stocklab/internal/provider"
	"stocklab/internal/testutil"
)

func fp(v float64) *float64 { return &v }

func rawIncomeTable() *provider.RawStatementTable {
	return &provider.RawStatementTable{
		Kind:    models.KindIncome,
		Unit:    "USD",
		Periods: []string{"2024-09-30", "2023-09-30", "2022-09-30"},
		Rows: map[string][]*float64{
			"Total Revenue": {fp(391035000000), fp(383285000000), fp(394328000000)},
			"Gross Profit":  {fp(180683000000), nil, fp(170782000000)},
		},
	}
}

func TestNormalizeIncome(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("tokens_align_with_date_index", func(t *testing.T) {
		row, err := NormalizeIncome("AAPL", rawIncomeTable(), now)
		testutil.AssertNoError(t, err)

		if row.Ticker != "AAPL" {
			t.Errorf("expected ticker AAPL, got %s", row.Ticker)
		}
		if !row.LastUpdate.Equal(now) {
			t.Errorf("expected last update %v, got %v", now, row.LastUpdate)
		}
		if row.DateIndex != "2024-09-30:2023-09-30:2022-09-30" {
			t.Errorf("unexpected date index %s", row.DateIndex)
		}
		if row.Unit != "USD" {
			t.Errorf("expected unit USD, got %s", row.Unit)
		}
		if row.TotalRevenue != "391035000000:383285000000:394328000000" {
			t.Errorf("unexpected total revenue %s", row.TotalRevenue)
		}
		// nil cell preserves its position as an empty token
		if row.GrossProfit != "180683000000::170782000000" {
			t.Errorf("unexpected gross profit %s", row.GrossProfit)
		}
	})

	t.Run("absent_row_leaves_column_empty", func(t *testing.T) {
		row, err := NormalizeIncome("AAPL", rawIncomeTable(), now)
		testutil.AssertNoError(t, err)

		if row.EBITDA != "" {
			t.Errorf("expected empty EBITDA, got %s", row.EBITDA)
		}
	})

	t.Run("default_unit", func(t *testing.T) {
		raw := rawIncomeTable()
		raw.Unit = ""
		row, err := NormalizeIncome("AAPL", raw, now)
		testutil.AssertNoError(t, err)
		if row.Unit != DefaultUnit {
			t.Errorf("expected unit %s, got %s", DefaultUnit, row.Unit)
		}
	})

	t.Run("unknown_vendor_rows_ignored", func(t *testing.T) {
		raw := rawIncomeTable()
		raw.Rows["Some Future Vendor Row"] = []*float64{fp(1), fp(2), fp(3)}
		_, err := NormalizeIncome("AAPL", raw, now)
		testutil.AssertNoError(t, err)
	})
}

func TestNormalizeShapeMismatch(t *testing.T) {
	now := time.Now()

	t.Run("row_cell_count_differs", func(t *testing.T) {
		raw := rawIncomeTable()
		raw.Rows["Total Revenue"] = []*float64{fp(1), fp(2)}
		_, err := NormalizeIncome("AAPL", raw, now)
		testutil.AssertAppError(t, err, "SHAPE_MISMATCH")
	})

	t.Run("empty_period_axis", func(t *testing.T) {
		raw := &provider.RawStatementTable{Kind: models.KindIncome, Rows: map[string][]*float64{}}
		_, err := NormalizeIncome("AAPL", raw, now)
		testutil.AssertAppError(t, err, "SHAPE_MISMATCH")
	})

	t.Run("duplicate_period_label", func(t *testing.T) {
		raw := rawIncomeTable()
		raw.Periods = []string{"2024-09-30", "2024-09-30", "2022-09-30"}
		_, err := NormalizeIncome("AAPL", raw, now)
		testutil.AssertAppError(t, err, "SHAPE_MISMATCH")
	})

	t.Run("separator_in_period_label", func(t *testing.T) {
		raw := rawIncomeTable()
		raw.Periods = []string{"2024:09", "2023-09-30", "2022-09-30"}
		_, err := NormalizeIncome("AAPL", raw, now)
		testutil.AssertAppError(t, err, "SHAPE_MISMATCH")
	})
}

// TestEveryColumnAligns feeds a fully populated table of each kind and checks
// that every produced line item has exactly one token per period.
func TestEveryColumnAligns(t *testing.T) {
	now := time.Now()
	periods := []string{"2024-12-31", "2023-12-31"}

	fullTable := func(kind models.StatementKind) *provider.RawStatementTable {
		rows := make(map[string][]*float64)
		for i, label := range provider.StatementLabels(kind) {
			rows[label] = []*float64{fp(float64(i + 1)), fp(float64(-i))}
		}
		return &provider.RawStatementTable{Kind: kind, Unit: "USD", Periods: periods, Rows: rows}
	}

	check := func(t *testing.T, dateIndex string, items map[string]string) {
		t.Helper()
		wantTokens := models.TokenCount(dateIndex)
		if wantTokens != len(periods) {
			t.Fatalf("expected %d periods in date index, got %d", len(periods), wantTokens)
		}
		for column, encoded := range items {
			if encoded == "" {
				t.Errorf("column %s was not populated", column)
				continue
			}
			if got := models.TokenCount(encoded); got != wantTokens {
				t.Errorf("column %s has %d tokens, want %d", column, got, wantTokens)
			}
		}
	}

	t.Run("income", func(t *testing.T) {
		row, err := NormalizeIncome("T", fullTable(models.KindIncome), now)
		testutil.AssertNoError(t, err)
		check(t, row.DateIndex, row.LineItems())
	})

	t.Run("balance", func(t *testing.T) {
		row, err := NormalizeBalance("T", fullTable(models.KindBalance), now)
		testutil.AssertNoError(t, err)
		check(t, row.DateIndex, row.LineItems())
	})

	t.Run("cashflow", func(t *testing.T) {
		row, err := NormalizeCashFlow("T", fullTable(models.KindCashFlow), now)
		testutil.AssertNoError(t, err)
		check(t, row.DateIndex, row.LineItems())
	})
}

// TestMappingMatchesVendorLabels keeps the static column mappings and the
// vendor's row label lists in lockstep.
func TestMappingMatchesVendorLabels(t *testing.T) {
	cases := []struct {
		kind   models.StatementKind
		labels []string
	}{
		{models.KindIncome, mappedLabels(incomeFields)},
		{models.KindBalance, mappedLabels(balanceFields)},
		{models.KindCashFlow, mappedLabels(cashFlowFields)},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			want := provider.StatementLabels(tc.kind)
			if len(tc.labels) != len(want) {
				t.Fatalf("mapping has %d labels, vendor lists %d", len(tc.labels), len(want))
			}
			for i := range want {
				if tc.labels[i] != want[i] {
					t.Errorf("label %d: mapping %q, vendor %q", i, tc.labels[i], want[i])
				}
			}
		})
	}
}

func mappedLabels[T any](fields []fieldSpec[T]) []string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.vendor
	}
	return labels
}
