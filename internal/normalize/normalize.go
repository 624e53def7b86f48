// Package normalize maps raw vendor statement tables onto the fixed
// relational schema. Vendor rows are resolved through static mapping tables
// (one per statement kind) pairing a vendor row label with a typed setter on
// the model struct; nothing is matched by reflection or name guessing.
package normalize

import (
	"fmt"
	"strings"
	"time"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/provider"
)

// DefaultUnit is used when the vendor reports no unit metadata.
const DefaultUnit = "units"

// fieldSpec binds one vendor row label to the setter for its fixed-schema column.
type fieldSpec[T any] struct {
	vendor string
	assign func(row *T, encoded string)
}

// validateAxis checks the central shape invariant of a raw table: a single
// non-empty period axis shared by every row it includes.
func validateAxis(raw *provider.RawStatementTable) error {
	if len(raw.Periods) == 0 {
		return apperrors.WithMessage(apperrors.ErrShapeMismatch, "Vendor table has no period axis")
	}
	seen := make(map[string]bool, len(raw.Periods))
	for _, p := range raw.Periods {
		if p == "" || strings.Contains(p, models.SeriesSep) {
			return apperrors.WithMessage(apperrors.ErrShapeMismatch, fmt.Sprintf("Invalid period label %q", p))
		}
		if seen[p] {
			return apperrors.WithMessage(apperrors.ErrShapeMismatch, "Duplicate period label "+p)
		}
		seen[p] = true
	}
	for label, cells := range raw.Rows {
		if len(cells) != len(raw.Periods) {
			return apperrors.WithMessage(apperrors.ErrShapeMismatch,
				fmt.Sprintf("Row %q has %d cells for %d periods", label, len(cells), len(raw.Periods)))
		}
	}
	return nil
}

// normalizeTable fills the line-item columns of row from raw. A present
// vendor row becomes one token per period (empty token for a missing cell);
// an absent vendor row leaves the column empty. The raw table is validated
// first, so no partially filled row ever escapes on error.
func normalizeTable[T any](row *T, fields []fieldSpec[T], raw *provider.RawStatementTable) (dateIndex, unit string, err error) {
	if err := validateAxis(raw); err != nil {
		return "", "", err
	}

	for _, f := range fields {
		cells, ok := raw.Rows[f.vendor]
		if !ok {
			f.assign(row, "")
			continue
		}
		f.assign(row, models.EncodeSeries(cells))
	}

	unit = raw.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	return strings.Join(raw.Periods, models.SeriesSep), unit, nil
}

// NormalizeIncome produces a fixed-schema income statement row.
func NormalizeIncome(ticker string, raw *provider.RawStatementTable, now time.Time) (*models.IncomeStatement, error) {
	row := &models.IncomeStatement{Ticker: ticker, LastUpdate: now}
	dateIndex, unit, err := normalizeTable(row, incomeFields, raw)
	if err != nil {
		return nil, err
	}
	row.DateIndex = dateIndex
	row.Unit = unit
	return row, nil
}

// NormalizeBalance produces a fixed-schema balance sheet row.
func NormalizeBalance(ticker string, raw *provider.RawStatementTable, now time.Time) (*models.BalanceSheet, error) {
	row := &models.BalanceSheet{Ticker: ticker, LastUpdate: now}
	dateIndex, unit, err := normalizeTable(row, balanceFields, raw)
	if err != nil {
		return nil, err
	}
	row.DateIndex = dateIndex
	row.Unit = unit
	return row, nil
}

// NormalizeCashFlow produces a fixed-schema cash flow statement row.
func NormalizeCashFlow(ticker string, raw *provider.RawStatementTable, now time.Time) (*models.CashFlowStatement, error) {
	row := &models.CashFlowStatement{Ticker: ticker, LastUpdate: now}
	dateIndex, unit, err := normalizeTable(row, cashFlowFields, raw)
	if err != nil {
		return nil, err
	}
	row.DateIndex = dateIndex
	row.Unit = unit
	return row, nil
}
