package models

import (
	"strconv"
	"strings"

	apperrors "stocklab/internal/errors"
)

// SeriesSep joins one token per fiscal period inside a statement column.
// Period labels are ISO dates, so the colon never collides with data.
const SeriesSep = ":"

// EncodeSeries renders one token per period in the given order. A nil cell
// becomes an empty token; the sequence is never shortened for missing values.
func EncodeSeries(cells []*float64) string {
	if len(cells) == 0 {
		return ""
	}
	tokens := make([]string, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		tokens[i] = strconv.FormatFloat(*c, 'f', -1, 64)
	}
	return strings.Join(tokens, SeriesSep)
}

// SplitSeries splits an encoded series into its tokens. An empty field has
// zero tokens.
func SplitSeries(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, SeriesSep)
}

// TokenCount returns the number of tokens in an encoded series.
func TokenCount(encoded string) int {
	return len(SplitSeries(encoded))
}

// DecodeSeries maps period labels from dateIndex onto the values of an
// encoded field. Empty tokens (missing cells) are skipped. Returns
// ErrShapeMismatch when a non-empty field's token count differs from the
// dateIndex, and ErrInvalidInput when a token is not numeric.
func DecodeSeries(dateIndex, field string) (map[string]float64, error) {
	if field == "" {
		return map[string]float64{}, nil
	}
	periods := SplitSeries(dateIndex)
	tokens := SplitSeries(field)
	if len(tokens) != len(periods) {
		return nil, apperrors.WithMessage(apperrors.ErrShapeMismatch,
			"Stored field has "+strconv.Itoa(len(tokens))+" tokens for "+strconv.Itoa(len(periods))+" periods")
	}

	values := make(map[string]float64, len(tokens))
	for i, tok := range tokens {
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
		values[periods[i]] = v
	}
	return values, nil
}
