package services

import (
	"errors"
	"time"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/pricing"
)

// valuationService prices option contracts.
type valuationService struct {
	stocks  StockServicer
	options OptionServicer
}

// NewValuationService creates a new ValuationServicer.
func NewValuationService(stocks StockServicer, options OptionServicer) ValuationServicer {
	return &valuationService{stocks: stocks, options: options}
}

// ValueOption prices a contract style at the given parameters. The value is
// always computed; when the sensitivities are undefined (expired or
// zero-volatility inputs) the valuation carries a warning instead of greeks.
func (s *valuationService) ValueOption(style models.OptionStyle, params pricing.Params) (*Valuation, error) {
	model, err := pricing.ForStyle(style)
	if err != nil {
		return nil, err
	}

	value, err := model.Value(params)
	if err != nil {
		return nil, err
	}

	valuation := &Valuation{Style: style, Value: value}
	greeks, err := model.Greeks(params)
	switch {
	case err == nil:
		valuation.Greeks = &greeks
	case errors.Is(err, apperrors.ErrComputation):
		valuation.Warnings = append(valuation.Warnings, err.Error())
	default:
		return nil, err
	}
	return valuation, nil
}

// ValueStoredOption prices a stored contract: spot and dividend yield come
// from the underlying stock's last quote, volatility from its derived
// metrics, and time to expiry from the contract maturity relative to asOf.
func (s *valuationService) ValueStoredOption(symbol string, rate float64, asOf time.Time) (*Valuation, error) {
	option, err := s.options.GetOption(symbol)
	if err != nil {
		return nil, err
	}

	stock, err := s.stocks.GetStock(option.Underlying)
	if err != nil {
		if errors.Is(err, apperrors.ErrStockNotFound) {
			return nil, apperrors.ErrUnknownUnderlying
		}
		return nil, err
	}
	if stock.MetricsUpdatedAt == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientHistory,
			"Underlying has no derived volatility; refresh it first")
	}

	expiry := option.Maturity.Sub(asOf).Hours() / (24 * 365)
	if expiry < 0 {
		expiry = 0
	}

	params := pricing.Params{
		Spot:     stock.LastPrice,
		Strike:   option.Strike,
		Rate:     rate,
		Dividend: stock.DivYield,
		Vol:      stock.Vol,
		Expiry:   expiry,
	}
	return s.ValueOption(option.Style, params)
}
