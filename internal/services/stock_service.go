package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/pagination"
)

// stockService handles stored stock data reads.
type stockService struct {
	db *gorm.DB
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB) StockServicer {
	return &stockService{db: db}
}

// canonicalTicker trims and upper-cases a ticker for use as a primary key.
func canonicalTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}
	return t, nil
}

// GetStock returns the stored row for a ticker.
func (s *stockService) GetStock(ticker string) (*models.Stock, error) {
	t, err := canonicalTicker(ticker)
	if err != nil {
		return nil, err
	}

	var stock models.Stock
	if err := s.db.First(&stock, "ticker = ?", t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// ListStocks returns a paginated list of stored stocks ordered by ticker.
func (s *stockService) ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Stock{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stocks []models.Stock
	if err := base.Order("ticker ASC").Scopes(pagination.Paginate(page)).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stocks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetStatement returns the stored statement of the given kind for a ticker.
func (s *stockService) GetStatement(ticker string, kind models.StatementKind) (interface{}, error) {
	t, err := canonicalTicker(ticker)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unknown statement kind %q", kind))
	}

	var row interface{}
	switch kind {
	case models.KindIncome:
		row = &models.IncomeStatement{}
	case models.KindBalance:
		row = &models.BalanceSheet{}
	case models.KindCashFlow:
		row = &models.CashFlowStatement{}
	}

	if err := s.db.First(row, "ticker = ?", t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStatementNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

// GetMetrics returns the derived drift/vol/beta for a ticker. A stock whose
// metrics have never been computed reports insufficient history.
func (s *stockService) GetMetrics(ticker string) (*MetricsView, error) {
	stock, err := s.GetStock(ticker)
	if err != nil {
		return nil, err
	}
	if stock.MetricsUpdatedAt == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientHistory,
			"Metrics have not been computed for this ticker yet")
	}
	return &MetricsView{
		Ticker:    stock.Ticker,
		Drift:     stock.Drift,
		Vol:       stock.Vol,
		Beta:      stock.Beta,
		UpdatedAt: *stock.MetricsUpdatedAt,
	}, nil
}

// Tickers returns every stored ticker ordered alphabetically.
func (s *stockService) Tickers() ([]string, error) {
	var tickers []string
	if err := s.db.Model(&models.Stock{}).Order("ticker ASC").Pluck("ticker", &tickers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tickers, nil
}
