package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/pagination"
	"stocklab/internal/provider"
)

// optionService handles stored option contracts.
type optionService struct {
	db      *gorm.DB
	gateway provider.Gateway
	now     func() time.Time
}

// NewOptionService creates a new OptionServicer.
func NewOptionService(db *gorm.DB, gateway provider.Gateway) OptionServicer {
	return &optionService{db: db, gateway: gateway, now: time.Now}
}

// SyncOptions pulls the vendor option chain for a stored stock and upserts
// each contract. An existing contract only moves its price and timestamp:
// strike and maturity identify the instrument and never change.
func (s *optionService) SyncOptions(ctx context.Context, ticker string) (*SyncResult, error) {
	t, err := canonicalTicker(ticker)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Stock{}).Where("ticker = ?", t).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrUnknownUnderlying
	}

	contracts, err := s.gateway.FetchOptionChain(ctx, t)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Ticker: t}
	now := s.now()
	for _, c := range contracts {
		if !c.Style.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrUnknownStyle,
				"Vendor chain contains an unsupported contract style")
		}

		var existing models.Option
		err := s.db.First(&existing, "symbol = ?", c.Symbol).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := models.Option{
				Symbol:     c.Symbol,
				Underlying: t,
				Style:      c.Style,
				LastUpdate: now,
				LastPrice:  c.LastPrice,
				Strike:     c.Strike,
				Maturity:   c.Maturity,
			}
			if err := s.db.Create(&row).Error; err != nil {
				return result, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Created++
		case err != nil:
			return result, apperrors.Wrap(apperrors.ErrInternalServer, err)
		default:
			patch := map[string]interface{}{
				"last_price":  c.LastPrice,
				"last_update": now,
			}
			if err := s.db.Model(&existing).Updates(patch).Error; err != nil {
				return result, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Updated++
		}
	}
	return result, nil
}

// GetOption returns a stored contract by its vendor symbol.
func (s *optionService) GetOption(symbol string) (*models.Option, error) {
	sym := strings.TrimSpace(symbol)
	if sym == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}

	var option models.Option
	if err := s.db.First(&option, "symbol = ?", sym).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &option, nil
}

// ListOptions returns a paginated contract list, optionally filtered by
// underlying ticker.
func (s *optionService) ListOptions(underlying string, page pagination.PageRequest) (*pagination.PageResponse[models.Option], error) {
	page.Defaults()

	base := s.db.Model(&models.Option{})
	if u := strings.ToUpper(strings.TrimSpace(underlying)); u != "" {
		base = base.Where("underlying = ?", u)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var options []models.Option
	if err := base.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&options).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(options, page.Page, page.PageSize, totalItems)
	return &result, nil
}
