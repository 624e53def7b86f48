package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/pagination"
	"stocklab/internal/pricing"
	"stocklab/internal/services"
)

// OptionHandler handles option-related requests.
type OptionHandler struct {
	optionService    services.OptionServicer
	valuationService services.ValuationServicer
}

// NewOptionHandler creates a new OptionHandler.
func NewOptionHandler(optionService services.OptionServicer, valuationService services.ValuationServicer) *OptionHandler {
	return &OptionHandler{optionService: optionService, valuationService: valuationService}
}

// ValueOptionRequest represents the request payload for an ad-hoc valuation.
type ValueOptionRequest struct {
	Style  models.OptionStyle `json:"style" binding:"required,option_style"`
	Params pricing.Params     `json:"params" binding:"required"`
}

// ValueStoredOptionRequest represents the request payload for valuing a
// stored contract.
type ValueStoredOptionRequest struct {
	Rate float64    `json:"rate"`
	AsOf *time.Time `json:"as_of,omitempty"`
}

// SyncOptions handles pulling the option chain for a stored stock.
func (h *OptionHandler) SyncOptions(c *gin.Context) {
	ticker, err := parseTicker(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.optionService.SyncOptions(c.Request.Context(), ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ListOptions handles listing stored contracts, optionally by underlying.
func (h *OptionHandler) ListOptions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.optionService.ListOptions(c.Query("underlying"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOption handles fetching one stored contract.
func (h *OptionHandler) GetOption(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required"))
		return
	}

	option, err := h.optionService.GetOption(symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// ValueOption handles pricing an arbitrary contract from request parameters.
func (h *OptionHandler) ValueOption(c *gin.Context) {
	var req ValueOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	valuation, err := h.valuationService.ValueOption(req.Style, req.Params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valuation": valuation})
}

// ValueStoredOption handles pricing a stored contract against its
// underlying's latest quote and derived volatility.
func (h *OptionHandler) ValueStoredOption(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required"))
		return
	}

	var req ValueStoredOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	valuation, err := h.valuationService.ValueStoredOption(symbol, req.Rate, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valuation": valuation})
}
