package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/pagination"
	"stocklab/internal/services"
)

// StockHandler handles stock-related requests.
type StockHandler struct {
	stockService   services.StockServicer
	refreshService services.RefreshServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer, refreshService services.RefreshServicer) *StockHandler {
	return &StockHandler{stockService: stockService, refreshService: refreshService}
}

// RefreshBatchRequest represents the request payload for a batch refresh.
type RefreshBatchRequest struct {
	Tickers []string `json:"tickers" binding:"required,min=1,dive,min=1"`
}

// Refresh handles running the acquisition pipeline for one ticker.
func (h *StockHandler) Refresh(c *gin.Context) {
	ticker, err := parseTicker(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.refreshService.Refresh(c.Request.Context(), ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// RefreshBatch handles running the acquisition pipeline for many tickers.
func (h *StockHandler) RefreshBatch(c *gin.Context) {
	var req RefreshBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	results, err := h.refreshService.RefreshBatch(c.Request.Context(), req.Tickers)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ListStocks handles listing stored stocks.
func (h *StockHandler) ListStocks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.stockService.ListStocks(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStock handles fetching one stored stock.
func (h *StockHandler) GetStock(c *gin.Context) {
	ticker, err := parseTicker(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stock, err := h.stockService.GetStock(ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": stock})
}

// GetMetrics handles fetching the derived metrics for a stock.
func (h *StockHandler) GetMetrics(c *gin.Context) {
	ticker, err := parseTicker(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics, err := h.stockService.GetMetrics(ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// GetStatement handles fetching one stored statement by kind.
func (h *StockHandler) GetStatement(c *gin.Context) {
	ticker, err := parseTicker(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	kind := models.StatementKind(c.Param("kind"))
	statement, err := h.stockService.GetStatement(ticker, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"statement": statement})
}
