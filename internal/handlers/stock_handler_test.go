package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "stocklab/internal/errors"
	"stocklab/internal/models"
	"stocklab/internal/pagination"
	"stocklab/internal/services"
	"stocklab/internal/validator"
)

// --- mock services ---

type mockStockService struct {
	getStockFn     func(ticker string) (*models.Stock, error)
	listStocksFn   func(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
	getStatementFn func(ticker string, kind models.StatementKind) (interface{}, error)
	getMetricsFn   func(ticker string) (*services.MetricsView, error)
	tickersFn      func() ([]string, error)
}

func (m *mockStockService) GetStock(ticker string) (*models.Stock, error) {
	if m.getStockFn != nil {
		return m.getStockFn(ticker)
	}
	return &models.Stock{Ticker: ticker}, nil
}

func (m *mockStockService) ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	if m.listStocksFn != nil {
		return m.listStocksFn(page)
	}
	resp := pagination.NewPageResponse([]models.Stock{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockStockService) GetStatement(ticker string, kind models.StatementKind) (interface{}, error) {
	if m.getStatementFn != nil {
		return m.getStatementFn(ticker, kind)
	}
	return &models.IncomeStatement{Ticker: ticker}, nil
}

func (m *mockStockService) GetMetrics(ticker string) (*services.MetricsView, error) {
	if m.getMetricsFn != nil {
		return m.getMetricsFn(ticker)
	}
	return &services.MetricsView{Ticker: ticker}, nil
}

func (m *mockStockService) Tickers() ([]string, error) {
	if m.tickersFn != nil {
		return m.tickersFn()
	}
	return nil, nil
}

type mockRefreshService struct {
	refreshFn      func(ctx context.Context, ticker string) (*services.RefreshResult, error)
	refreshBatchFn func(ctx context.Context, tickers []string) ([]services.RefreshResult, error)
	refreshAllFn   func(ctx context.Context) ([]services.RefreshResult, error)
}

func (m *mockRefreshService) Refresh(ctx context.Context, ticker string) (*services.RefreshResult, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, ticker)
	}
	return &services.RefreshResult{Ticker: ticker}, nil
}

func (m *mockRefreshService) RefreshBatch(ctx context.Context, tickers []string) ([]services.RefreshResult, error) {
	if m.refreshBatchFn != nil {
		return m.refreshBatchFn(ctx, tickers)
	}
	return nil, nil
}

func (m *mockRefreshService) RefreshAll(ctx context.Context) ([]services.RefreshResult, error) {
	if m.refreshAllFn != nil {
		return m.refreshAllFn(ctx)
	}
	return nil, nil
}

// verify interface compliance
var (
	_ services.StockServicer   = (*mockStockService)(nil)
	_ services.RefreshServicer = (*mockRefreshService)(nil)
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupStockRouter(handler *StockHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks", handler.ListStocks)
	r.POST("/stocks/refresh", handler.RefreshBatch)
	r.GET("/stocks/:ticker", handler.GetStock)
	r.POST("/stocks/:ticker/refresh", handler.Refresh)
	r.GET("/stocks/:ticker/metrics", handler.GetMetrics)
	r.GET("/stocks/:ticker/statements/:kind", handler.GetStatement)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestStockHandler_GetStock(t *testing.T) {
	t.Run("returns 200 with the stored stock", func(t *testing.T) {
		stockSvc := &mockStockService{
			getStockFn: func(ticker string) (*models.Stock, error) {
				return &models.Stock{Ticker: "AAPL", LastPrice: 232.5, Currency: "USD"}, nil
			},
		}
		handler := NewStockHandler(stockSvc, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/AAPL", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		stock := result["stock"].(map[string]interface{})
		if stock["ticker"] != "AAPL" {
			t.Errorf("expected ticker AAPL, got %v", stock["ticker"])
		}
		if stock["last_price"] != 232.5 {
			t.Errorf("expected last_price 232.5, got %v", stock["last_price"])
		}
	})

	t.Run("returns 404 when the stock is not stored", func(t *testing.T) {
		stockSvc := &mockStockService{
			getStockFn: func(ticker string) (*models.Stock, error) {
				return nil, apperrors.ErrStockNotFound
			},
		}
		handler := NewStockHandler(stockSvc, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/ZZZZ", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STOCK_NOT_FOUND")
	})
}

func TestStockHandler_ListStocks(t *testing.T) {
	t.Run("returns paginated stocks", func(t *testing.T) {
		var gotPage pagination.PageRequest
		stockSvc := &mockStockService{
			listStocksFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
				gotPage = page
				resp := pagination.NewPageResponse([]models.Stock{
					{Ticker: "AAPL"},
					{Ticker: "MSFT"},
				}, page.Page, page.PageSize, 2)
				return &resp, nil
			},
		}
		handler := NewStockHandler(stockSvc, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks?page=1&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 1 || gotPage.PageSize != 10 {
			t.Errorf("expected page 1 size 10, got %+v", gotPage)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 stocks, got %d", len(data))
		}
	})
}

func TestStockHandler_Refresh(t *testing.T) {
	t.Run("returns 200 with the run result", func(t *testing.T) {
		refreshSvc := &mockRefreshService{
			refreshFn: func(_ context.Context, ticker string) (*services.RefreshResult, error) {
				return &services.RefreshResult{
					RunID:   "run-1",
					Ticker:  "AAPL",
					Quote:   services.OutcomeRefreshed,
					Metrics: services.OutcomeSkipped,
					Statements: map[models.StatementKind]services.StepOutcome{
						models.KindIncome: services.OutcomeRefreshed,
					},
				}, nil
			},
		}
		handler := NewStockHandler(&mockStockService{}, refreshSvc)
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/AAPL/refresh", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		run := result["result"].(map[string]interface{})
		if run["quote"] != "refreshed" {
			t.Errorf("expected quote refreshed, got %v", run["quote"])
		}
		if run["metrics"] != "skipped" {
			t.Errorf("expected metrics skipped, got %v", run["metrics"])
		}
	})

	t.Run("returns 502 when the vendor is unavailable", func(t *testing.T) {
		refreshSvc := &mockRefreshService{
			refreshFn: func(_ context.Context, _ string) (*services.RefreshResult, error) {
				return nil, apperrors.ErrVendorUnavailable
			},
		}
		handler := NewStockHandler(&mockStockService{}, refreshSvc)
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/AAPL/refresh", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VENDOR_UNAVAILABLE")
	})
}

func TestStockHandler_RefreshBatch(t *testing.T) {
	t.Run("returns 200 with per-ticker results", func(t *testing.T) {
		refreshSvc := &mockRefreshService{
			refreshBatchFn: func(_ context.Context, tickers []string) ([]services.RefreshResult, error) {
				results := make([]services.RefreshResult, len(tickers))
				for i, ticker := range tickers {
					results[i] = services.RefreshResult{Ticker: ticker, Quote: services.OutcomeRefreshed}
				}
				return results, nil
			},
		}
		handler := NewStockHandler(&mockStockService{}, refreshSvc)
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/refresh", `{"tickers":["AAPL","MSFT"]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		results := result["results"].([]interface{})
		if len(results) != 2 {
			t.Errorf("expected 2 results, got %d", len(results))
		}
	})

	t.Run("returns 400 when tickers are missing", func(t *testing.T) {
		handler := NewStockHandler(&mockStockService{}, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/refresh", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on an empty ticker list", func(t *testing.T) {
		handler := NewStockHandler(&mockStockService{}, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "POST", "/stocks/refresh", `{"tickers":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStockHandler_GetMetrics(t *testing.T) {
	t.Run("returns the derived metrics", func(t *testing.T) {
		stockSvc := &mockStockService{
			getMetricsFn: func(ticker string) (*services.MetricsView, error) {
				return &services.MetricsView{
					Ticker:    "AAPL",
					Drift:     0.08,
					Vol:       0.25,
					Beta:      1.2,
					UpdatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		handler := NewStockHandler(stockSvc, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/AAPL/metrics", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		metrics := result["metrics"].(map[string]interface{})
		if metrics["beta"] != 1.2 {
			t.Errorf("expected beta 1.2, got %v", metrics["beta"])
		}
	})

	t.Run("returns 422 when metrics were never computed", func(t *testing.T) {
		stockSvc := &mockStockService{
			getMetricsFn: func(ticker string) (*services.MetricsView, error) {
				return nil, apperrors.ErrInsufficientHistory
			},
		}
		handler := NewStockHandler(stockSvc, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/AAPL/metrics", "")

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_HISTORY")
	})
}

func TestStockHandler_GetStatement(t *testing.T) {
	t.Run("returns the stored statement", func(t *testing.T) {
		var gotKind models.StatementKind
		stockSvc := &mockStockService{
			getStatementFn: func(ticker string, kind models.StatementKind) (interface{}, error) {
				gotKind = kind
				return &models.IncomeStatement{
					Ticker:    "AAPL",
					DateIndex: "2024-12-31:2023-12-31",
				}, nil
			},
		}
		handler := NewStockHandler(stockSvc, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/AAPL/statements/income", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotKind != models.KindIncome {
			t.Errorf("expected kind income, got %q", gotKind)
		}
		result := parseJSON(t, rec)
		statement := result["statement"].(map[string]interface{})
		if statement["date_index"] != "2024-12-31:2023-12-31" {
			t.Errorf("unexpected date_index: %v", statement["date_index"])
		}
	})

	t.Run("returns 400 on an unknown statement kind", func(t *testing.T) {
		stockSvc := &mockStockService{
			getStatementFn: func(ticker string, kind models.StatementKind) (interface{}, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown statement kind")
			},
		}
		handler := NewStockHandler(stockSvc, &mockRefreshService{})
		r := setupStockRouter(handler)

		rec := doRequest(r, "GET", "/stocks/AAPL/statements/proforma", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}
