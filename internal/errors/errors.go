// Package errors provides custom error types for the stocklab API.
// All service-layer errors should use AppError to ensure consistent,
// typed failure reasons that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is the same sentinel, matched by Code, so that
// wrapped and re-messaged AppErrors still compare equal with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Vendor gateway errors. All three are non-fatal to a refresh cycle: the
// previously stored rows stay in place and the caller receives a warning.
var (
	ErrVendorNotFound    = &AppError{Code: "VENDOR_NOT_FOUND", Message: "Vendor has no data for this symbol", StatusCode: http.StatusNotFound}
	ErrVendorRateLimited = &AppError{Code: "VENDOR_RATE_LIMITED", Message: "Vendor rate limit exceeded", StatusCode: http.StatusTooManyRequests}
	ErrVendorUnavailable = &AppError{Code: "VENDOR_UNAVAILABLE", Message: "Vendor data source is unavailable", StatusCode: http.StatusBadGateway}
)

// Normalization errors.
var (
	ErrShapeMismatch = &AppError{Code: "SHAPE_MISMATCH", Message: "Vendor statement rows do not share a single period axis", StatusCode: http.StatusBadGateway}
)

// Metrics errors.
var (
	ErrInsufficientHistory = &AppError{Code: "INSUFFICIENT_HISTORY", Message: "Not enough aligned price history to compute metrics", StatusCode: http.StatusUnprocessableEntity}
	ErrComputation         = &AppError{Code: "COMPUTATION_ERROR", Message: "Computation failed on degenerate numeric input", StatusCode: http.StatusUnprocessableEntity}
)

// Option valuation errors.
var (
	ErrInvalidParameters = &AppError{Code: "INVALID_PARAMETERS", Message: "Option pricing parameters violate preconditions", StatusCode: http.StatusBadRequest}
	ErrUnknownStyle      = &AppError{Code: "UNKNOWN_STYLE", Message: "Unsupported option style", StatusCode: http.StatusBadRequest}
)

// Stock errors.
var (
	ErrStockNotFound = &AppError{Code: "STOCK_NOT_FOUND", Message: "Stock not found", StatusCode: http.StatusNotFound}
)

// Statement errors.
var (
	ErrStatementNotFound = &AppError{Code: "STATEMENT_NOT_FOUND", Message: "No stored statement for this ticker", StatusCode: http.StatusNotFound}
)

// Option errors.
var (
	ErrOptionNotFound    = &AppError{Code: "OPTION_NOT_FOUND", Message: "Option contract not found", StatusCode: http.StatusNotFound}
	ErrUnknownUnderlying = &AppError{Code: "UNKNOWN_UNDERLYING", Message: "Option references a stock that does not exist", StatusCode: http.StatusConflict}
)
