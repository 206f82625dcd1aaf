package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ---- Persistent Store (STORE) ----

func ErrStoreUnavailable(err error) *AppError {
	return Wrap("STORE_001", "Storage backend failure", http.StatusInternalServerError, err)
}

func ErrCorruptSlot(slot string, err error) *AppError {
	return Wrap("STORE_002", fmt.Sprintf("Stored data in %s is malformed", slot), http.StatusInternalServerError, err)
}

// ---- Ledger (LEDGER) ----

func ErrLedgerNotLoaded() *AppError {
	return New("LEDGER_001", "Ledger has not been loaded", http.StatusServiceUnavailable)
}

func ErrWalletNotFound(walletID string) *AppError {
	return New("LEDGER_002", fmt.Sprintf("Wallet %q not found", walletID), http.StatusUnprocessableEntity)
}

func ErrUnsupportedCurrency(code string) *AppError {
	return New("LEDGER_003", fmt.Sprintf("Unsupported currency %q", code), http.StatusBadRequest)
}

func ErrNoTransactions() *AppError {
	return New("LEDGER_004", "Add transactions before requesting insights", http.StatusUnprocessableEntity)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid email or password", http.StatusUnauthorized)
}

func ErrDuplicateUser() *AppError {
	return New("AUTH_002", "User already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired session", http.StatusUnauthorized)
}

// ---- AI collaborators (AI) ----

func ErrAnalysisFailed(err error) *AppError {
	return Wrap("AI_001", "Receipt analysis failed", http.StatusBadGateway, err)
}

func ErrInsightUnavailable(err error) *AppError {
	return Wrap("AI_002", "Spending insights unavailable", http.StatusBadGateway, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ErrBodyTooLarge reports a request body over the route's limit.
func ErrBodyTooLarge(limit int64) *AppError {
	return New("VAL_002", fmt.Sprintf("Request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
}
