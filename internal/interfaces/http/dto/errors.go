package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes already;
// the handler layer only adds the transport-level ones.
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"

	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeAlreadyConverted     = "ALREADY_CONVERTED"
	ErrCodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
	ErrCodeNumberingContention  = "NUMBERING_CONTENTION"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodePaymentExceeds       = "PAYMENT_EXCEEDS_BALANCE"
	ErrCodeCurrencyMismatch     = "CURRENCY_MISMATCH"
	ErrCodeDocumentImmutable    = "DOCUMENT_IMMUTABLE"
	ErrCodeLedgerImmutable      = "LEDGER_ENTRY_IMMUTABLE"
	ErrCodeTransactionFailed    = "TRANSACTION_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Conflicts over
// a resource's identity map to 409, business rule rejections to 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeAlreadyConverted:    http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeNumberingContention: http.StatusConflict,

	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodePaymentExceeds:   http.StatusUnprocessableEntity,
	ErrCodeCurrencyMismatch: http.StatusUnprocessableEntity,
	ErrCodeDocumentImmutable: http.StatusUnprocessableEntity,
	ErrCodeLedgerImmutable:  http.StatusUnprocessableEntity,

	ErrCodeTransactionFailed: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting
// to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
