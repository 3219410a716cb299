package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrNumberingContention  = NewDomainError("NUMBERING_CONTENTION", "Could not allocate a unique document number, retry later")
	ErrAlreadyConverted     = NewDomainError("ALREADY_CONVERTED", "Quote has already been converted to a sale")
	ErrTransactionFailed    = NewDomainError("TRANSACTION_FAILED", "Atomic write aborted, no partial effects were applied")
	ErrInsufficientStock    = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrPaymentExceedsTotal  = NewDomainError("PAYMENT_EXCEEDS_BALANCE", "Payment exceeds the outstanding balance")
	ErrCurrencyMismatch     = NewDomainError("CURRENCY_MISMATCH", "Amounts carry different currencies")
	ErrConcurrencyConflict  = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrDocumentImmutable    = NewDomainError("DOCUMENT_IMMUTABLE", "Document can no longer be modified")
	ErrLedgerEntryImmutable = NewDomainError("LEDGER_ENTRY_IMMUTABLE", "Ledger transactions cannot be mutated, void with a compensating entry")
)
