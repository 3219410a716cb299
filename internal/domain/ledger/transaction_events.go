package ledger

import (
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTransaction = "LedgerTransaction"

// Event type constants
const (
	EventTypeTransactionRecorded    = "LedgerTransactionRecorded"
	EventTypeTransactionCompensated = "LedgerTransactionCompensated"
)

// TransactionRecordedEvent is raised when a ledger entry is appended
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Number        string          `json:"number"`
	Kind          Kind            `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(t *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		Number:          t.Number,
		Kind:            t.Kind,
		Amount:          t.Amount,
	}
}

// EventType returns the event type name
func (e *TransactionRecordedEvent) EventType() string {
	return EventTypeTransactionRecorded
}

// TransactionCompensatedEvent is raised when an adjustment voids an entry
type TransactionCompensatedEvent struct {
	shared.BaseDomainEvent
	TransactionID  uuid.UUID `json:"transaction_id"`
	Number         string    `json:"number"`
	OriginalID     uuid.UUID `json:"original_id"`
	OriginalNumber string    `json:"original_number"`
}

// NewTransactionCompensatedEvent creates a new TransactionCompensatedEvent
func NewTransactionCompensatedEvent(t *Transaction, original *Transaction) *TransactionCompensatedEvent {
	return &TransactionCompensatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCompensated, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		Number:          t.Number,
		OriginalID:      original.ID,
		OriginalNumber:  original.Number,
	}
}

// EventType returns the event type name
func (e *TransactionCompensatedEvent) EventType() string {
	return EventTypeTransactionCompensated
}
