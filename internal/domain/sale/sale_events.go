package sale

import (
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated         = "SaleCreated"
	EventTypeSalePaymentRecorded = "SalePaymentRecorded"
	EventTypeSaleCollected       = "SaleCollected"
	EventTypeSaleCancelled       = "SaleCancelled"
)

// SaleCreatedEvent is raised when a new sale is created, whether directly
// or by converting a quote
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID   uuid.UUID       `json:"sale_id"`
	Number   string          `json:"number"`
	ClientID uuid.UUID       `json:"client_id"`
	QuoteID  *uuid.UUID      `json:"quote_id,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		Number:          s.Number,
		ClientID:        s.ClientID,
		QuoteID:         s.QuoteID,
		Total:           s.Total,
	}
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return EventTypeSaleCreated
}

// SalePaymentRecordedEvent is raised when a collection is applied to a sale
type SalePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

// NewSalePaymentRecordedEvent creates a new SalePaymentRecordedEvent
func NewSalePaymentRecordedEvent(s *Sale, amount decimal.Decimal) *SalePaymentRecordedEvent {
	return &SalePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalePaymentRecorded, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		Number:          s.Number,
		Amount:          amount,
		BalanceDue:      s.BalanceDue,
	}
}

// EventType returns the event type name
func (e *SalePaymentRecordedEvent) EventType() string {
	return EventTypeSalePaymentRecorded
}

// SaleCollectedEvent is raised when a fully paid sale is closed
type SaleCollectedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID       `json:"sale_id"`
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewSaleCollectedEvent creates a new SaleCollectedEvent
func NewSaleCollectedEvent(s *Sale) *SaleCollectedEvent {
	return &SaleCollectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCollected, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		Number:          s.Number,
		Total:           s.Total,
	}
}

// EventType returns the event type name
func (e *SaleCollectedEvent) EventType() string {
	return EventTypeSaleCollected
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
	Number string    `json:"number"`
	Reason string    `json:"reason"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale, reason string) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		Number:          s.Number,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *SaleCancelledEvent) EventType() string {
	return EventTypeSaleCancelled
}
