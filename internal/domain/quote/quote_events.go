package quote

import (
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeQuote = "Quote"

// Event type constants
const (
	EventTypeQuoteCreated   = "QuoteCreated"
	EventTypeQuoteSent      = "QuoteSent"
	EventTypeQuoteApproved  = "QuoteApproved"
	EventTypeQuoteRejected  = "QuoteRejected"
	EventTypeQuoteExpired   = "QuoteExpired"
	EventTypeQuoteConverted = "QuoteConverted"
)

// QuoteCreatedEvent is raised when a new quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID  uuid.UUID `json:"quote_id"`
	Number   string    `json:"number"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
		ClientID:        q.ClientID,
	}
}

// EventType returns the event type name
func (e *QuoteCreatedEvent) EventType() string {
	return EventTypeQuoteCreated
}

// QuoteSentEvent is raised when a quote is sent to the client
type QuoteSentEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID `json:"quote_id"`
	Number  string    `json:"number"`
}

// NewQuoteSentEvent creates a new QuoteSentEvent
func NewQuoteSentEvent(q *Quote) *QuoteSentEvent {
	return &QuoteSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteSent, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
	}
}

// EventType returns the event type name
func (e *QuoteSentEvent) EventType() string {
	return EventTypeQuoteSent
}

// QuoteApprovedEvent is raised when the client approves a quote
type QuoteApprovedEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID       `json:"quote_id"`
	Number  string          `json:"number"`
	Total   decimal.Decimal `json:"total"`
}

// NewQuoteApprovedEvent creates a new QuoteApprovedEvent
func NewQuoteApprovedEvent(q *Quote) *QuoteApprovedEvent {
	return &QuoteApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteApproved, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
		Total:           q.Total,
	}
}

// EventType returns the event type name
func (e *QuoteApprovedEvent) EventType() string {
	return EventTypeQuoteApproved
}

// QuoteRejectedEvent is raised when the client rejects a quote
type QuoteRejectedEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID `json:"quote_id"`
	Number  string    `json:"number"`
	Reason  string    `json:"reason"`
}

// NewQuoteRejectedEvent creates a new QuoteRejectedEvent
func NewQuoteRejectedEvent(q *Quote, reason string) *QuoteRejectedEvent {
	return &QuoteRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRejected, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *QuoteRejectedEvent) EventType() string {
	return EventTypeQuoteRejected
}

// QuoteExpiredEvent is raised when a quote passes its validity window
type QuoteExpiredEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID `json:"quote_id"`
	Number  string    `json:"number"`
}

// NewQuoteExpiredEvent creates a new QuoteExpiredEvent
func NewQuoteExpiredEvent(q *Quote) *QuoteExpiredEvent {
	return &QuoteExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteExpired, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
	}
}

// EventType returns the event type name
func (e *QuoteExpiredEvent) EventType() string {
	return EventTypeQuoteExpired
}

// QuoteConvertedEvent is raised when a quote becomes a sale.
// The sale is created in the same transaction that persists this transition.
type QuoteConvertedEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID       `json:"quote_id"`
	Number  string          `json:"number"`
	SaleID  uuid.UUID       `json:"sale_id"`
	Total   decimal.Decimal `json:"total"`
}

// NewQuoteConvertedEvent creates a new QuoteConvertedEvent
func NewQuoteConvertedEvent(q *Quote, saleID uuid.UUID) *QuoteConvertedEvent {
	return &QuoteConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConverted, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
		SaleID:          saleID,
		Total:           q.Total,
	}
}

// EventType returns the event type name
func (e *QuoteConvertedEvent) EventType() string {
	return EventTypeQuoteConverted
}
