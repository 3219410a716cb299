package quote

import (
	"fmt"
	"time"

	"github.com/alumac/backend/internal/domain/pricing"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a quote
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusConverted Status = "CONVERTED"
	StatusExpired   Status = "EXPIRED"
)

// IsValid checks if the status is a valid quote Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusApproved, StatusRejected, StatusConverted, StatusExpired:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Conversion is allowed from any non-terminal status; everything else follows
// the sent/approved progression. CONVERTED, REJECTED and EXPIRED are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusSent || target == StatusApproved ||
			target == StatusRejected || target == StatusExpired || target == StatusConverted
	case StatusSent:
		return target == StatusApproved || target == StatusRejected ||
			target == StatusExpired || target == StatusConverted
	case StatusApproved:
		return target == StatusConverted
	case StatusConverted, StatusRejected, StatusExpired:
		return false
	}
	return false
}

// IsTerminal returns true for statuses that permit no further transition
func (s Status) IsTerminal() bool {
	return s == StatusConverted || s == StatusRejected || s == StatusExpired
}

// Item represents a line item of a quote
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "quote_items"
}

// NewItem creates a new quote line item with its total already computed
func NewItem(quoteID uuid.UUID, description string, quantity, unitPrice, discountPct decimal.Decimal) (*Item, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount must be between 0 and 100")
	}

	now := time.Now()
	return &Item{
		ID:          uuid.New(),
		QuoteID:     quoteID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		DiscountPct: discountPct,
		LineTotal:   pricing.LineTotal(quantity, unitPrice, discountPct),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Quote represents a priced, non-binding proposal to a client.
// It is the aggregate root for the quote lifecycle up to conversion.
type Quote struct {
	shared.BaseAggregateRoot
	Number         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	IssueDate      time.Time       `gorm:"not null"`
	ValidUntil     time.Time       `gorm:"not null"`
	Status         Status          `gorm:"type:varchar(20);not null;index"`
	Items          []Item          `gorm:"foreignKey:QuoteID;references:ID"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPct    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPct         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	Notes          string          `gorm:"type:text"`
	SentAt         *time.Time
	ApprovedAt     *time.Time
	RejectedAt     *time.Time
	ConvertedAt    *time.Time
	RejectReason   string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new quote in PENDING status
func NewQuote(number string, clientID uuid.UUID, issueDate, validUntil time.Time, currency valueobject.Currency) (*Quote, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quote number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported currency %q", currency))
	}
	if validUntil.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Valid-until date cannot precede the issue date")
	}

	q := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientID:          clientID,
		IssueDate:         issueDate,
		ValidUntil:        validUntil,
		Status:            StatusPending,
		Items:             make([]Item, 0),
		Subtotal:          decimal.Zero,
		DiscountPct:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxPct:            decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		Currency:          currency,
	}

	q.AddDomainEvent(NewQuoteCreatedEvent(q))

	return q, nil
}

// AddItem adds a line item and recomputes the totals.
// Only allowed while the quote is PENDING.
func (q *Quote) AddItem(description string, quantity, unitPrice, discountPct decimal.Decimal) (*Item, error) {
	if q.Status != StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending quote")
	}

	item, err := NewItem(q.ID, description, quantity, unitPrice, discountPct)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a line item and recomputes the totals
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if q.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-pending quote")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.recalculateTotals()
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quote item not found")
}

// SetDiscount sets the order-level discount percentage and recomputes totals
func (q *Quote) SetDiscount(discountPct decimal.Decimal) error {
	if q.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change discount on a non-pending quote")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_INPUT", "Discount must be between 0 and 100")
	}

	q.DiscountPct = discountPct
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return nil
}

// SetTax sets the tax percentage and recomputes totals
func (q *Quote) SetTax(taxPct decimal.Decimal) error {
	if q.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax on a non-pending quote")
	}
	if taxPct.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Tax percentage cannot be negative")
	}

	q.TaxPct = taxPct
	q.recalculateTotals()
	q.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets free-form notes on the quote
func (q *Quote) SetNotes(notes string) {
	q.Notes = notes
	q.UpdatedAt = time.Now()
}

// Send marks the quote as sent to the client
func (q *Quote) Send() error {
	if !q.Status.CanTransitionTo(StatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = StatusSent
	q.SentAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteSentEvent(q))

	return nil
}

// Approve marks the quote as approved by the client
func (q *Quote) Approve() error {
	if !q.Status.CanTransitionTo(StatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve quote in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve a quote without items")
	}

	now := time.Now()
	q.Status = StatusApproved
	q.ApprovedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteApprovedEvent(q))

	return nil
}

// Reject marks the quote as rejected, a terminal state
func (q *Quote) Reject(reason string) error {
	if !q.Status.CanTransitionTo(StatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = StatusRejected
	q.RejectedAt = &now
	q.RejectReason = reason
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteRejectedEvent(q, reason))

	return nil
}

// Expire marks the quote as expired, a terminal state
func (q *Quote) Expire() error {
	if !q.Status.CanTransitionTo(StatusExpired) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire quote in %s status", q.Status))
	}

	q.Status = StatusExpired
	q.UpdatedAt = time.Now()

	q.AddDomainEvent(NewQuoteExpiredEvent(q))

	return nil
}

// MarkConverted transitions the quote to CONVERTED, its final terminal state.
// The caller must have created the linked sale in the same transaction; the
// quote itself is immutable from here on.
func (q *Quote) MarkConverted(saleID uuid.UUID) error {
	if q.Status == StatusConverted {
		return shared.ErrAlreadyConverted
	}
	if !q.Status.CanTransitionTo(StatusConverted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot convert quote in %s status", q.Status))
	}
	if saleID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Sale ID cannot be empty")
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot convert a quote without items")
	}

	now := time.Now()
	q.Status = StatusConverted
	q.ConvertedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteConvertedEvent(q, saleID))

	return nil
}

// recalculateTotals recomputes the quote totals from its items
func (q *Quote) recalculateTotals() {
	inputs := make([]pricing.LineInput, 0, len(q.Items))
	for idx := range q.Items {
		inputs = append(inputs, pricing.LineInput{
			Quantity:    q.Items[idx].Quantity,
			UnitPrice:   q.Items[idx].UnitPrice,
			DiscountPct: q.Items[idx].DiscountPct,
		})
	}

	totals := pricing.OrderTotals(inputs, q.DiscountPct, q.TaxPct)
	q.Subtotal = totals.Subtotal
	q.DiscountAmount = totals.DiscountAmount
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
}

// TotalMoney returns the quote total as Money
func (q *Quote) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(q.Total, q.Currency)
	return m
}

// CanConvert returns true if the quote may still be converted into a sale
func (q *Quote) CanConvert() bool {
	return q.Status.CanTransitionTo(StatusConverted)
}

// CanModify returns true if the quote contents may still be edited
func (q *Quote) CanModify() bool {
	return q.Status == StatusPending
}

// IsConverted returns true if the quote has been converted
func (q *Quote) IsConverted() bool {
	return q.Status == StatusConverted
}

// IsExpiredAt reports whether the quote's validity window has lapsed at the
// given instant (independent of whether Expire was already applied)
func (q *Quote) IsExpiredAt(at time.Time) bool {
	return at.After(q.ValidUntil)
}

// ItemCount returns the number of line items
func (q *Quote) ItemCount() int {
	return len(q.Items)
}
