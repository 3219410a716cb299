package sale

import (
	"fmt"
	"time"

	"github.com/alumac/backend/internal/domain/pricing"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the delivery/collection progression of a sale
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusInProduction Status = "IN_PRODUCTION"
	StatusReady        Status = "READY"
	StatusDelivered    Status = "DELIVERED"
	StatusCollected    Status = "COLLECTED"
	StatusCancelled    Status = "CANCELLED"
)

// IsValid checks if the status is a valid sale Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProduction, StatusReady, StatusDelivered, StatusCollected, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The progression is strictly ordered; COLLECTED and CANCELLED are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusInProduction || target == StatusCancelled
	case StatusInProduction:
		return target == StatusReady || target == StatusCancelled
	case StatusReady:
		return target == StatusDelivered
	case StatusDelivered:
		return target == StatusCollected
	case StatusCollected, StatusCancelled:
		return false
	}
	return false
}

// Item represents a line item of a sale
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
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
	return "sale_items"
}

// NewItem creates a new sale line item with its total already computed
func NewItem(saleID uuid.UUID, description string, quantity, unitPrice, discountPct decimal.Decimal) (*Item, error) {
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
		SaleID:      saleID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		DiscountPct: discountPct,
		LineTotal:   pricing.LineTotal(quantity, unitPrice, discountPct),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Sale represents a confirmed, in-progress customer order. It is created
// either by converting an approved quote or directly from its own items.
type Sale struct {
	shared.BaseAggregateRoot
	Number          string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	QuoteID         *uuid.UUID           `gorm:"type:uuid;uniqueIndex"` // one sale per quote, enforced by the store
	Status          Status               `gorm:"type:varchar(20);not null;index"`
	Items           []Item               `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal        decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPct     decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPct          decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount       decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Total           decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	AmountCollected decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceDue      decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Currency        valueobject.Currency `gorm:"type:varchar(3);not null"`
	Notes           string               `gorm:"type:text"`
	DeliveredAt     *time.Time
	CollectedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a direct sale with no originating quote. Items are added
// afterwards; callers must ensure at least one item before persisting.
func NewSale(number string, clientID uuid.UUID, currency valueobject.Currency) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported currency %q", currency))
	}

	s := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientID:          clientID,
		Status:            StatusPending,
		Items:             make([]Item, 0),
		Subtotal:          decimal.Zero,
		DiscountPct:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxPct:            decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		AmountCollected:   decimal.Zero,
		BalanceDue:        decimal.Zero,
		Currency:          currency,
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// QuoteTotals carries a quote's already-approved numbers into a conversion.
// The sale trusts these values verbatim; nothing is re-validated or
// recomputed.
type QuoteTotals struct {
	Subtotal       decimal.Decimal
	DiscountPct    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxPct         decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// NewSaleFromQuote creates the sale produced by converting a quote. Line
// items are copied as given, totals are taken verbatim from the quote.
func NewSaleFromQuote(number string, clientID, quoteID uuid.UUID, totals QuoteTotals, currency valueobject.Currency, items []Item) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client ID cannot be empty")
	}
	if quoteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quote ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported currency %q", currency))
	}

	s := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientID:          clientID,
		QuoteID:           &quoteID,
		Status:            StatusPending,
		Subtotal:          totals.Subtotal,
		DiscountPct:       totals.DiscountPct,
		DiscountAmount:    totals.DiscountAmount,
		TaxPct:            totals.TaxPct,
		TaxAmount:         totals.TaxAmount,
		Total:             totals.Total,
		AmountCollected:   decimal.Zero,
		BalanceDue:        totals.Total,
		Currency:          currency,
	}

	s.Items = make([]Item, len(items))
	for i, item := range items {
		item.SaleID = s.ID
		s.Items[i] = item
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s))

	return s, nil
}

// AddItem adds a line item to a direct sale and recomputes totals.
// Only allowed while PENDING and only for sales without an origin quote.
func (s *Sale) AddItem(description string, quantity, unitPrice, discountPct decimal.Decimal) (*Item, error) {
	if s.Status != StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending sale")
	}
	if s.QuoteID != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "A converted sale keeps the quote's items")
	}

	item, err := NewItem(s.ID, description, quantity, unitPrice, discountPct)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return item, nil
}

// SetDiscount sets the order-level discount percentage on a direct sale
func (s *Sale) SetDiscount(discountPct decimal.Decimal) error {
	if s.Status != StatusPending || s.QuoteID != nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot change discount on this sale")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_INPUT", "Discount must be between 0 and 100")
	}

	s.DiscountPct = discountPct
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// SetTax sets the tax percentage on a direct sale
func (s *Sale) SetTax(taxPct decimal.Decimal) error {
	if s.Status != StatusPending || s.QuoteID != nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax on this sale")
	}
	if taxPct.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Tax percentage cannot be negative")
	}

	s.TaxPct = taxPct
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// RecordPayment applies a collected amount to the sale. Excess payments are
// rejected: the balance due is never represented as negative.
func (s *Sale) RecordPayment(amount valueobject.Money) error {
	if s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a payment on a cancelled sale")
	}
	if amount.Currency() != s.Currency {
		return shared.ErrCurrencyMismatch
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(s.BalanceDue) {
		return shared.ErrPaymentExceedsTotal
	}

	s.AmountCollected = s.AmountCollected.Add(amount.Amount())
	s.BalanceDue = s.Total.Sub(s.AmountCollected)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSalePaymentRecordedEvent(s, amount.Amount()))

	return nil
}

// IsFullyPaid returns true once the whole total has been collected
func (s *Sale) IsFullyPaid() bool {
	return s.BalanceDue.IsZero()
}

// StartProduction moves the sale into production
func (s *Sale) StartProduction() error {
	return s.transition(StatusInProduction)
}

// MarkReady marks the produced goods as ready for delivery
func (s *Sale) MarkReady() error {
	return s.transition(StatusReady)
}

// MarkDelivered marks the sale as delivered to the client
func (s *Sale) MarkDelivered() error {
	if err := s.transition(StatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	s.DeliveredAt = &now
	return nil
}

// MarkCollected closes the sale once the full amount has been collected
func (s *Sale) MarkCollected() error {
	if !s.IsFullyPaid() {
		return shared.NewDomainError("INVALID_STATE", "Cannot collect a sale with an outstanding balance")
	}
	if err := s.transition(StatusCollected); err != nil {
		return err
	}
	now := time.Now()
	s.CollectedAt = &now
	s.AddDomainEvent(NewSaleCollectedEvent(s))
	return nil
}

// Cancel cancels the sale before delivery
func (s *Sale) Cancel(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Cancel reason is required")
	}
	if err := s.transition(StatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	s.CancelledAt = &now
	s.CancelReason = reason
	s.AddDomainEvent(NewSaleCancelledEvent(s, reason))
	return nil
}

func (s *Sale) transition(target Status) error {
	if !s.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move sale from %s to %s", s.Status, target))
	}
	s.Status = target
	s.UpdatedAt = time.Now()
	return nil
}

// recalculateTotals recomputes totals from the items of a direct sale
func (s *Sale) recalculateTotals() {
	inputs := make([]pricing.LineInput, 0, len(s.Items))
	for idx := range s.Items {
		inputs = append(inputs, pricing.LineInput{
			Quantity:    s.Items[idx].Quantity,
			UnitPrice:   s.Items[idx].UnitPrice,
			DiscountPct: s.Items[idx].DiscountPct,
		})
	}

	totals := pricing.OrderTotals(inputs, s.DiscountPct, s.TaxPct)
	s.Subtotal = totals.Subtotal
	s.DiscountAmount = totals.DiscountAmount
	s.TaxAmount = totals.TaxAmount
	s.Total = totals.Total
	s.BalanceDue = s.Total.Sub(s.AmountCollected)
}

// TotalMoney returns the sale total as Money
func (s *Sale) TotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(s.Total, s.Currency)
	return m
}

// BalanceDueMoney returns the outstanding balance as Money
func (s *Sale) BalanceDueMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(s.BalanceDue, s.Currency)
	return m
}

// IsFromQuote returns true if the sale was created by converting a quote
func (s *Sale) IsFromQuote() bool {
	return s.QuoteID != nil
}

// ItemCount returns the number of line items
func (s *Sale) ItemCount() int {
	return len(s.Items)
}
