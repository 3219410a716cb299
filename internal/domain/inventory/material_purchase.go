package inventory

import (
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks how much of a purchase has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// MaterialPurchase records a supplier restock of one material. Recording a
// purchase also creates the IN movement, updates the material's stock and
// appends the supplier payment to the ledger, all in one transaction.
type MaterialPurchase struct {
	shared.BaseAggregateRoot
	Number        string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	MaterialID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	SupplierID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Quantity      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null"`
	AmountPaid    decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus PaymentStatus        `gorm:"type:varchar(10);not null;index"`
	PurchasedAt   time.Time            `gorm:"not null"`
	Notes         string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MaterialPurchase) TableName() string {
	return "material_purchases"
}

// NewMaterialPurchase creates a purchase record with its total computed
func NewMaterialPurchase(number string, materialID, supplierID uuid.UUID, quantity, unitPrice decimal.Decimal, currency valueobject.Currency, purchasedAt time.Time) (*MaterialPurchase, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase number cannot be empty")
	}
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Material ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported currency")
	}
	if purchasedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase date is required")
	}

	p := &MaterialPurchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		MaterialID:        materialID,
		SupplierID:        supplierID,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		Total:             quantity.Mul(unitPrice).Round(2),
		Currency:          currency,
		AmountPaid:        decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
		PurchasedAt:       purchasedAt,
	}

	p.AddDomainEvent(NewMaterialPurchasedEvent(p))

	return p, nil
}

// RegisterPayment applies a payment toward the purchase total
func (p *MaterialPurchase) RegisterPayment(amount valueobject.Money) error {
	if amount.Currency() != p.Currency {
		return shared.ErrCurrencyMismatch
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}

	remaining := p.Total.Sub(p.AmountPaid)
	if amount.Amount().GreaterThan(remaining) {
		return shared.ErrPaymentExceedsTotal
	}

	p.AmountPaid = p.AmountPaid.Add(amount.Amount())
	switch {
	case p.AmountPaid.Equal(p.Total):
		p.PaymentStatus = PaymentStatusPaid
	default:
		p.PaymentStatus = PaymentStatusPartial
	}
	p.UpdatedAt = time.Now()

	return nil
}

// MarkPaidInFull settles the whole outstanding amount at once
func (p *MaterialPurchase) MarkPaidInFull() {
	p.AmountPaid = p.Total
	p.PaymentStatus = PaymentStatusPaid
	p.UpdatedAt = time.Now()
}

// Outstanding returns the unpaid remainder
func (p *MaterialPurchase) Outstanding() decimal.Decimal {
	return p.Total.Sub(p.AmountPaid)
}
