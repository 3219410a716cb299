package ledger

import (
	"fmt"
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a ledger transaction
type Kind string

const (
	KindIncome          Kind = "INCOME"
	KindExpense         Kind = "EXPENSE"
	KindAdvance         Kind = "ADVANCE"
	KindWorkPayment     Kind = "WORK_PAYMENT"
	KindSupplierPayment Kind = "SUPPLIER_PAYMENT"
	KindGeneralExpense  Kind = "GENERAL_EXPENSE"
	KindTransfer        Kind = "TRANSFER"
	KindAdjustment      Kind = "ADJUSTMENT"
)

// IsValid checks if the kind is a valid ledger Kind
func (k Kind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindAdvance, KindWorkPayment,
		KindSupplierPayment, KindGeneralExpense, KindTransfer, KindAdjustment:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// IsInflow reports whether the kind brings money in
func (k Kind) IsInflow() bool {
	switch k {
	case KindIncome, KindAdvance, KindWorkPayment:
		return true
	}
	return false
}

// IsOutflow reports whether the kind takes money out
func (k Kind) IsOutflow() bool {
	switch k {
	case KindExpense, KindSupplierPayment, KindGeneralExpense:
		return true
	}
	return false
}

// PaymentMethod is how a transaction was settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCheck    PaymentMethod = "CHECK"
	PaymentMethodCard     PaymentMethod = "CARD"
)

// IsValid checks if the payment method is known
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCard:
		return true
	}
	return false
}

// Transaction is a single-entry ledger record. The ledger is append-only:
// a recorded transaction is never edited. Mistakes are voided by appending a
// compensating ADJUSTMENT that points back via CompensatingFor; hard delete
// is reserved for the most recent entry only and enforced by the store.
type Transaction struct {
	shared.BaseAggregateRoot
	Number          string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind            Kind                 `gorm:"type:varchar(20);not null;index"`
	Date            time.Time            `gorm:"not null;index"`
	Amount          decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency        valueobject.Currency `gorm:"type:varchar(3);not null"`
	Description     string               `gorm:"type:varchar(255);not null"`
	PaymentMethod   PaymentMethod        `gorm:"type:varchar(20)"`
	ClientID        *uuid.UUID           `gorm:"type:uuid;index"`
	SupplierID      *uuid.UUID           `gorm:"type:uuid;index"`
	SaleID          *uuid.UUID           `gorm:"type:uuid;index"`
	QuoteID         *uuid.UUID           `gorm:"type:uuid;index"`
	PurchaseID      *uuid.UUID           `gorm:"type:uuid;index"`
	CompensatingFor *uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "ledger_transactions"
}

// NewTransaction records a ledger transaction. Amounts are stored positive
// for every kind except ADJUSTMENT, which carries its sign.
func NewTransaction(number string, kind Kind, date time.Time, amount valueobject.Money, description string) (*Transaction, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown transaction kind %q", kind))
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction description cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction date is required")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction amount cannot be zero")
	}
	if kind != KindAdjustment && amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction amount must be positive")
	}

	t := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Kind:              kind,
		Date:              date,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
		Description:       description,
	}

	t.AddDomainEvent(NewTransactionRecordedEvent(t))

	return t, nil
}

// WithPaymentMethod sets how the transaction was settled
func (t *Transaction) WithPaymentMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown payment method %q", method))
	}
	t.PaymentMethod = method
	return nil
}

// LinkClient attaches the client this transaction settles against
func (t *Transaction) LinkClient(clientID uuid.UUID) {
	t.ClientID = &clientID
}

// LinkSupplier attaches the supplier this transaction settles against
func (t *Transaction) LinkSupplier(supplierID uuid.UUID) {
	t.SupplierID = &supplierID
}

// LinkSale attaches the sale this transaction belongs to
func (t *Transaction) LinkSale(saleID uuid.UUID) {
	t.SaleID = &saleID
}

// LinkQuote attaches the quote this transaction belongs to
func (t *Transaction) LinkQuote(quoteID uuid.UUID) {
	t.QuoteID = &quoteID
}

// LinkPurchase attaches the material purchase this transaction pays for
func (t *Transaction) LinkPurchase(purchaseID uuid.UUID) {
	t.PurchaseID = &purchaseID
}

// SignedAmount returns the transaction's effect on the cash position.
// Inflows are positive, outflows negative, adjustments keep their stored
// sign and transfers are cash-neutral.
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch {
	case t.Kind.IsInflow():
		return t.Amount
	case t.Kind.IsOutflow():
		return t.Amount.Neg()
	case t.Kind == KindAdjustment:
		return t.Amount
	default: // TRANSFER
		return decimal.Zero
	}
}

// IsCompensation reports whether this entry voids another one
func (t *Transaction) IsCompensation() bool {
	return t.CompensatingFor != nil
}

// NewCompensatingTransaction builds the ADJUSTMENT entry that voids the
// given transaction. The adjustment's signed amount is the exact negation of
// the original's, so the pair nets to zero.
func NewCompensatingTransaction(number string, original *Transaction, date time.Time, reason string) (*Transaction, error) {
	if original == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Original transaction is required")
	}
	if original.IsCompensation() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot void a compensating entry")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Void reason is required")
	}

	negated, err := valueobject.NewMoney(original.SignedAmount().Neg(), original.Currency)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Void %s: %s", original.Number, reason)
	t, err := NewTransaction(number, KindAdjustment, date, negated, description)
	if err != nil {
		return nil, err
	}

	t.CompensatingFor = &original.ID
	t.ClientID = original.ClientID
	t.SupplierID = original.SupplierID
	t.SaleID = original.SaleID
	t.QuoteID = original.QuoteID
	t.PurchaseID = original.PurchaseID

	t.ClearDomainEvents()
	t.AddDomainEvent(NewTransactionCompensatedEvent(t, original))

	return t, nil
}
