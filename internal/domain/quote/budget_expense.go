package quote

import (
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of a cost attributed to a quote
type ExpenseCategory string

const (
	ExpenseCategoryMaterials   ExpenseCategory = "MATERIALS"
	ExpenseCategoryLabor       ExpenseCategory = "LABOR"
	ExpenseCategoryTransport   ExpenseCategory = "TRANSPORT"
	ExpenseCategorySubcontract ExpenseCategory = "SUBCONTRACT"
	ExpenseCategoryOther       ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryMaterials, ExpenseCategoryLabor, ExpenseCategoryTransport,
		ExpenseCategorySubcontract, ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// BudgetExpense is a cost attributed to a quote, used to derive its margin.
// It is independent of the ledger: recording a budget expense does not move
// money by itself.
type BudgetExpense struct {
	shared.BaseEntity
	QuoteID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Category    ExpenseCategory      `gorm:"type:varchar(20);not null"`
	Description string               `gorm:"type:varchar(255)"`
	Amount      decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null"`
	Date        time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BudgetExpense) TableName() string {
	return "budget_expenses"
}

// NewBudgetExpense creates a new expense attributed to a quote
func NewBudgetExpense(quoteID uuid.UUID, category ExpenseCategory, description string, amount decimal.Decimal, currency valueobject.Currency, date time.Time) (*BudgetExpense, error) {
	if quoteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quote ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown expense category")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expense amount must be positive")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported currency")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &BudgetExpense{
		BaseEntity:  shared.NewBaseEntity(),
		QuoteID:     quoteID,
		Category:    category,
		Description: description,
		Amount:      amount,
		Currency:    currency,
		Date:        date,
	}, nil
}

// AmountMoney returns the expense amount as Money
func (e *BudgetExpense) AmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}
