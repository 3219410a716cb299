package ledger

import (
	"time"

	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialPurchaseInput is the request to record a supplier restock
type MaterialPurchaseInput struct {
	MaterialID    uuid.UUID
	SupplierID    uuid.UUID
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Currency      valueobject.Currency
	Date          time.Time
	PaymentMethod ledger.PaymentMethod
}

// PurchaseResult reports the documents a recorded purchase produced
type PurchaseResult struct {
	PurchaseID        uuid.UUID       `json:"purchase_id"`
	PurchaseNumber    string          `json:"purchase_number"`
	Total             decimal.Decimal `json:"total"`
	StockBefore       decimal.Decimal `json:"stock_before"`
	StockAfter        decimal.Decimal `json:"stock_after"`
	TransactionNumber string          `json:"transaction_number"`
}

// SalePaymentInput is the request to apply a collection to a sale
type SalePaymentInput struct {
	SaleID        uuid.UUID
	Amount        decimal.Decimal
	Currency      valueobject.Currency
	Date          time.Time
	PaymentMethod ledger.PaymentMethod
}

// PaymentResult reports the effect of a recorded payment
type PaymentResult struct {
	SaleID            uuid.UUID       `json:"sale_id"`
	SaleNumber        string          `json:"sale_number"`
	TransactionNumber string          `json:"transaction_number"`
	Kind              ledger.Kind     `json:"kind"`
	AmountCollected   decimal.Decimal `json:"amount_collected"`
	BalanceDue        decimal.Decimal `json:"balance_due"`
	FullyPaid         bool            `json:"fully_paid"`
}

// ConversionResult reports the sale a quote conversion produced. When the
// quote was converted earlier, AlreadyConverted is true and the original
// sale is returned.
type ConversionResult struct {
	SaleID           uuid.UUID       `json:"sale_id"`
	SaleNumber       string          `json:"sale_number"`
	QuoteID          uuid.UUID       `json:"quote_id"`
	QuoteNumber      string          `json:"quote_number"`
	Total            decimal.Decimal `json:"total"`
	AlreadyConverted bool            `json:"already_converted"`
}

// GeneralExpenseInput is the request to record a standalone expense
type GeneralExpenseInput struct {
	Description   string
	Amount        decimal.Decimal
	Currency      valueobject.Currency
	Date          time.Time
	SupplierID    *uuid.UUID
	PaymentMethod ledger.PaymentMethod
}

// EntryResult identifies a ledger entry produced by an operation
type EntryResult struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Number        string    `json:"number"`
	AlreadyVoided bool      `json:"already_voided,omitempty"`
}

// StockAdjustmentInput is the request to correct a material's stock
type StockAdjustmentInput struct {
	MaterialID uuid.UUID
	Quantity   decimal.Decimal
	Reason     string
	Reference  string
}

// AdjustmentResult reports the stock change an adjustment produced
type AdjustmentResult struct {
	MaterialID  uuid.UUID       `json:"material_id"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
}
