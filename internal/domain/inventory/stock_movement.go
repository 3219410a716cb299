package inventory

import (
	"fmt"
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a stock movement
type MovementKind string

const (
	MovementIn         MovementKind = "IN"
	MovementOut        MovementKind = "OUT"
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

// IsValid checks if the movement kind is known
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// String returns the string representation of MovementKind
func (k MovementKind) String() string {
	return string(k)
}

// StockMovement is the immutable audit record of a stock change. It snapshots
// the stock level before and after, so the movement history replays to the
// material's current stock.
type StockMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MaterialID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        MovementKind    `gorm:"type:varchar(15);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason      string          `gorm:"type:varchar(255);not null"`
	Reference   string          `gorm:"type:varchar(100)"`
	CreatedAt   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement builds the movement for a stock change against the
// material's current stock. IN adds, OUT subtracts and may not go negative,
// ADJUSTMENT carries a signed quantity.
func NewStockMovement(material *Material, kind MovementKind, quantity decimal.Decimal, reason, reference string) (*StockMovement, error) {
	if material == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Material is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown movement kind %q", kind))
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement reason cannot be empty")
	}
	if kind != MovementAdjustment && quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement quantity must be positive")
	}
	if kind == MovementAdjustment && quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment quantity cannot be zero")
	}

	before := material.StockActual
	var after decimal.Decimal
	switch kind {
	case MovementIn:
		after = before.Add(quantity)
	case MovementOut:
		after = before.Sub(quantity)
		if after.IsNegative() {
			return nil, shared.ErrInsufficientStock
		}
	case MovementAdjustment:
		after = before.Add(quantity)
		if after.IsNegative() {
			return nil, shared.ErrInsufficientStock
		}
	}

	return &StockMovement{
		ID:          uuid.New(),
		MaterialID:  material.ID,
		Kind:        kind,
		Quantity:    quantity,
		StockBefore: before,
		StockAfter:  after,
		Reason:      reason,
		Reference:   reference,
		CreatedAt:   time.Now(),
	}, nil
}
