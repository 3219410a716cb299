package inventory

import (
	"fmt"
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is the measurement unit a material is stocked in
type Unit string

const (
	UnitPiece  Unit = "UN"
	UnitMeter  Unit = "M"
	UnitSqM    Unit = "M2"
	UnitKilo   Unit = "KG"
	UnitLitre  Unit = "L"
	UnitBundle Unit = "PAQ"
)

// IsValid checks if the unit is known
func (u Unit) IsValid() bool {
	switch u {
	case UnitPiece, UnitMeter, UnitSqM, UnitKilo, UnitLitre, UnitBundle:
		return true
	}
	return false
}

// Material is a stocked raw material (profiles, glass, hardware). Its
// StockActual always equals the StockAfter of its latest movement; the two
// are updated together inside one transaction.
type Material struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Unit        Unit            `gorm:"type:varchar(10);not null"`
	StockActual decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new material with zero stock
func NewMaterial(code, name string, unit Unit, minStock, unitCost decimal.Decimal) (*Material, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Material code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Material name cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown unit %q", unit))
	}
	if minStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Minimum stock cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit cost cannot be negative")
	}

	return &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Unit:              unit,
		StockActual:       decimal.Zero,
		MinStock:          minStock,
		UnitCost:          unitCost,
		Active:            true,
	}, nil
}

// ApplyMovement mutates the material's stock to the movement's StockAfter.
// The movement must have been built against this material's current stock.
func (m *Material) ApplyMovement(mv *StockMovement) error {
	if mv.MaterialID != m.ID {
		return shared.NewDomainError("INVALID_INPUT", "Movement belongs to another material")
	}
	if !mv.StockBefore.Equal(m.StockActual) {
		return shared.ErrConcurrencyConflict
	}

	m.StockActual = mv.StockAfter
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	if m.IsBelowMinimum() {
		m.AddDomainEvent(NewLowStockEvent(m))
	}

	return nil
}

// SetUnitCost updates the replacement cost used for valuation
func (m *Material) SetUnitCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Unit cost cannot be negative")
	}
	m.UnitCost = cost
	m.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the material from new purchases and movements
func (m *Material) Deactivate() {
	m.Active = false
	m.UpdatedAt = time.Now()
}

// IsBelowMinimum reports whether stock has fallen under the minimum
func (m *Material) IsBelowMinimum() bool {
	return m.StockActual.LessThan(m.MinStock)
}

// StockValue returns the valuation of the current stock at unit cost
func (m *Material) StockValue() decimal.Decimal {
	return m.StockActual.Mul(m.UnitCost).Round(2)
}
