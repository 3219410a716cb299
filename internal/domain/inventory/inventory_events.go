package inventory

import (
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeMaterial         = "Material"
	AggregateTypeMaterialPurchase = "MaterialPurchase"
)

// Event type constants
const (
	EventTypeLowStock          = "MaterialLowStock"
	EventTypeMaterialPurchased = "MaterialPurchased"
)

// LowStockEvent is raised when a movement leaves a material under its minimum
type LowStockEvent struct {
	shared.BaseDomainEvent
	MaterialID  uuid.UUID       `json:"material_id"`
	Code        string          `json:"code"`
	StockActual decimal.Decimal `json:"stock_actual"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(m *Material) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, AggregateTypeMaterial, m.ID),
		MaterialID:      m.ID,
		Code:            m.Code,
		StockActual:     m.StockActual,
		MinStock:        m.MinStock,
	}
}

// EventType returns the event type name
func (e *LowStockEvent) EventType() string {
	return EventTypeLowStock
}

// MaterialPurchasedEvent is raised when a supplier restock is recorded
type MaterialPurchasedEvent struct {
	shared.BaseDomainEvent
	PurchaseID uuid.UUID       `json:"purchase_id"`
	Number     string          `json:"number"`
	MaterialID uuid.UUID       `json:"material_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
}

// NewMaterialPurchasedEvent creates a new MaterialPurchasedEvent
func NewMaterialPurchasedEvent(p *MaterialPurchase) *MaterialPurchasedEvent {
	return &MaterialPurchasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialPurchased, AggregateTypeMaterialPurchase, p.ID),
		PurchaseID:      p.ID,
		Number:          p.Number,
		MaterialID:      p.MaterialID,
		SupplierID:      p.SupplierID,
		Quantity:        p.Quantity,
		Total:           p.Total,
	}
}

// EventType returns the event type name
func (e *MaterialPurchasedEvent) EventType() string {
	return EventTypeMaterialPurchased
}
