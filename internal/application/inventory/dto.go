package inventory

import (
	"time"

	"github.com/alumac/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateMaterialRequest is the request to register a material
type CreateMaterialRequest struct {
	Code        string          `json:"code" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Unit        string          `json:"unit" binding:"required"`
	MinStock    decimal.Decimal `json:"min_stock"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// MaterialResponse is the API view of a material
type MaterialResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Unit         string          `json:"unit"`
	StockActual  decimal.Decimal `json:"stock_actual"`
	MinStock     decimal.Decimal `json:"min_stock"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	StockValue   decimal.Decimal `json:"stock_value"`
	BelowMinimum bool            `json:"below_minimum"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MaterialListFilter narrows material listings
type MaterialListFilter struct {
	Page         int
	PageSize     int
	Search       string
	Active       *bool
	Unit         *string
	BelowMinimum bool
}

// MovementResponse is the API view of a stock movement
type MovementResponse struct {
	ID          uuid.UUID       `json:"id"`
	MaterialID  uuid.UUID       `json:"material_id"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	Reason      string          `json:"reason"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PurchaseResponse is the API view of a material purchase
type PurchaseResponse struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	MaterialID    uuid.UUID       `json:"material_id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentStatus string          `json:"payment_status"`
	PurchasedAt   time.Time       `json:"purchased_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PurchaseListFilter narrows purchase listings
type PurchaseListFilter struct {
	Page          int
	PageSize      int
	Search        string
	MaterialID    *uuid.UUID
	SupplierID    *uuid.UUID
	PaymentStatus *string
}

// ToMaterialResponse maps a material aggregate to its API view
func ToMaterialResponse(m *inventory.Material) MaterialResponse {
	return MaterialResponse{
		ID:           m.ID,
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		Unit:         string(m.Unit),
		StockActual:  m.StockActual,
		MinStock:     m.MinStock,
		UnitCost:     m.UnitCost,
		StockValue:   m.StockValue(),
		BelowMinimum: m.IsBelowMinimum(),
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
	}
}

// ToMaterialResponses maps a slice of materials
func ToMaterialResponses(materials []inventory.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, ToMaterialResponse(&materials[i]))
	}
	return out
}

// ToMovementResponses maps a slice of stock movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, mv := range movements {
		out = append(out, MovementResponse{
			ID:          mv.ID,
			MaterialID:  mv.MaterialID,
			Kind:        string(mv.Kind),
			Quantity:    mv.Quantity,
			StockBefore: mv.StockBefore,
			StockAfter:  mv.StockAfter,
			Reason:      mv.Reason,
			Reference:   mv.Reference,
			CreatedAt:   mv.CreatedAt,
		})
	}
	return out
}

// ToPurchaseResponse maps a purchase aggregate to its API view
func ToPurchaseResponse(p *inventory.MaterialPurchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID,
		Number:        p.Number,
		MaterialID:    p.MaterialID,
		SupplierID:    p.SupplierID,
		Quantity:      p.Quantity,
		UnitPrice:     p.UnitPrice,
		Total:         p.Total,
		Currency:      string(p.Currency),
		AmountPaid:    p.AmountPaid,
		PaymentStatus: string(p.PaymentStatus),
		PurchasedAt:   p.PurchasedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// ToPurchaseResponses maps a slice of purchases
func ToPurchaseResponses(purchases []inventory.MaterialPurchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, ToPurchaseResponse(&purchases[i]))
	}
	return out
}
