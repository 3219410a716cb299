package sale

import (
	"time"

	"github.com/alumac/backend/internal/domain/sale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest is the request to create a direct sale (no quote)
type CreateSaleRequest struct {
	ClientID    uuid.UUID         `json:"client_id" binding:"required"`
	Currency    string            `json:"currency"`
	DiscountPct decimal.Decimal   `json:"discount_pct"`
	TaxPct      decimal.Decimal   `json:"tax_pct"`
	Notes       string            `json:"notes"`
	Items       []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemRequest is one line of a direct sale creation request
type SaleItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// SaleItemResponse is the API view of a sale line
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse is the API view of a sale
type SaleResponse struct {
	ID              uuid.UUID          `json:"id"`
	Number          string             `json:"number"`
	ClientID        uuid.UUID          `json:"client_id"`
	QuoteID         *uuid.UUID         `json:"quote_id,omitempty"`
	Status          sale.Status        `json:"status"`
	Items           []SaleItemResponse `json:"items"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	DiscountPct     decimal.Decimal    `json:"discount_pct"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	TaxPct          decimal.Decimal    `json:"tax_pct"`
	TaxAmount       decimal.Decimal    `json:"tax_amount"`
	Total           decimal.Decimal    `json:"total"`
	AmountCollected decimal.Decimal    `json:"amount_collected"`
	BalanceDue      decimal.Decimal    `json:"balance_due"`
	Currency        string             `json:"currency"`
	Notes           string             `json:"notes,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`
	CollectedAt     *time.Time         `json:"collected_at,omitempty"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// SaleListFilter narrows sale listings
type SaleListFilter struct {
	Page     int
	PageSize int
	Search   string
	ClientID *uuid.UUID
	Status   *sale.Status
}

// ToSaleResponse maps a sale aggregate to its API view
func ToSaleResponse(s *sale.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			DiscountPct: it.DiscountPct,
			LineTotal:   it.LineTotal,
		})
	}
	return SaleResponse{
		ID:              s.ID,
		Number:          s.Number,
		ClientID:        s.ClientID,
		QuoteID:         s.QuoteID,
		Status:          s.Status,
		Items:           items,
		Subtotal:        s.Subtotal,
		DiscountPct:     s.DiscountPct,
		DiscountAmount:  s.DiscountAmount,
		TaxPct:          s.TaxPct,
		TaxAmount:       s.TaxAmount,
		Total:           s.Total,
		AmountCollected: s.AmountCollected,
		BalanceDue:      s.BalanceDue,
		Currency:        string(s.Currency),
		Notes:           s.Notes,
		DeliveredAt:     s.DeliveredAt,
		CollectedAt:     s.CollectedAt,
		CancelReason:    s.CancelReason,
		CreatedAt:       s.CreatedAt,
	}
}

// ToSaleResponses maps a slice of sales
func ToSaleResponses(sales []sale.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, ToSaleResponse(&sales[i]))
	}
	return out
}
