package quote

import (
	"time"

	"github.com/alumac/backend/internal/domain/quote"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest is the request to create a quote
type CreateQuoteRequest struct {
	ClientID    uuid.UUID          `json:"client_id" binding:"required"`
	IssueDate   time.Time          `json:"issue_date"`
	ValidUntil  time.Time          `json:"valid_until" binding:"required"`
	Currency    string             `json:"currency"`
	DiscountPct decimal.Decimal    `json:"discount_pct"`
	TaxPct      decimal.Decimal    `json:"tax_pct"`
	Notes       string             `json:"notes"`
	Items       []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
}

// QuoteItemRequest is one line of a quote creation request
type QuoteItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// AddExpenseRequest attributes a real cost to a quote
type AddExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"date"`
}

// QuoteItemResponse is the API view of a quote line
type QuoteItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// QuoteResponse is the API view of a quote
type QuoteResponse struct {
	ID             uuid.UUID           `json:"id"`
	Number         string              `json:"number"`
	ClientID       uuid.UUID           `json:"client_id"`
	IssueDate      time.Time           `json:"issue_date"`
	ValidUntil     time.Time           `json:"valid_until"`
	Status         quote.Status        `json:"status"`
	Items          []QuoteItemResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountPct    decimal.Decimal     `json:"discount_pct"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxPct         decimal.Decimal     `json:"tax_pct"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	Total          decimal.Decimal     `json:"total"`
	Currency       string              `json:"currency"`
	Notes          string              `json:"notes,omitempty"`
	RejectReason   string              `json:"reject_reason,omitempty"`
	ConvertedAt    *time.Time          `json:"converted_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// QuoteListFilter narrows quote listings
type QuoteListFilter struct {
	Page     int
	PageSize int
	Search   string
	ClientID *uuid.UUID
	Status   *quote.Status
}

// ToQuoteResponse maps a quote aggregate to its API view
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuoteItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			DiscountPct: it.DiscountPct,
			LineTotal:   it.LineTotal,
		})
	}
	return QuoteResponse{
		ID:             q.ID,
		Number:         q.Number,
		ClientID:       q.ClientID,
		IssueDate:      q.IssueDate,
		ValidUntil:     q.ValidUntil,
		Status:         q.Status,
		Items:          items,
		Subtotal:       q.Subtotal,
		DiscountPct:    q.DiscountPct,
		DiscountAmount: q.DiscountAmount,
		TaxPct:         q.TaxPct,
		TaxAmount:      q.TaxAmount,
		Total:          q.Total,
		Currency:       string(q.Currency),
		Notes:          q.Notes,
		RejectReason:   q.RejectReason,
		ConvertedAt:    q.ConvertedAt,
		CreatedAt:      q.CreatedAt,
	}
}

// ToQuoteResponses maps a slice of quotes
func ToQuoteResponses(quotes []quote.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, ToQuoteResponse(&quotes[i]))
	}
	return out
}
