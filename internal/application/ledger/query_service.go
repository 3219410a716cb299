package ledger

import (
	"context"
	"time"

	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionResponse is the API view of a ledger entry
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Kind            ledger.Kind     `json:"kind"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	SignedAmount    decimal.Decimal `json:"signed_amount"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ClientID        *uuid.UUID      `json:"client_id,omitempty"`
	SupplierID      *uuid.UUID      `json:"supplier_id,omitempty"`
	SaleID          *uuid.UUID      `json:"sale_id,omitempty"`
	QuoteID         *uuid.UUID      `json:"quote_id,omitempty"`
	PurchaseID      *uuid.UUID      `json:"purchase_id,omitempty"`
	CompensatingFor *uuid.UUID      `json:"compensating_for,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BalanceResponse is the cash position in one currency
type BalanceResponse struct {
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// EntryListFilter narrows ledger listings
type EntryListFilter struct {
	Page     int
	PageSize int
	Search   string
	Kind     *ledger.Kind
	Currency *string
	From     *time.Time
	To       *time.Time
}

// QueryService serves the ledger's read paths
type QueryService struct {
	entries ledger.Repository
}

// NewQueryService creates a new ledger QueryService
func NewQueryService(entries ledger.Repository) *QueryService {
	return &QueryService{entries: entries}
}

// GetEntry retrieves a ledger entry by ID
func (s *QueryService) GetEntry(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	t, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := toTransactionResponse(t)
	return &response, nil
}

// ListEntries retrieves ledger entries with filtering and pagination
func (s *QueryService) ListEntries(ctx context.Context, filter EntryListFilter) ([]TransactionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Currency != nil {
		domainFilter.Filters["currency"] = *filter.Currency
	}

	var (
		entries []ledger.Transaction
		err     error
	)
	switch {
	case filter.From != nil && filter.To != nil:
		if filter.Kind != nil {
			domainFilter.Filters["kind"] = string(*filter.Kind)
		}
		entries, err = s.entries.FindByDateRange(ctx, *filter.From, *filter.To, domainFilter)
	case filter.Kind != nil:
		entries, err = s.entries.FindByKind(ctx, *filter.Kind, domainFilter)
	default:
		entries, err = s.entries.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.entries.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]TransactionResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toTransactionResponse(&entries[i]))
	}
	return out, total, nil
}

// ListBySale lists the ledger entries linked to a sale
func (s *QueryService) ListBySale(ctx context.Context, saleID uuid.UUID) ([]TransactionResponse, error) {
	entries, err := s.entries.FindBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toTransactionResponse(&entries[i]))
	}
	return out, nil
}

// Balance computes the cash position in a currency
func (s *QueryService) Balance(ctx context.Context, currency valueobject.Currency) (*BalanceResponse, error) {
	balance, err := s.entries.Balance(ctx, currency)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{Currency: string(currency), Balance: balance}, nil
}

func toTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Number:          t.Number,
		Kind:            t.Kind,
		Date:            t.Date,
		Amount:          t.Amount,
		SignedAmount:    t.SignedAmount(),
		Currency:        string(t.Currency),
		Description:     t.Description,
		PaymentMethod:   string(t.PaymentMethod),
		ClientID:        t.ClientID,
		SupplierID:      t.SupplierID,
		SaleID:          t.SaleID,
		QuoteID:         t.QuoteID,
		PurchaseID:      t.PurchaseID,
		CompensatingFor: t.CompensatingFor,
		CreatedAt:       t.CreatedAt,
	}
}
