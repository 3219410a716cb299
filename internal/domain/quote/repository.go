package quote

import (
	"context"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for quote persistence
type Repository interface {
	// FindByID finds a quote (with items) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)

	// FindByNumber finds a quote by document number
	FindByNumber(ctx context.Context, number string) (*Quote, error)

	// FindAll finds quotes with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)

	// FindByClient finds quotes for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// FindByStatus finds quotes in a given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Quote, error)

	// Save creates or updates a quote and its items
	Save(ctx context.Context, q *Quote) error

	// Delete removes a quote; only non-converted quotes may go
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts quotes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BudgetExpenseRepository defines the interface for budget expense persistence
type BudgetExpenseRepository interface {
	// FindByQuote lists the expenses attributed to a quote
	FindByQuote(ctx context.Context, quoteID uuid.UUID) ([]BudgetExpense, error)

	// SumByQuote totals the expenses attributed to a quote, zero when none
	SumByQuote(ctx context.Context, quoteID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates an expense
	Save(ctx context.Context, e *BudgetExpense) error

	// Delete removes an expense
	Delete(ctx context.Context, id uuid.UUID) error
}
