package quote

import (
	"context"
	"errors"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarginStatus classifies the profitability of a quote
type MarginStatus string

const (
	MarginStatusPositive  MarginStatus = "POSITIVE"
	MarginStatusNegative  MarginStatus = "NEGATIVE"
	MarginStatusBreakeven MarginStatus = "BREAKEVEN"
)

// MarginAnalysis is the profitability snapshot of a quote: what was budgeted,
// what the linked sale actually bills, and what the attributed costs add up to.
type MarginAnalysis struct {
	QuoteID       uuid.UUID       `json:"quote_id"`
	Budgeted      decimal.Decimal `json:"budgeted"`
	ActualRevenue decimal.Decimal `json:"actual_revenue"`
	ActualCost    decimal.Decimal `json:"actual_cost"`
	GrossMargin   decimal.Decimal `json:"gross_margin"`
	MarginPct     decimal.Decimal `json:"margin_pct"`
	Status        MarginStatus    `json:"status"`
}

// LinkedSaleTotals is the narrow view of a sale the margin engine needs.
type LinkedSaleTotals struct {
	SaleID          uuid.UUID
	Total           decimal.Decimal
	AmountCollected decimal.Decimal
}

// LinkedSaleReader resolves the sale created from a quote, if any.
// Implementations return shared.ErrNotFound when no sale is linked.
type LinkedSaleReader interface {
	FindTotalsByQuoteID(ctx context.Context, quoteID uuid.UUID) (*LinkedSaleTotals, error)
}

// MarginService derives profitability for a quote by aggregating its
// attributed expenses and the linked sale's revenue. Read-only: it persists
// nothing and tolerates quotes with no sale or no expenses.
type MarginService struct {
	quoteRepo   Repository
	expenseRepo BudgetExpenseRepository
	saleReader  LinkedSaleReader
}

// NewMarginService creates a new MarginService
func NewMarginService(quoteRepo Repository, expenseRepo BudgetExpenseRepository, saleReader LinkedSaleReader) *MarginService {
	return &MarginService{
		quoteRepo:   quoteRepo,
		expenseRepo: expenseRepo,
		saleReader:  saleReader,
	}
}

// Analyze computes the margin snapshot for a quote
func (s *MarginService) Analyze(ctx context.Context, quoteID uuid.UUID) (*MarginAnalysis, error) {
	q, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	actualRevenue := decimal.Zero
	sale, err := s.saleReader.FindTotalsByQuoteID(ctx, quoteID)
	switch {
	case err == nil:
		actualRevenue = sale.Total
	case errors.Is(err, shared.ErrNotFound):
		// no linked sale yet, revenue stays zero
	default:
		return nil, err
	}

	actualCost, err := s.expenseRepo.SumByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	grossMargin := actualRevenue.Sub(actualCost)

	marginPct := decimal.Zero
	if actualRevenue.IsPositive() {
		marginPct = grossMargin.Div(actualRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	status := MarginStatusBreakeven
	switch {
	case grossMargin.IsPositive():
		status = MarginStatusPositive
	case grossMargin.IsNegative():
		status = MarginStatusNegative
	}

	return &MarginAnalysis{
		QuoteID:       q.ID,
		Budgeted:      q.Total,
		ActualRevenue: actualRevenue,
		ActualCost:    actualCost,
		GrossMargin:   grossMargin,
		MarginPct:     marginPct,
		Status:        status,
	}, nil
}
