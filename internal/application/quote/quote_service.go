package quote

import (
	"context"
	"time"

	appledger "github.com/alumac/backend/internal/application/ledger"
	"github.com/alumac/backend/internal/domain/numbering"
	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles quote business operations
type Service struct {
	quoteRepo   quote.Repository
	expenseRepo quote.BudgetExpenseRepository
	margin      *quote.MarginService
	allocator   *numbering.Allocator
	composer    *appledger.Composer
	logger      *zap.Logger
}

// NewService creates a new quote Service
func NewService(quoteRepo quote.Repository, expenseRepo quote.BudgetExpenseRepository, margin *quote.MarginService, allocator *numbering.Allocator, composer *appledger.Composer, logger *zap.Logger) *Service {
	return &Service{
		quoteRepo:   quoteRepo,
		expenseRepo: expenseRepo,
		margin:      margin,
		allocator:   allocator,
		composer:    composer,
		logger:      logger,
	}
}

// Create creates a new quote with its items and an allocated number
func (s *Service) Create(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A quote needs at least one item")
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	number, err := s.allocator.Allocate(ctx, numbering.DocumentTypeQuote)
	if err != nil {
		return nil, err
	}

	q, err := quote.NewQuote(number, req.ClientID, issueDate, req.ValidUntil, currency)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := q.AddItem(item.Description, item.Quantity, item.UnitPrice, item.DiscountPct); err != nil {
			return nil, err
		}
	}
	if !req.DiscountPct.IsZero() {
		if err := q.SetDiscount(req.DiscountPct); err != nil {
			return nil, err
		}
	}
	if !req.TaxPct.IsZero() {
		if err := q.SetTax(req.TaxPct); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		q.SetNotes(req.Notes)
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("quote created", zap.String("number", q.Number), zap.String("client_id", q.ClientID.String()))

	response := ToQuoteResponse(q)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// GetByNumber retrieves a quote by document number
func (s *Service) GetByNumber(ctx context.Context, number string) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *Service) List(ctx context.Context, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	var (
		quotes []quote.Quote
		err    error
	)
	switch {
	case filter.ClientID != nil:
		quotes, err = s.quoteRepo.FindByClient(ctx, *filter.ClientID, domainFilter)
	case filter.Status != nil:
		quotes, err = s.quoteRepo.FindByStatus(ctx, *filter.Status, domainFilter)
	default:
		quotes, err = s.quoteRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.quoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuoteResponses(quotes), total, nil
}

// Send marks a quote as sent to the client
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, id, func(q *quote.Quote) error { return q.Send() })
}

// Approve marks a quote as approved by the client
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, id, func(q *quote.Quote) error { return q.Approve() })
}

// Reject marks a quote as rejected with a reason
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*QuoteResponse, error) {
	return s.transition(ctx, id, func(q *quote.Quote) error { return q.Reject(reason) })
}

// Expire marks a quote as expired
func (s *Service) Expire(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, id, func(q *quote.Quote) error { return q.Expire() })
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, fn func(q *quote.Quote) error) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q)
	return &response, nil
}

// Convert turns the quote into a sale, exactly once
func (s *Service) Convert(ctx context.Context, id uuid.UUID) (*appledger.ConversionResult, error) {
	return s.composer.ConvertQuote(ctx, id)
}

// ExpireOverdue expires every open quote whose validity has passed.
// Returns the number of quotes expired.
func (s *Service) ExpireOverdue(ctx context.Context, asOf time.Time) (int, error) {
	expired := 0
	for _, status := range []quote.Status{quote.StatusPending, quote.StatusSent} {
		open, err := s.quoteRepo.FindByStatus(ctx, status, shared.Filter{Page: 1, PageSize: 500})
		if err != nil {
			return expired, err
		}
		for i := range open {
			q := &open[i]
			if !q.IsExpiredAt(asOf) {
				continue
			}
			if err := q.Expire(); err != nil {
				continue
			}
			if err := s.quoteRepo.Save(ctx, q); err != nil {
				return expired, err
			}
			expired++
		}
	}
	if expired > 0 {
		s.logger.Info("expired overdue quotes", zap.Int("count", expired))
	}
	return expired, nil
}

// AddExpense attributes a real cost to a quote for margin analysis
func (s *Service) AddExpense(ctx context.Context, quoteID uuid.UUID, req AddExpenseRequest) (*quote.BudgetExpense, error) {
	if _, err := s.quoteRepo.FindByID(ctx, quoteID); err != nil {
		return nil, err
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	expense, err := quote.NewBudgetExpense(quoteID, quote.ExpenseCategory(req.Category), req.Description, req.Amount, currency, date)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses lists the costs attributed to a quote
func (s *Service) ListExpenses(ctx context.Context, quoteID uuid.UUID) ([]quote.BudgetExpense, error) {
	return s.expenseRepo.FindByQuote(ctx, quoteID)
}

// Margin computes the profitability snapshot for a quote
func (s *Service) Margin(ctx context.Context, quoteID uuid.UUID) (*quote.MarginAnalysis, error) {
	return s.margin.Analyze(ctx, quoteID)
}
