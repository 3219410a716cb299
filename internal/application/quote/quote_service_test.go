package quote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alumac/backend/internal/domain/numbering"
	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MockQuoteRepository is a mock implementation of quote.Repository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByNumber(ctx context.Context, number string) (*quote.Quote, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByStatus(ctx context.Context, status quote.Status, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockExpenseRepository is a mock implementation of quote.BudgetExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByQuote(ctx context.Context, quoteID uuid.UUID) ([]quote.BudgetExpense, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quote.BudgetExpense), args.Error(1)
}

func (m *MockExpenseRepository) SumByQuote(ctx context.Context, quoteID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, quoteID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, e *quote.BudgetExpense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type memoryNumberStore struct {
	mu  sync.Mutex
	max map[numbering.DocumentType]int
}

func (s *memoryNumberStore) MaxSequence(_ context.Context, docType numbering.DocumentType, _ int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max[docType], nil
}

func (s *memoryNumberStore) Reserve(_ context.Context, docType numbering.DocumentType, _, sequence int, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sequence <= s.max[docType] {
		return shared.ErrAlreadyExists
	}
	s.max[docType] = sequence
	return nil
}

func newTestService(quoteRepo *MockQuoteRepository, expenseRepo *MockExpenseRepository) *Service {
	allocator := numbering.NewAllocator(&memoryNumberStore{max: make(map[numbering.DocumentType]int)})
	return NewService(quoteRepo, expenseRepo, nil, allocator, nil, zap.NewNop())
}

func validCreateRequest() CreateQuoteRequest {
	return CreateQuoteRequest{
		ClientID:    uuid.New(),
		ValidUntil:  time.Now().AddDate(0, 1, 0),
		DiscountPct: dec("5"),
		TaxPct:      dec("21"),
		Items: []QuoteItemRequest{
			{Description: "frame", Quantity: dec("2"), UnitPrice: dec("1000")},
			{Description: "glass", Quantity: dec("1"), UnitPrice: dec("500"), DiscountPct: dec("10")},
		},
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("allocates number and computes totals", func(t *testing.T) {
		quoteRepo := new(MockQuoteRepository)
		quoteRepo.On("Save", ctx, mock.AnythingOfType("*quote.Quote")).Return(nil)

		svc := newTestService(quoteRepo, new(MockExpenseRepository))
		res, err := svc.Create(ctx, validCreateRequest())

		assert.NoError(t, err)
		assert.Contains(t, res.Number, "PRES-")
		assert.Equal(t, "2816.28", res.Total.StringFixed(2))
		assert.Equal(t, quote.StatusPending, res.Status)
		assert.Equal(t, "ARS", res.Currency)
		quoteRepo.AssertExpectations(t)
	})

	t.Run("consecutive quotes get consecutive numbers", func(t *testing.T) {
		quoteRepo := new(MockQuoteRepository)
		quoteRepo.On("Save", ctx, mock.AnythingOfType("*quote.Quote")).Return(nil)

		svc := newTestService(quoteRepo, new(MockExpenseRepository))
		first, err := svc.Create(ctx, validCreateRequest())
		assert.NoError(t, err)
		second, err := svc.Create(ctx, validCreateRequest())
		assert.NoError(t, err)

		assert.Equal(t, numbering.ParseSequence(first.Number)+1, numbering.ParseSequence(second.Number))
	})

	t.Run("no items rejected", func(t *testing.T) {
		svc := newTestService(new(MockQuoteRepository), new(MockExpenseRepository))
		req := validCreateRequest()
		req.Items = nil

		_, err := svc.Create(ctx, req)
		var derr *shared.DomainError
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_INPUT", derr.Code)
	})

	t.Run("invalid item aborts before save", func(t *testing.T) {
		quoteRepo := new(MockQuoteRepository)
		svc := newTestService(quoteRepo, new(MockExpenseRepository))
		req := validCreateRequest()
		req.Items[0].Quantity = dec("0")

		_, err := svc.Create(ctx, req)
		assert.Error(t, err)
		quoteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestServiceTransitions(t *testing.T) {
	ctx := context.Background()

	newStoredQuote := func(t *testing.T) *quote.Quote {
		t.Helper()
		issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		q, err := quote.NewQuote("PRES-2025-001", uuid.New(), issue, issue.AddDate(0, 1, 0), "ARS")
		assert.NoError(t, err)
		_, err = q.AddItem("frame", dec("1"), dec("100"), dec("0"))
		assert.NoError(t, err)
		return q
	}

	t.Run("send persists the transition", func(t *testing.T) {
		q := newStoredQuote(t)
		quoteRepo := new(MockQuoteRepository)
		quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		quoteRepo.On("Save", ctx, q).Return(nil)

		svc := newTestService(quoteRepo, new(MockExpenseRepository))
		res, err := svc.Send(ctx, q.ID)
		assert.NoError(t, err)
		assert.Equal(t, quote.StatusSent, res.Status)
		quoteRepo.AssertExpectations(t)
	})

	t.Run("invalid transition not persisted", func(t *testing.T) {
		q := newStoredQuote(t)
		assert.NoError(t, q.Reject("no budget"))

		quoteRepo := new(MockQuoteRepository)
		quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)

		svc := newTestService(quoteRepo, new(MockExpenseRepository))
		_, err := svc.Send(ctx, q.ID)
		assert.Error(t, err)
		quoteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestServiceExpireOverdue(t *testing.T) {
	ctx := context.Background()
	issue := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	overdue, err := quote.NewQuote("PRES-2025-001", uuid.New(), issue, issue.AddDate(0, 0, 15), "ARS")
	assert.NoError(t, err)
	current, err := quote.NewQuote("PRES-2025-002", uuid.New(), issue, issue.AddDate(1, 0, 0), "ARS")
	assert.NoError(t, err)

	quoteRepo := new(MockQuoteRepository)
	quoteRepo.On("FindByStatus", ctx, quote.StatusPending, mock.Anything).Return([]quote.Quote{*overdue, *current}, nil)
	quoteRepo.On("FindByStatus", ctx, quote.StatusSent, mock.Anything).Return([]quote.Quote{}, nil)
	quoteRepo.On("Save", ctx, mock.AnythingOfType("*quote.Quote")).Return(nil)

	svc := newTestService(quoteRepo, new(MockExpenseRepository))
	count, err := svc.ExpireOverdue(ctx, issue.AddDate(0, 1, 0))
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	quoteRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestServiceAddExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("valid expense saved", func(t *testing.T) {
		issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		q, err := quote.NewQuote("PRES-2025-001", uuid.New(), issue, issue.AddDate(0, 1, 0), "ARS")
		assert.NoError(t, err)

		quoteRepo := new(MockQuoteRepository)
		expenseRepo := new(MockExpenseRepository)
		quoteRepo.On("FindByID", ctx, q.ID).Return(q, nil)
		expenseRepo.On("Save", ctx, mock.AnythingOfType("*quote.BudgetExpense")).Return(nil)

		svc := newTestService(quoteRepo, expenseRepo)
		expense, err := svc.AddExpense(ctx, q.ID, AddExpenseRequest{
			Category: "MATERIALS",
			Amount:   dec("40000"),
		})
		assert.NoError(t, err)
		assert.Equal(t, q.ID, expense.QuoteID)
		expenseRepo.AssertExpectations(t)
	})

	t.Run("unknown quote rejected", func(t *testing.T) {
		quoteRepo := new(MockQuoteRepository)
		id := uuid.New()
		quoteRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		svc := newTestService(quoteRepo, new(MockExpenseRepository))
		_, err := svc.AddExpense(ctx, id, AddExpenseRequest{Category: "MATERIALS", Amount: dec("10")})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
