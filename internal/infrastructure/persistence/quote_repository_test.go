package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
)

func newTestQuote(t *testing.T, number string) *quote.Quote {
	t.Helper()
	now := time.Now()
	q, err := quote.NewQuote(number, uuid.New(), now, now.AddDate(0, 0, 30), valueobject.ARS)
	require.NoError(t, err)
	_, err = q.AddItem("aluminum window 120x110", decimal.NewFromInt(2), decimal.RequireFromString("1000"), decimal.Zero)
	require.NoError(t, err)
	return q
}

func TestGormQuoteRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	q := newTestQuote(t, "PRES-2025-001")
	require.NoError(t, repo.Save(ctx, q))

	t.Run("finds by id with items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, "PRES-2025-001", found.Number)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "aluminum window 120x110", found.Items[0].Description)
		assert.Equal(t, "2000.00", found.Total.StringFixed(2))
	})

	t.Run("finds by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "PRES-2025-001")
		require.NoError(t, err)
		assert.Equal(t, q.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByNumber(ctx, "PRES-2025-999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate number rejected", func(t *testing.T) {
		dup := newTestQuote(t, "PRES-2025-001")
		err := repo.Save(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormQuoteRepository_FindByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	pending := newTestQuote(t, "PRES-2025-001")
	require.NoError(t, repo.Save(ctx, pending))

	sent := newTestQuote(t, "PRES-2025-002")
	require.NoError(t, sent.Send())
	require.NoError(t, repo.Save(ctx, sent))

	found, err := repo.FindByStatus(ctx, quote.StatusSent, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "PRES-2025-002", found[0].Number)

	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormQuoteRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	t.Run("deletes pending quote with items", func(t *testing.T) {
		q := newTestQuote(t, "PRES-2025-001")
		require.NoError(t, repo.Save(ctx, q))

		require.NoError(t, repo.Delete(ctx, q.ID))

		_, err := repo.FindByID(ctx, q.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var itemCount int64
		require.NoError(t, db.Model(&quote.Item{}).Where("quote_id = ?", q.ID).Count(&itemCount).Error)
		assert.Zero(t, itemCount)
	})

	t.Run("converted quote cannot be deleted", func(t *testing.T) {
		q := newTestQuote(t, "PRES-2025-002")
		require.NoError(t, q.Send())
		require.NoError(t, q.Approve())
		require.NoError(t, q.MarkConverted(uuid.New()))
		require.NoError(t, repo.Save(ctx, q))

		err := repo.Delete(ctx, q.ID)
		assert.ErrorIs(t, err, shared.ErrDocumentImmutable)
	})

	t.Run("missing quote", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormBudgetExpenseRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBudgetExpenseRepository(db)
	ctx := context.Background()

	quoteID := uuid.New()

	t.Run("sum is zero with no expenses", func(t *testing.T) {
		sum, err := repo.SumByQuote(ctx, quoteID)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	t.Run("saves and sums expenses", func(t *testing.T) {
		e1, err := quote.NewBudgetExpense(quoteID, quote.ExpenseCategoryMaterials, "profiles", decimal.RequireFromString("1500.50"), valueobject.ARS, time.Now())
		require.NoError(t, err)
		e2, err := quote.NewBudgetExpense(quoteID, quote.ExpenseCategoryLabor, "installation", decimal.RequireFromString("499.50"), valueobject.ARS, time.Now())
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, e1))
		require.NoError(t, repo.Save(ctx, e2))

		sum, err := repo.SumByQuote(ctx, quoteID)
		require.NoError(t, err)
		assert.Equal(t, "2000.00", sum.StringFixed(2))

		expenses, err := repo.FindByQuote(ctx, quoteID)
		require.NoError(t, err)
		assert.Len(t, expenses, 2)
	})

	t.Run("delete missing expense", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}
