package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/shared"
)

// GormBudgetExpenseRepository implements quote.BudgetExpenseRepository using GORM
type GormBudgetExpenseRepository struct {
	db *gorm.DB
}

// NewGormBudgetExpenseRepository creates a new GormBudgetExpenseRepository
func NewGormBudgetExpenseRepository(db *gorm.DB) *GormBudgetExpenseRepository {
	return &GormBudgetExpenseRepository{db: db}
}

// FindByQuote lists the expenses attributed to a quote
func (r *GormBudgetExpenseRepository) FindByQuote(ctx context.Context, quoteID uuid.UUID) ([]quote.BudgetExpense, error) {
	var expenses []quote.BudgetExpense
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("date ASC, created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// SumByQuote totals the expenses attributed to a quote, zero when none
func (r *GormBudgetExpenseRepository) SumByQuote(ctx context.Context, quoteID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&quote.BudgetExpense{}).
		Select("SUM(amount)").
		Where("quote_id = ?", quoteID).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Save creates or updates an expense
func (r *GormBudgetExpenseRepository) Save(ctx context.Context, e *quote.BudgetExpense) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(e).Error
}

// Delete removes an expense
func (r *GormBudgetExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&quote.BudgetExpense{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBudgetExpenseRepository implements quote.BudgetExpenseRepository
var _ quote.BudgetExpenseRepository = (*GormBudgetExpenseRepository)(nil)
