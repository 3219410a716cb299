package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
)

// signedAmountExpr mirrors Transaction.SignedAmount in SQL so balances can
// be computed without loading every row.
const signedAmountExpr = `CASE kind
	WHEN 'INCOME' THEN amount
	WHEN 'ADVANCE' THEN amount
	WHEN 'WORK_PAYMENT' THEN amount
	WHEN 'EXPENSE' THEN -amount
	WHEN 'SUPPLIER_PAYMENT' THEN -amount
	WHEN 'GENERAL_EXPENSE' THEN -amount
	WHEN 'ADJUSTMENT' THEN amount
	ELSE 0
END`

// GormLedgerRepository implements ledger.Repository using GORM. The ledger
// is append-only: rows are never updated, and only the most recent row may
// be hard-deleted to undo a data entry mistake.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var t ledger.Transaction
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByNumber finds a transaction by document number
func (r *GormLedgerRepository) FindByNumber(ctx context.Context, number string) (*ledger.Transaction, error) {
	var t ledger.Transaction
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&t, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds transactions with filtering and pagination
func (r *GormLedgerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Transaction, error) {
	var txns []ledger.Transaction
	query := r.applyFilter(dbFromContext(ctx, r.db).WithContext(ctx).Model(&ledger.Transaction{}), filter)

	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindByKind finds transactions of a given kind
func (r *GormLedgerRepository) FindByKind(ctx context.Context, kind ledger.Kind, filter shared.Filter) ([]ledger.Transaction, error) {
	var txns []ledger.Transaction
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&ledger.Transaction{}).
			Where("kind = ?", kind),
		filter,
	)

	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindBySale finds transactions linked to a sale
func (r *GormLedgerRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]ledger.Transaction, error) {
	var txns []ledger.Transaction
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindByDateRange finds transactions dated within [from, to]
func (r *GormLedgerRepository) FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]ledger.Transaction, error) {
	var txns []ledger.Transaction
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&ledger.Transaction{}).
			Where("date >= ? AND date <= ?", from, to),
		filter,
	)

	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindCompensationFor finds the adjustment voiding the given entry
func (r *GormLedgerRepository) FindCompensationFor(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var t ledger.Transaction
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&t, "compensating_for = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindLatest returns the most recently recorded transaction
func (r *GormLedgerRepository) FindLatest(ctx context.Context) (*ledger.Transaction, error) {
	var t ledger.Transaction
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Order("created_at DESC, number DESC").
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Save appends a transaction. Updating an already-persisted entry is
// rejected; the ledger is corrected with compensating entries instead.
func (r *GormLedgerRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var count int64
	if err := db.Model(&ledger.Transaction{}).Where("id = ?", t.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrLedgerEntryImmutable
	}

	err := db.Create(t).Error
	if isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete hard-deletes a transaction. Only the most recent entry may go;
// anything older must be voided with a compensating entry.
func (r *GormLedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	latest, err := r.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	if latest.ID != id {
		return shared.ErrLedgerEntryImmutable
	}

	result := db.Delete(&ledger.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Balance sums the signed amounts of all entries in a currency
func (r *GormLedgerRepository) Balance(ctx context.Context, currency valueobject.Currency) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&ledger.Transaction{}).
		Select("SUM(" + signedAmountExpr + ")").
		Where("currency = ?", currency).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Count counts transactions matching the filter
func (r *GormLedgerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).WithContext(ctx).Model(&ledger.Transaction{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "date DESC, created_at DESC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLedgerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR description LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		}
	}

	return query
}

// Ensure GormLedgerRepository implements ledger.Repository
var _ ledger.Repository = (*GormLedgerRepository)(nil)
