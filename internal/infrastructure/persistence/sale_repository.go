package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/sale"
	"github.com/alumac/backend/internal/domain/shared"
)

// GormSaleRepository implements sale.Repository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale (with items) by ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var s sale.Sale
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByNumber finds a sale by document number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, number string) (*sale.Sale, error) {
	var s sale.Sale
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&s, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByQuoteID finds the sale created from a quote
func (r *GormSaleRepository) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*sale.Sale, error) {
	var s sale.Sale
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&s, "quote_id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindTotalsByQuoteID resolves the billing totals of the sale linked to a
// quote, for margin analysis
func (r *GormSaleRepository) FindTotalsByQuoteID(ctx context.Context, quoteID uuid.UUID) (*quote.LinkedSaleTotals, error) {
	var s sale.Sale
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Select("id", "total", "amount_collected").
		First(&s, "quote_id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote.LinkedSaleTotals{
		SaleID:          s.ID,
		Total:           s.Total,
		AmountCollected: s.AmountCollected,
	}, nil
}

// ExistsByQuoteID checks whether a quote was already converted
func (r *GormSaleRepository) ExistsByQuoteID(ctx context.Context, quoteID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&sale.Sale{}).
		Where("quote_id = ?", quoteID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds sales with filtering and pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	var sales []sale.Sale
	query := r.applyFilter(dbFromContext(ctx, r.db).WithContext(ctx).Model(&sale.Sale{}), filter)

	if err := query.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindByClient finds sales for a client
func (r *GormSaleRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sale.Sale, error) {
	var sales []sale.Sale
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&sale.Sale{}).
			Where("client_id = ?", clientID),
		filter,
	)

	if err := query.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindByStatus finds sales in a given status
func (r *GormSaleRepository) FindByStatus(ctx context.Context, status sale.Status, filter shared.Filter) ([]sale.Sale, error) {
	var sales []sale.Sale
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&sale.Sale{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Save creates or updates a sale and its items. The unique index on
// quote_id surfaces as shared.ErrAlreadyExists so a lost conversion race is
// detectable by the caller.
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(s).Error
	if isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).WithContext(ctx).Model(&sale.Sale{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "created_at DESC, number DESC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		case "unpaid":
			if value == true {
				query = query.Where("balance_due > 0")
			}
		case "from_quote":
			if value == true {
				query = query.Where("quote_id IS NOT NULL")
			} else {
				query = query.Where("quote_id IS NULL")
			}
		}
	}

	return query
}

// Ensure GormSaleRepository implements sale.Repository and the margin
// engine's sale reader
var (
	_ sale.Repository        = (*GormSaleRepository)(nil)
	_ quote.LinkedSaleReader = (*GormSaleRepository)(nil)
)
