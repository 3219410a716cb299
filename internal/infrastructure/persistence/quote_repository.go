package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/shared"
)

// GormQuoteRepository implements quote.Repository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote (with items) by ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	var q quote.Quote
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByNumber finds a quote by document number
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, number string) (*quote.Quote, error) {
	var q quote.Quote
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&q, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindAll finds quotes with filtering and pagination
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	var quotes []quote.Quote
	query := r.applyFilter(dbFromContext(ctx, r.db).WithContext(ctx).Model(&quote.Quote{}), filter)

	if err := query.Preload("Items").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindByClient finds quotes for a client
func (r *GormQuoteRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	var quotes []quote.Quote
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&quote.Quote{}).
			Where("client_id = ?", clientID),
		filter,
	)

	if err := query.Preload("Items").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindByStatus finds quotes in a given status
func (r *GormQuoteRepository) FindByStatus(ctx context.Context, status quote.Status, filter shared.Filter) ([]quote.Quote, error) {
	var quotes []quote.Quote
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&quote.Quote{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Preload("Items").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Save creates or updates a quote and its items
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	err := dbFromContext(ctx, r.db).WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(q).Error
	if isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete removes a quote. Converted quotes are referenced by a sale and
// cannot be deleted.
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var q quote.Quote
	if err := db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	if q.Status == quote.StatusConverted {
		return shared.ErrDocumentImmutable
	}

	if err := db.Delete(&quote.Item{}, "quote_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&quote.Quote{}, "id = ?", id).Error
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).WithContext(ctx).Model(&quote.Quote{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "issue_date DESC, number DESC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR notes LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		case "valid_until_before":
			query = query.Where("valid_until < ?", value)
		}
	}

	return query
}

// Ensure GormQuoteRepository implements quote.Repository
var _ quote.Repository = (*GormQuoteRepository)(nil)
