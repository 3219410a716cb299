package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/inventory"
	"github.com/alumac/backend/internal/domain/shared"
)

// GormMaterialRepository implements inventory.MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material by ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Material, error) {
	var m inventory.Material
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByCode finds a material by its code
func (r *GormMaterialRepository) FindByCode(ctx context.Context, code string) (*inventory.Material, error) {
	var m inventory.Material
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&m, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll finds materials with filtering and pagination
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Material, error) {
	var materials []inventory.Material
	query := r.applyFilter(dbFromContext(ctx, r.db).WithContext(ctx).Model(&inventory.Material{}), filter)

	if err := query.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindBelowMinimum lists active materials under their minimum stock
func (r *GormMaterialRepository) FindBelowMinimum(ctx context.Context) ([]inventory.Material, error) {
	var materials []inventory.Material
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("active = ? AND min_stock > 0 AND stock_actual < min_stock", true).
		Order("code ASC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Save creates or updates a material
func (r *GormMaterialRepository) Save(ctx context.Context, m *inventory.Material) error {
	err := dbFromContext(ctx, r.db).WithContext(ctx).Save(m).Error
	if isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// SaveWithLock updates a material only when the row still carries the
// version the aggregate was loaded with. ApplyMovement bumps the aggregate
// version, so the check runs against Version-1; a lost race leaves zero rows
// affected and surfaces as shared.ErrConcurrencyConflict.
func (r *GormMaterialRepository) SaveWithLock(ctx context.Context, m *inventory.Material) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&inventory.Material{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(map[string]interface{}{
			"stock_actual": m.StockActual,
			"min_stock":    m.MinStock,
			"unit_cost":    m.UnitCost,
			"active":       m.Active,
			"version":      m.Version,
			"updated_at":   m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts materials matching the filter
func (r *GormMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).WithContext(ctx).Model(&inventory.Material{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormMaterialRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "code ASC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMaterialRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "unit":
			query = query.Where("unit = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_stock > 0 AND stock_actual < min_stock")
			}
		}
	}

	return query
}

// Ensure GormMaterialRepository implements inventory.MaterialRepository
var _ inventory.MaterialRepository = (*GormMaterialRepository)(nil)
