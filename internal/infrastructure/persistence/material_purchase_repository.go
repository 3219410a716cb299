package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/inventory"
	"github.com/alumac/backend/internal/domain/shared"
)

// GormMaterialPurchaseRepository implements inventory.MaterialPurchaseRepository using GORM
type GormMaterialPurchaseRepository struct {
	db *gorm.DB
}

// NewGormMaterialPurchaseRepository creates a new GormMaterialPurchaseRepository
func NewGormMaterialPurchaseRepository(db *gorm.DB) *GormMaterialPurchaseRepository {
	return &GormMaterialPurchaseRepository{db: db}
}

// FindByID finds a purchase by ID
func (r *GormMaterialPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.MaterialPurchase, error) {
	var p inventory.MaterialPurchase
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByNumber finds a purchase by document number
func (r *GormMaterialPurchaseRepository) FindByNumber(ctx context.Context, number string) (*inventory.MaterialPurchase, error) {
	var p inventory.MaterialPurchase
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&p, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindBySupplier lists purchases from a supplier
func (r *GormMaterialPurchaseRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]inventory.MaterialPurchase, error) {
	var purchases []inventory.MaterialPurchase
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&inventory.MaterialPurchase{}).
			Where("supplier_id = ?", supplierID),
		filter,
	)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByMaterial lists purchases of a material
func (r *GormMaterialPurchaseRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]inventory.MaterialPurchase, error) {
	var purchases []inventory.MaterialPurchase
	query := r.applyFilter(
		dbFromContext(ctx, r.db).WithContext(ctx).Model(&inventory.MaterialPurchase{}).
			Where("material_id = ?", materialID),
		filter,
	)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindAll finds purchases with filtering and pagination
func (r *GormMaterialPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.MaterialPurchase, error) {
	var purchases []inventory.MaterialPurchase
	query := r.applyFilter(dbFromContext(ctx, r.db).WithContext(ctx).Model(&inventory.MaterialPurchase{}), filter)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Save creates or updates a purchase
func (r *GormMaterialPurchaseRepository) Save(ctx context.Context, p *inventory.MaterialPurchase) error {
	err := dbFromContext(ctx, r.db).WithContext(ctx).Save(p).Error
	if isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Count counts purchases matching the filter
func (r *GormMaterialPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).WithContext(ctx).Model(&inventory.MaterialPurchase{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormMaterialPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter, "purchased_at DESC, number DESC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMaterialPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "material_id":
			query = query.Where("material_id = ?", value)
		}
	}

	return query
}

// Ensure GormMaterialPurchaseRepository implements inventory.MaterialPurchaseRepository
var _ inventory.MaterialPurchaseRepository = (*GormMaterialPurchaseRepository)(nil)
