package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/inventory"
	"github.com/alumac/backend/internal/domain/shared"
)

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. Movements are an append-only audit trail.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByMaterial lists movements for a material, newest first
func (r *GormStockMovementRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("material_id = ?", materialID)
	query = applyPagination(query, filter, "created_at DESC")

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindLatestByMaterial returns the most recent movement of a material
func (r *GormStockMovementRepository) FindLatestByMaterial(ctx context.Context, materialID uuid.UUID) (*inventory.StockMovement, error) {
	var mv inventory.StockMovement
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("created_at DESC").
		First(&mv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mv, nil
}

// Save appends a movement
func (r *GormStockMovementRepository) Save(ctx context.Context, mv *inventory.StockMovement) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Create(mv).Error
}

// Ensure GormStockMovementRepository implements inventory.StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
