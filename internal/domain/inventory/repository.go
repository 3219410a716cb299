package inventory

import (
	"context"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	// FindByID finds a material by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)

	// FindByCode finds a material by its code
	FindByCode(ctx context.Context, code string) (*Material, error)

	// FindAll finds materials with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Material, error)

	// FindBelowMinimum lists active materials under their minimum stock
	FindBelowMinimum(ctx context.Context) ([]Material, error)

	// Save creates or updates a material
	Save(ctx context.Context, m *Material) error

	// SaveWithLock persists a stock-bearing update only if the row still
	// carries the version the aggregate was loaded with. A concurrent
	// writer surfaces as shared.ErrConcurrencyConflict so the caller can
	// re-read and retry.
	SaveWithLock(ctx context.Context, m *Material) error

	// Count counts materials matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockMovementRepository defines the interface for movement persistence.
// Movements are append-only audit records.
type StockMovementRepository interface {
	// FindByMaterial lists movements for a material, newest first
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindLatestByMaterial returns the most recent movement of a material,
	// shared.ErrNotFound when it has never moved
	FindLatestByMaterial(ctx context.Context, materialID uuid.UUID) (*StockMovement, error)

	// Save appends a movement
	Save(ctx context.Context, mv *StockMovement) error
}

// MaterialPurchaseRepository defines the interface for purchase persistence
type MaterialPurchaseRepository interface {
	// FindByID finds a purchase by ID
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialPurchase, error)

	// FindByNumber finds a purchase by document number
	FindByNumber(ctx context.Context, number string) (*MaterialPurchase, error)

	// FindBySupplier lists purchases from a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]MaterialPurchase, error)

	// FindByMaterial lists purchases of a material
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]MaterialPurchase, error)

	// FindAll finds purchases with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]MaterialPurchase, error)

	// Save creates or updates a purchase
	Save(ctx context.Context, p *MaterialPurchase) error

	// Count counts purchases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
