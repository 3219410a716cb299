// Package inventory exposes material catalog and stock operations. Stock
// changes that touch money go through the ledger composer; this service only
// manages the catalog and read paths.
package inventory

import (
	"context"

	appledger "github.com/alumac/backend/internal/application/ledger"
	"github.com/alumac/backend/internal/domain/inventory"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles material and purchase operations
type Service struct {
	materials inventory.MaterialRepository
	movements inventory.StockMovementRepository
	purchases inventory.MaterialPurchaseRepository
	composer  *appledger.Composer
	logger    *zap.Logger
}

// NewService creates a new inventory Service
func NewService(materials inventory.MaterialRepository, movements inventory.StockMovementRepository, purchases inventory.MaterialPurchaseRepository, composer *appledger.Composer, logger *zap.Logger) *Service {
	return &Service{
		materials: materials,
		movements: movements,
		purchases: purchases,
		composer:  composer,
		logger:    logger,
	}
}

// CreateMaterial registers a new material in the catalog
func (s *Service) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	m, err := inventory.NewMaterial(req.Code, req.Name, inventory.Unit(req.Unit), req.MinStock, req.UnitCost)
	if err != nil {
		return nil, err
	}
	m.Description = req.Description

	if err := s.materials.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("material created", zap.String("code", m.Code), zap.String("unit", string(m.Unit)))

	response := ToMaterialResponse(m)
	return &response, nil
}

// GetMaterial retrieves a material by ID
func (s *Service) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMaterialResponse(m)
	return &response, nil
}

// GetMaterialByCode retrieves a material by its code
func (s *Service) GetMaterialByCode(ctx context.Context, code string) (*MaterialResponse, error) {
	m, err := s.materials.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToMaterialResponse(m)
	return &response, nil
}

// ListMaterials retrieves materials with filtering and pagination
func (s *Service) ListMaterials(ctx context.Context, filter MaterialListFilter) ([]MaterialResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "code",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.Unit != nil {
		domainFilter.Filters["unit"] = *filter.Unit
	}
	if filter.BelowMinimum {
		domainFilter.Filters["below_minimum"] = true
	}

	materials, err := s.materials.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.materials.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMaterialResponses(materials), total, nil
}

// ListBelowMinimum lists active materials whose stock is under their minimum
func (s *Service) ListBelowMinimum(ctx context.Context) ([]MaterialResponse, error) {
	materials, err := s.materials.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return ToMaterialResponses(materials), nil
}

// SetUnitCost updates the replacement cost of a material
func (s *Service) SetUnitCost(ctx context.Context, id uuid.UUID, cost decimal.Decimal) (*MaterialResponse, error) {
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.SetUnitCost(cost); err != nil {
		return nil, err
	}
	if err := s.materials.Save(ctx, m); err != nil {
		return nil, err
	}
	response := ToMaterialResponse(m)
	return &response, nil
}

// DeactivateMaterial retires a material from the catalog
func (s *Service) DeactivateMaterial(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Deactivate()
	if err := s.materials.Save(ctx, m); err != nil {
		return nil, err
	}
	response := ToMaterialResponse(m)
	return &response, nil
}

// ListMovements lists the movement history of a material, newest first
func (s *Service) ListMovements(ctx context.Context, materialID uuid.UUID, page, pageSize int) ([]MovementResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if _, err := s.materials.FindByID(ctx, materialID); err != nil {
		return nil, err
	}
	movements, err := s.movements.FindByMaterial(ctx, materialID, shared.Filter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// RecordPurchase records a supplier restock through the ledger composer
func (s *Service) RecordPurchase(ctx context.Context, input appledger.MaterialPurchaseInput) (*appledger.PurchaseResult, error) {
	return s.composer.RecordMaterialPurchase(ctx, input)
}

// AdjustStock applies a signed stock correction through the ledger composer
func (s *Service) AdjustStock(ctx context.Context, input appledger.StockAdjustmentInput) (*appledger.AdjustmentResult, error) {
	return s.composer.AdjustStock(ctx, input)
}

// GetPurchase retrieves a purchase by ID
func (s *Service) GetPurchase(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	p, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(p)
	return &response, nil
}

// ListPurchases retrieves purchases with filtering and pagination
func (s *Service) ListPurchases(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.MaterialID != nil {
		domainFilter.Filters["material_id"] = *filter.MaterialID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.PaymentStatus != nil {
		domainFilter.Filters["payment_status"] = *filter.PaymentStatus
	}

	purchases, err := s.purchases.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchases.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseResponses(purchases), total, nil
}
