package sale

import (
	"context"

	appledger "github.com/alumac/backend/internal/application/ledger"
	"github.com/alumac/backend/internal/domain/numbering"
	"github.com/alumac/backend/internal/domain/sale"
	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles sale business operations
type Service struct {
	saleRepo  sale.Repository
	allocator *numbering.Allocator
	composer  *appledger.Composer
	logger    *zap.Logger
}

// NewService creates a new sale Service
func NewService(saleRepo sale.Repository, allocator *numbering.Allocator, composer *appledger.Composer, logger *zap.Logger) *Service {
	return &Service{
		saleRepo:  saleRepo,
		allocator: allocator,
		composer:  composer,
		logger:    logger,
	}
}

// Create creates a direct sale that does not originate from a quote
func (s *Service) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A sale needs at least one item")
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	number, err := s.allocator.Allocate(ctx, numbering.DocumentTypeSale)
	if err != nil {
		return nil, err
	}

	newSale, err := sale.NewSale(number, req.ClientID, currency)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := newSale.AddItem(item.Description, item.Quantity, item.UnitPrice, item.DiscountPct); err != nil {
			return nil, err
		}
	}
	if !req.DiscountPct.IsZero() {
		if err := newSale.SetDiscount(req.DiscountPct); err != nil {
			return nil, err
		}
	}
	if !req.TaxPct.IsZero() {
		if err := newSale.SetTax(req.TaxPct); err != nil {
			return nil, err
		}
	}
	newSale.Notes = req.Notes

	if err := s.saleRepo.Save(ctx, newSale); err != nil {
		return nil, err
	}

	s.logger.Info("sale created", zap.String("number", newSale.Number), zap.String("total", newSale.Total.String()))

	response := ToSaleResponse(newSale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	found, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(found)
	return &response, nil
}

// GetByNumber retrieves a sale by document number
func (s *Service) GetByNumber(ctx context.Context, number string) (*SaleResponse, error) {
	found, err := s.saleRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(found)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *Service) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	var (
		sales []sale.Sale
		err   error
	)
	switch {
	case filter.ClientID != nil:
		sales, err = s.saleRepo.FindByClient(ctx, *filter.ClientID, domainFilter)
	case filter.Status != nil:
		sales, err = s.saleRepo.FindByStatus(ctx, *filter.Status, domainFilter)
	default:
		sales, err = s.saleRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleResponses(sales), total, nil
}

// StartProduction moves the sale into production
func (s *Service) StartProduction(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	return s.transition(ctx, id, func(sl *sale.Sale) error { return sl.StartProduction() })
}

// MarkReady marks the sale as ready for delivery
func (s *Service) MarkReady(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	return s.transition(ctx, id, func(sl *sale.Sale) error { return sl.MarkReady() })
}

// MarkDelivered marks the sale as delivered
func (s *Service) MarkDelivered(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	return s.transition(ctx, id, func(sl *sale.Sale) error { return sl.MarkDelivered() })
}

// MarkCollected closes a fully paid sale
func (s *Service) MarkCollected(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	return s.transition(ctx, id, func(sl *sale.Sale) error { return sl.MarkCollected() })
}

// Cancel cancels a sale before delivery
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*SaleResponse, error) {
	return s.transition(ctx, id, func(sl *sale.Sale) error { return sl.Cancel(reason) })
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, fn func(sl *sale.Sale) error) (*SaleResponse, error) {
	found, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(found); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, found); err != nil {
		return nil, err
	}
	response := ToSaleResponse(found)
	return &response, nil
}

// RecordPayment applies a collection to the sale and its ledger entry
// atomically through the composer
func (s *Service) RecordPayment(ctx context.Context, input appledger.SalePaymentInput) (*appledger.PaymentResult, error) {
	return s.composer.RecordSalePayment(ctx, input)
}
