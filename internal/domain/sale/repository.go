package sale

import (
	"context"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for sale persistence
type Repository interface {
	// FindByID finds a sale (with items) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByNumber finds a sale by document number
	FindByNumber(ctx context.Context, number string) (*Sale, error)

	// FindByQuoteID finds the sale created from a quote,
	// shared.ErrNotFound when the quote was never converted
	FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*Sale, error)

	// ExistsByQuoteID reports whether a quote already has a sale
	ExistsByQuoteID(ctx context.Context, quoteID uuid.UUID) (bool, error)

	// FindAll finds sales with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// FindByClient finds sales for a client
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// FindByStatus finds sales in a given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Sale, error)

	// Save creates or updates a sale and its items
	Save(ctx context.Context, s *Sale) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
