package ledger

import (
	"context"
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for ledger persistence. The ledger is
// append-only: Save inserts, it never updates an existing entry.
type Repository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByNumber finds a transaction by document number
	FindByNumber(ctx context.Context, number string) (*Transaction, error)

	// FindAll finds transactions with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Transaction, error)

	// FindByKind finds transactions of a given kind
	FindByKind(ctx context.Context, kind Kind, filter shared.Filter) ([]Transaction, error)

	// FindBySale finds transactions linked to a sale
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Transaction, error)

	// FindByDateRange finds transactions dated within [from, to]
	FindByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]Transaction, error)

	// FindCompensationFor finds the adjustment voiding the given entry,
	// shared.ErrNotFound when the entry stands
	FindCompensationFor(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindLatest returns the most recently recorded transaction
	FindLatest(ctx context.Context) (*Transaction, error)

	// Save appends a transaction. Implementations must reject updates to
	// already-persisted entries with shared.ErrLedgerEntryImmutable.
	Save(ctx context.Context, t *Transaction) error

	// Delete hard-deletes a transaction. Implementations must reject any
	// entry other than the latest with shared.ErrLedgerEntryImmutable.
	Delete(ctx context.Context, id uuid.UUID) error

	// Balance sums the signed amounts of all entries in a currency
	Balance(ctx context.Context, currency valueobject.Currency) (decimal.Decimal, error)

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
