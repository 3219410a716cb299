package shared

import "context"

// UnitOfWork executes a function atomically. Either every write performed
// inside fn is committed or none is. Implementations propagate the
// transaction through the context handed to fn, so repositories called with
// that context join the same transaction.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
