package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/alumac/backend/internal/domain/shared"
)

type txKey struct{}

// withTx returns a context carrying the transaction handle.
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// dbFromContext resolves the DB handle for the current context. Inside a
// unit of work every repository joins the same transaction; outside one the
// base connection is used.
func dbFromContext(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base
}

// GormUnitOfWork runs a function inside a single database transaction. The
// transaction travels through the context, so repositories created from the
// same *gorm.DB automatically participate.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a transaction. Any error rolls the whole
// transaction back, leaving no partial effects.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
