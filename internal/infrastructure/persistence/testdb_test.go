package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alumac/backend/internal/domain/inventory"
	"github.com/alumac/backend/internal/domain/ledger"
	"github.com/alumac/backend/internal/domain/quote"
	"github.com/alumac/backend/internal/domain/sale"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&quote.Quote{},
		&quote.Item{},
		&quote.BudgetExpense{},
		&sale.Sale{},
		&sale.Item{},
		&ledger.Transaction{},
		&inventory.Material{},
		&inventory.StockMovement{},
		&inventory.MaterialPurchase{},
		&DocumentNumber{},
	)
	require.NoError(t, err)

	return db
}
