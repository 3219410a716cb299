package inventory

import (
	"testing"
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestMaterial(t *testing.T) *Material {
	t.Helper()
	m, err := NewMaterial("ALU-6060", "Aluminum profile 6060", UnitMeter, dec("20"), dec("1600"))
	assert.NoError(t, err)
	return m
}

func TestNewMaterial(t *testing.T) {
	t.Run("valid material starts with zero stock", func(t *testing.T) {
		m := newTestMaterial(t)
		assert.True(t, m.StockActual.IsZero())
		assert.True(t, m.Active)
		assert.True(t, m.IsBelowMinimum())
	})

	t.Run("empty code rejected", func(t *testing.T) {
		_, err := NewMaterial("", "x", UnitMeter, dec("0"), dec("0"))
		assert.Error(t, err)
	})

	t.Run("unknown unit rejected", func(t *testing.T) {
		_, err := NewMaterial("X-1", "x", Unit("BOX"), dec("0"), dec("0"))
		assert.Error(t, err)
	})
}

func TestStockMovement(t *testing.T) {
	t.Run("in movement snapshots before and after", func(t *testing.T) {
		m := newTestMaterial(t)
		m.StockActual = dec("100")

		mv, err := NewStockMovement(m, MovementIn, dec("50"), "restock", "COMP-2025-001")
		assert.NoError(t, err)
		assert.Equal(t, "100", mv.StockBefore.String())
		assert.Equal(t, "150", mv.StockAfter.String())

		before := m.Version
		assert.NoError(t, m.ApplyMovement(mv))
		assert.Equal(t, "150", m.StockActual.String())
		assert.Equal(t, before+1, m.Version) // applying stock bumps the lock version
	})

	t.Run("out movement cannot go negative", func(t *testing.T) {
		m := newTestMaterial(t)
		m.StockActual = dec("10")

		_, err := NewStockMovement(m, MovementOut, dec("15"), "job 4 cut list", "")
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("adjustment carries its sign", func(t *testing.T) {
		m := newTestMaterial(t)
		m.StockActual = dec("30")

		mv, err := NewStockMovement(m, MovementAdjustment, dec("-5"), "inventory count", "")
		assert.NoError(t, err)
		assert.Equal(t, "25", mv.StockAfter.String())

		_, err = NewStockMovement(m, MovementAdjustment, dec("-40"), "inventory count", "")
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("zero and negative quantities rejected", func(t *testing.T) {
		m := newTestMaterial(t)
		_, err := NewStockMovement(m, MovementIn, dec("0"), "x", "")
		assert.Error(t, err)
		_, err = NewStockMovement(m, MovementOut, dec("-1"), "x", "")
		assert.Error(t, err)
		_, err = NewStockMovement(m, MovementAdjustment, dec("0"), "x", "")
		assert.Error(t, err)
	})

	t.Run("stale movement rejected on apply", func(t *testing.T) {
		m := newTestMaterial(t)
		m.StockActual = dec("100")
		mv, err := NewStockMovement(m, MovementOut, dec("10"), "cut list", "")
		assert.NoError(t, err)

		m.StockActual = dec("95") // someone else moved stock first
		assert.ErrorIs(t, m.ApplyMovement(mv), shared.ErrConcurrencyConflict)
	})

	t.Run("falling under minimum raises low stock event", func(t *testing.T) {
		m := newTestMaterial(t)
		m.StockActual = dec("25")
		m.ClearDomainEvents()

		mv, err := NewStockMovement(m, MovementOut, dec("10"), "job 9", "")
		assert.NoError(t, err)
		assert.NoError(t, m.ApplyMovement(mv))

		events := m.GetDomainEvents()
		assert.Len(t, events, 1)
		assert.Equal(t, EventTypeLowStock, events[0].EventType())
	})
}

func TestMaterialPurchase(t *testing.T) {
	purchasedAt := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	newPurchase := func(t *testing.T) *MaterialPurchase {
		t.Helper()
		p, err := NewMaterialPurchase("COMP-2025-001", uuid.New(), uuid.New(), dec("50"), dec("1600"), valueobject.ARS, purchasedAt)
		assert.NoError(t, err)
		return p
	}

	t.Run("total computed from quantity and unit price", func(t *testing.T) {
		p := newPurchase(t)
		assert.Equal(t, "80000.00", p.Total.StringFixed(2))
		assert.Equal(t, PaymentStatusUnpaid, p.PaymentStatus)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("partial then full payment", func(t *testing.T) {
		p := newPurchase(t)

		assert.NoError(t, p.RegisterPayment(valueobject.NewMoneyARS(dec("30000"))))
		assert.Equal(t, PaymentStatusPartial, p.PaymentStatus)
		assert.Equal(t, "50000.00", p.Outstanding().StringFixed(2))

		assert.NoError(t, p.RegisterPayment(valueobject.NewMoneyARS(dec("50000"))))
		assert.Equal(t, PaymentStatusPaid, p.PaymentStatus)
		assert.True(t, p.Outstanding().IsZero())
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		p := newPurchase(t)
		err := p.RegisterPayment(valueobject.NewMoneyARS(dec("90000")))
		assert.ErrorIs(t, err, shared.ErrPaymentExceedsTotal)
	})

	t.Run("currency mismatch rejected", func(t *testing.T) {
		p := newPurchase(t)
		err := p.RegisterPayment(valueobject.NewMoneyUSD(dec("100")))
		assert.ErrorIs(t, err, shared.ErrCurrencyMismatch)
	})

	t.Run("mark paid in full", func(t *testing.T) {
		p := newPurchase(t)
		p.MarkPaidInFull()
		assert.Equal(t, PaymentStatusPaid, p.PaymentStatus)
		assert.True(t, p.Outstanding().IsZero())
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewMaterialPurchase("COMP-2025-002", uuid.New(), uuid.New(), dec("0"), dec("10"), valueobject.ARS, purchasedAt)
		assert.Error(t, err)
	})
}
