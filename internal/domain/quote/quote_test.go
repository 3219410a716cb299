package quote

import (
	"testing"
	"time"

	"github.com/alumac/backend/internal/domain/shared"
	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestQuote(t *testing.T) *Quote {
	t.Helper()
	issue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	q, err := NewQuote("PRES-2025-001", uuid.New(), issue, issue.AddDate(0, 1, 0), valueobject.ARS)
	assert.NoError(t, err)
	return q
}

func addItem(t *testing.T, q *Quote, qty, price, disc string) {
	t.Helper()
	_, err := q.AddItem("aluminum frame", dec(qty), dec(price), dec(disc))
	assert.NoError(t, err)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewQuote(t *testing.T) {
	t.Run("valid quote starts pending", func(t *testing.T) {
		q := newTestQuote(t)
		assert.Equal(t, StatusPending, q.Status)
		assert.True(t, q.Total.IsZero())
		assert.Len(t, q.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeQuoteCreated, q.GetDomainEvents()[0].EventType())
	})

	t.Run("empty number rejected", func(t *testing.T) {
		_, err := NewQuote("", uuid.New(), time.Now(), time.Now().AddDate(0, 1, 0), valueobject.ARS)
		assert.Error(t, err)
	})

	t.Run("validity before issue rejected", func(t *testing.T) {
		now := time.Now()
		_, err := NewQuote("PRES-2025-002", uuid.New(), now, now.AddDate(0, 0, -1), valueobject.ARS)
		assert.Error(t, err)
	})

	t.Run("unsupported currency rejected", func(t *testing.T) {
		_, err := NewQuote("PRES-2025-003", uuid.New(), time.Now(), time.Now().AddDate(0, 1, 0), "EUR")
		assert.Error(t, err)
	})
}

func TestQuoteTotals(t *testing.T) {
	q := newTestQuote(t)
	addItem(t, q, "2", "1000", "0")
	addItem(t, q, "1", "500", "10")
	assert.NoError(t, q.SetDiscount(dec("5")))
	assert.NoError(t, q.SetTax(dec("21")))

	assert.Equal(t, "2450.00", q.Subtotal.StringFixed(2))
	assert.Equal(t, "122.50", q.DiscountAmount.StringFixed(2))
	assert.Equal(t, "488.78", q.TaxAmount.StringFixed(2))
	assert.Equal(t, "2816.28", q.Total.StringFixed(2))
}

func TestQuoteItemValidation(t *testing.T) {
	q := newTestQuote(t)

	_, err := q.AddItem("", dec("1"), dec("10"), dec("0"))
	assert.Error(t, err)

	_, err = q.AddItem("window", dec("0"), dec("10"), dec("0"))
	assert.Error(t, err)

	_, err = q.AddItem("window", dec("1"), dec("-10"), dec("0"))
	assert.Error(t, err)

	_, err = q.AddItem("window", dec("1"), dec("10"), dec("120"))
	assert.Error(t, err)
}

func TestQuoteRemoveItem(t *testing.T) {
	q := newTestQuote(t)
	item, err := q.AddItem("door", dec("1"), dec("800"), dec("0"))
	assert.NoError(t, err)
	addItem(t, q, "2", "100", "0")

	assert.NoError(t, q.RemoveItem(item.ID))
	assert.Equal(t, 1, q.ItemCount())
	assert.Equal(t, "200.00", q.Total.StringFixed(2))

	assert.Error(t, q.RemoveItem(uuid.New()))
}

func TestQuoteStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusSent, true},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusExpired, true},
		{StatusPending, StatusConverted, true},
		{StatusSent, StatusApproved, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusExpired, true},
		{StatusSent, StatusConverted, true},
		{StatusSent, StatusPending, false},
		{StatusApproved, StatusConverted, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusSent, false},
		{StatusConverted, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusExpired, StatusSent, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestQuoteLifecycle(t *testing.T) {
	t.Run("happy path to converted", func(t *testing.T) {
		q := newTestQuote(t)
		addItem(t, q, "1", "1000", "0")

		assert.NoError(t, q.Send())
		assert.NoError(t, q.Approve())
		assert.NoError(t, q.MarkConverted(uuid.New()))
		assert.Equal(t, StatusConverted, q.Status)
		assert.NotNil(t, q.ConvertedAt)
	})

	t.Run("approve requires items", func(t *testing.T) {
		q := newTestQuote(t)
		err := q.Approve()
		assert.Error(t, err)
		var derr *shared.DomainError
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, "NO_ITEMS", derr.Code)
	})

	t.Run("converting a rejected quote fails with invalid state", func(t *testing.T) {
		q := newTestQuote(t)
		addItem(t, q, "1", "1000", "0")
		assert.NoError(t, q.Reject("too expensive"))

		err := q.MarkConverted(uuid.New())
		var derr *shared.DomainError
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
		assert.Equal(t, StatusRejected, q.Status)
	})

	t.Run("converting twice reports already converted", func(t *testing.T) {
		q := newTestQuote(t)
		addItem(t, q, "1", "1000", "0")
		assert.NoError(t, q.MarkConverted(uuid.New()))

		err := q.MarkConverted(uuid.New())
		assert.ErrorIs(t, err, shared.ErrAlreadyConverted)
	})

	t.Run("converted quote is immutable", func(t *testing.T) {
		q := newTestQuote(t)
		addItem(t, q, "1", "1000", "0")
		assert.NoError(t, q.MarkConverted(uuid.New()))

		_, err := q.AddItem("extra", dec("1"), dec("10"), dec("0"))
		assert.Error(t, err)
		assert.Error(t, q.SetDiscount(dec("10")))
		assert.Error(t, q.SetTax(dec("10")))
		assert.False(t, q.CanModify())
	})

	t.Run("reject reason recorded", func(t *testing.T) {
		q := newTestQuote(t)
		assert.NoError(t, q.Reject("client declined"))
		assert.Equal(t, "client declined", q.RejectReason)
		assert.NotNil(t, q.RejectedAt)
	})

	t.Run("expire from sent", func(t *testing.T) {
		q := newTestQuote(t)
		addItem(t, q, "1", "100", "0")
		assert.NoError(t, q.Send())
		assert.NoError(t, q.Expire())
		assert.Equal(t, StatusExpired, q.Status)
		assert.Error(t, q.Send())
	})
}

func TestQuoteIsExpiredAt(t *testing.T) {
	q := newTestQuote(t)
	assert.False(t, q.IsExpiredAt(q.ValidUntil))
	assert.True(t, q.IsExpiredAt(q.ValidUntil.Add(time.Hour)))
}

func TestBudgetExpense(t *testing.T) {
	t.Run("valid expense", func(t *testing.T) {
		e, err := NewBudgetExpense(uuid.New(), ExpenseCategoryMaterials, "profiles", dec("40000"), valueobject.ARS, time.Now())
		assert.NoError(t, err)
		assert.Equal(t, "40000.00", e.Amount.StringFixed(2))
	})

	t.Run("non positive amount rejected", func(t *testing.T) {
		_, err := NewBudgetExpense(uuid.New(), ExpenseCategoryLabor, "", dec("0"), valueobject.ARS, time.Now())
		assert.Error(t, err)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := NewBudgetExpense(uuid.New(), ExpenseCategory("FUEL"), "", dec("10"), valueobject.ARS, time.Now())
		assert.Error(t, err)
	})
}
