package pricing

import (
	"testing"

	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLineTotal(t *testing.T) {
	cases := []struct {
		name        string
		qty         string
		price       string
		discountPct string
		want        string
	}{
		{"no discount", "2", "1000", "0", "2000.00"},
		{"10 percent discount", "1", "500", "10", "450.00"},
		{"fractional quantity", "2.5", "100.10", "0", "250.25"},
		{"rounds half away from zero", "3", "0.335", "0", "1.01"},
		{"full discount", "4", "250", "100", "0.00"},
		{"zero quantity", "0", "999.99", "5", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LineTotal(d(tc.qty), d(tc.price), d(tc.discountPct))
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestLineTotalNeverNegative(t *testing.T) {
	for _, pct := range []string{"0", "25", "50", "99.9", "100"} {
		got := LineTotal(d("7"), d("123.45"), d(pct))
		assert.False(t, got.IsNegative(), "discount %s%%", pct)
	}
}

func TestOrderTotals(t *testing.T) {
	items := []LineInput{
		{Quantity: d("2"), UnitPrice: d("1000"), DiscountPct: d("0")},
		{Quantity: d("1"), UnitPrice: d("500"), DiscountPct: d("10")},
	}

	totals := OrderTotals(items, d("5"), d("21"))

	assert.Equal(t, "2450.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "122.50", totals.DiscountAmount.StringFixed(2))
	assert.Equal(t, "488.78", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "2816.28", totals.Total.StringFixed(2))
}

func TestOrderTotalsStableUnderReordering(t *testing.T) {
	items := []LineInput{
		{Quantity: d("3"), UnitPrice: d("333.33"), DiscountPct: d("7.5")},
		{Quantity: d("1"), UnitPrice: d("0.335"), DiscountPct: d("0")},
		{Quantity: d("12"), UnitPrice: d("99.99"), DiscountPct: d("15")},
		{Quantity: d("2.5"), UnitPrice: d("1250"), DiscountPct: d("3")},
	}
	want := OrderTotals(items, d("5"), d("21"))

	permutations := [][]int{
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
	}
	for _, perm := range permutations {
		shuffled := make([]LineInput, len(items))
		for i, j := range perm {
			shuffled[i] = items[j]
		}
		got := OrderTotals(shuffled, d("5"), d("21"))
		assert.True(t, want.Subtotal.Equal(got.Subtotal))
		assert.True(t, want.Total.Equal(got.Total))
	}
}

func TestOrderTotalsEmptyItems(t *testing.T) {
	totals := OrderTotals(nil, d("5"), d("21"))
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestConvert(t *testing.T) {
	rate := d("1000") // ARS per USD

	t.Run("usd to ars multiplies", func(t *testing.T) {
		usd := valueobject.NewMoneyUSD(d("12.5"))
		got, err := Convert(usd, valueobject.ARS, rate)
		assert.NoError(t, err)
		assert.Equal(t, valueobject.ARS, got.Currency())
		assert.True(t, got.Amount().Equal(d("12500")))
	})

	t.Run("ars to usd divides", func(t *testing.T) {
		ars := valueobject.NewMoneyARS(d("12500"))
		got, err := Convert(ars, valueobject.USD, rate)
		assert.NoError(t, err)
		assert.True(t, got.Amount().Equal(d("12.5")))
	})

	t.Run("no rounding applied", func(t *testing.T) {
		ars := valueobject.NewMoneyARS(d("100"))
		got, err := Convert(ars, valueobject.USD, d("3"))
		assert.NoError(t, err)
		// 100/3 keeps its full precision for downstream calculation
		assert.True(t, got.Amount().Mul(d("3")).Sub(d("100")).Abs().LessThan(d("0.000000000001")))
	})

	t.Run("same currency is identity", func(t *testing.T) {
		ars := valueobject.NewMoneyARS(d("42"))
		got, err := Convert(ars, valueobject.ARS, rate)
		assert.NoError(t, err)
		assert.True(t, got.Equals(ars))
	})

	t.Run("non positive rate rejected", func(t *testing.T) {
		_, err := Convert(valueobject.NewMoneyARS(d("1")), valueobject.USD, d("0"))
		assert.Error(t, err)
	})
}
