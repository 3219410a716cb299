// Package pricing contains the pure monetary calculations shared by every
// document in the system. Totals must reproduce identically regardless of
// call site, so rounding (half away from zero, 2 places) is applied at each
// intermediate step here and nowhere else.
package pricing

import (
	"fmt"

	"github.com/alumac/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineInput represents the inputs of a single document line.
type LineInput struct {
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
}

// Totals contains the order-level roll-up of a document.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// LineTotal computes quantity * unitPrice * (1 - discountPct/100), rounded
// half away from zero to 2 decimal places.
func LineTotal(quantity, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	return quantity.Mul(unitPrice).Mul(factor).Round(2)
}

// OrderTotals computes the document roll-up from its lines, a global
// discount percentage and a tax percentage. The subtotal is the sum of
// already-rounded line totals, so permuting the lines never changes the
// result.
func OrderTotals(items []LineInput, globalDiscountPct, taxPct decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item.Quantity, item.UnitPrice, item.DiscountPct))
	}

	discountAmount := subtotal.Mul(globalDiscountPct.Div(hundred)).Round(2)
	taxable := subtotal.Sub(discountAmount)
	taxAmount := taxable.Mul(taxPct.Div(hundred)).Round(2)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		Total:          subtotal.Sub(discountAmount).Add(taxAmount),
	}
}

// Convert converts an amount between the two system currencies at the given
// exchange rate (ARS per USD). No rounding is applied: converted values may
// feed further calculation, rounding is a display concern.
func Convert(amount valueobject.Money, to valueobject.Currency, rate decimal.Decimal) (valueobject.Money, error) {
	if !to.IsValid() {
		return valueobject.Money{}, fmt.Errorf("unsupported target currency: %q", to)
	}
	if amount.Currency() == to {
		return amount, nil
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return valueobject.Money{}, fmt.Errorf("exchange rate must be positive, got %s", rate)
	}

	switch to {
	case valueobject.ARS:
		return valueobject.NewMoney(amount.Amount().Mul(rate), to)
	default:
		return valueobject.NewMoney(amount.Amount().Div(rate), to)
	}
}
