package pricing

import "github.com/shopspring/decimal"

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.NewFromFloat(0.10)

var taxRate = DefaultTaxRate

// SetTaxRate overrides the package tax rate. Called once at startup
// from configuration, before any cart or order exists.
func SetTaxRate(rate decimal.Decimal) {
	if rate.IsNegative() {
		return
	}
	taxRate = rate
}

// TaxRate returns the rate currently in effect.
func TaxRate() decimal.Decimal {
	return taxRate
}

// Breakdown is the monetary summary of a set of line items. All three
// values are rounded to cents; Total is the sum of the rounded parts,
// so Subtotal + Tax == Total always holds.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Round applies the money rounding policy: half-up to 2 decimal places,
// applied once per derived value.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Calculate derives the full breakdown from an exact (unrounded) subtotal.
func Calculate(subtotal decimal.Decimal) Breakdown {
	roundedSubtotal := Round(subtotal)
	tax := Round(subtotal.Mul(taxRate))
	return Breakdown{
		Subtotal: roundedSubtotal,
		Tax:      tax,
		Total:    roundedSubtotal.Add(tax),
	}
}

// LineTotal is unit price times quantity, kept exact for summation.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
