// Package money holds the pure arithmetic that turns line items and rate
// settings into financially consistent invoice totals. Everything runs on
// decimal values; amounts round half-up to 2 decimals exactly once, at the
// point the amount comes into existence.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/facturio/facturio/internal/domain"
)

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ItemTotal computes quantity times unit price, rounded to 2 decimals.
// Per-item totals are fixed at item creation so they stay stable no matter
// how often the invoice totals are re-derived.
func ItemTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Round2(quantity.Mul(unitPrice))
}

// Totals is the financial summary of an invoice.
type Totals struct {
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	RetentionAmount decimal.Decimal
	Total           decimal.Decimal
}

// Compute derives invoice totals from already-built items and the tax and
// retention rates:
//
//	subtotal  = Σ item.Total        (exact sum of per-item rounded totals)
//	tax       = round2(subtotal * taxRate)
//	retention = round2(subtotal * retentionRate)
//	total     = subtotal + tax - retention
//
// Zero items yields all-zero totals. Negative rates are rejected with a
// field-naming validation error. A retention exceeding subtotal plus tax
// produces a negative total, which is accepted: the caller decided to
// withhold more than the invoice is worth.
func Compute(items []domain.InvoiceItem, taxRate, retentionRate decimal.Decimal) (Totals, error) {
	const op = "money.compute"

	if taxRate.IsNegative() {
		return Totals{}, domain.NewValidationError(op, "taxRate", "must not be negative")
	}
	if retentionRate.IsNegative() {
		return Totals{}, domain.NewValidationError(op, "retentionRate", "must not be negative")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}

	tax := Round2(subtotal.Mul(taxRate))
	retention := Round2(subtotal.Mul(retentionRate))

	return Totals{
		Subtotal:        subtotal,
		TaxAmount:       tax,
		RetentionAmount: retention,
		Total:           subtotal.Add(tax).Sub(retention),
	}, nil
}

// RateOrZero unwraps an optional tax setting into its rate, treating an
// absent setting as 0%.
func RateOrZero(setting *domain.TaxSetting) decimal.Decimal {
	if setting == nil {
		return decimal.Zero
	}
	return setting.Rate
}
