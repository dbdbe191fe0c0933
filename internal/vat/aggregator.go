// Package vat sums the per-rate buckets of a legacy invoice and reconciles
// the result against the stored grand total.
package vat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"invoice-extractor/internal/models"
)

// Epsilon is the largest difference between stored and computed grand
// totals that still counts as a match.
var Epsilon = decimal.New(1, -2)

// Aggregate computes base, tax and grand totals. Summation order is fixed
// (zero, reduced, basic, tertiary). The zero-rate bucket carries no tax.
func Aggregate(fields models.DecodedInvoiceFields) models.VatTotals {
	base := decimal.Zero
	for _, rc := range []models.RateClass{models.RateZero, models.RateReduced, models.RateBasic, models.RateTertiary} {
		base = base.Add(fields.Bucket(rc).Amount)
	}

	tax := decimal.Zero
	for _, rc := range []models.RateClass{models.RateReduced, models.RateBasic, models.RateTertiary} {
		tax = tax.Add(fields.Bucket(rc).Tax)
	}

	computed := base.Add(tax)
	t := models.VatTotals{
		Base:     base,
		Tax:      tax,
		Grand:    computed,
		Computed: computed,
	}

	stored := fields.StoredGrandTotal
	if stored.Valid && !stored.Decimal.IsZero() {
		t.Grand = stored.Decimal
		t.Mismatch = stored.Decimal.Sub(computed).Abs().GreaterThan(Epsilon)
	}
	return t
}

// MismatchDetail describes a TOTAL_MISMATCH for humans.
func MismatchDetail(t models.VatTotals) string {
	return fmt.Sprintf("stored grand total %s differs from computed %s (base %s + tax %s)",
		t.Grand.StringFixed(2), t.Computed.StringFixed(2), t.Base.StringFixed(2), t.Tax.StringFixed(2))
}
