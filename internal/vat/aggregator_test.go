package vat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoice-extractor/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fields(amounts, taxes [4]string, stored *string) models.DecodedInvoiceFields {
	var f models.DecodedInvoiceFields
	for i := range f.Buckets {
		f.Buckets[i] = models.VatBucket{Amount: dec(amounts[i]), Tax: dec(taxes[i])}
	}
	if stored != nil {
		f.StoredGrandTotal = decimal.NewNullDecimal(dec(*stored))
	}
	return f
}

func str(s string) *string { return &s }

func TestAggregate_BasicBucketOnly(t *testing.T) {
	f := fields([4]string{"0", "0", "100", "0"}, [4]string{"0", "0", "20", "0"}, nil)

	got := Aggregate(f)
	assert.True(t, got.Base.Equal(dec("100")))
	assert.True(t, got.Tax.Equal(dec("20")))
	assert.True(t, got.Grand.Equal(dec("120")))
	assert.False(t, got.Mismatch)
}

func TestAggregate_ZeroBucketTaxIgnored(t *testing.T) {
	f := fields([4]string{"10", "0", "0", "0"}, [4]string{"99", "0", "0", "0"}, nil)

	got := Aggregate(f)
	assert.True(t, got.Base.Equal(dec("10")))
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Grand.Equal(dec("10")))
}

func TestAggregate_AllBuckets(t *testing.T) {
	f := fields([4]string{"0.10", "50.05", "100.20", "3.33"}, [4]string{"0", "5.01", "20.04", "0.17"}, nil)

	got := Aggregate(f)
	assert.True(t, got.Base.Equal(dec("153.68")))
	assert.True(t, got.Tax.Equal(dec("25.22")))
	assert.True(t, got.Grand.Equal(got.Base.Add(got.Tax)))
}

func TestAggregate_StoredGrandTotal(t *testing.T) {
	amounts := [4]string{"0", "0", "100", "0"}
	taxes := [4]string{"0", "0", "20", "0"}

	tests := []struct {
		name         string
		stored       *string
		wantGrand    string
		wantMismatch bool
	}{
		{name: "absent", stored: nil, wantGrand: "120", wantMismatch: false},
		{name: "zero falls back", stored: str("0"), wantGrand: "120", wantMismatch: false},
		{name: "equal", stored: str("120"), wantGrand: "120", wantMismatch: false},
		{name: "within epsilon", stored: str("120.01"), wantGrand: "120.01", wantMismatch: false},
		{name: "rounding cent below", stored: str("119.99"), wantGrand: "119.99", wantMismatch: false},
		{name: "outside epsilon", stored: str("120.02"), wantGrand: "120.02", wantMismatch: true},
		{name: "far off", stored: str("150"), wantGrand: "150", wantMismatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(fields(amounts, taxes, tt.stored))
			assert.True(t, got.Grand.Equal(dec(tt.wantGrand)), "grand = %s", got.Grand)
			assert.True(t, got.Computed.Equal(dec("120")))
			assert.Equal(t, tt.wantMismatch, got.Mismatch)
		})
	}
}

func TestAggregate_EmptyFields(t *testing.T) {
	got := Aggregate(models.DecodedInvoiceFields{})
	assert.True(t, got.Base.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Grand.IsZero())
	assert.False(t, got.Mismatch)
}

func TestMismatchDetail(t *testing.T) {
	got := Aggregate(fields([4]string{"0", "0", "100", "0"}, [4]string{"0", "0", "20", "0"}, str("150")))
	assert.Equal(t, "stored grand total 150.00 differs from computed 120.00 (base 100.00 + tax 20.00)", MismatchDetail(got))
}
