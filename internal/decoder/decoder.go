// Package decoder turns raw rows of a legacy invoice table into typed
// invoice fields.
//
// Values never fail decoding: null, empty or malformed numbers become zero,
// strings become "", dates become "" and classification codes become nil.
// Only a row that is structurally unreadable produces a *DecodeError.
package decoder

import (
	"fmt"
	"strings"

	"invoice-extractor/internal/models"
)

// Decoder decodes rows according to a column Layout
type Decoder struct {
	layout Layout
}

// New returns a Decoder for the given layout. Empty layout fields fall back
// to the Pohoda defaults.
func New(layout Layout) *Decoder {
	return &Decoder{layout: layout.withDefaults()}
}

// NewDefault returns a Decoder for the Pohoda FA layout
func NewDefault() *Decoder {
	return New(DefaultLayout())
}

// Layout returns the effective layout
func (d *Decoder) Layout() Layout {
	return d.layout
}

// Decode projects a raw row onto DecodedInvoiceFields.
func (d *Decoder) Decode(row models.RawRow) (models.DecodedInvoiceFields, error) {
	if len(row) == 0 {
		return models.DecodedInvoiceFields{}, NewDecodeError(0, ErrStructurallyUnreadable, "row has no columns")
	}
	for _, col := range d.layout.Required() {
		if !row.Has(col) {
			return models.DecodedInvoiceFields{}, NewDecodeError(0, ErrStructurallyUnreadable,
				fmt.Sprintf("missing required column %s", col))
		}
	}

	l := d.layout
	get := func(col string) any {
		v, _ := row.Get(col)
		return v
	}
	str := func(col string) string { return toString(get(col)) }

	f := models.DecodedInvoiceFields{
		ID:            toID(get(l.ID)),
		InvoiceNumber: str(l.InvoiceNumber),
		IssueDate:     toDate(get(l.IssueDate)),
		DueDate:       toDate(get(l.DueDate)),
		CustomerName:  str(l.CustomerName),
		CustomerICO:   str(l.CustomerICO),
		CustomerDIC:   str(l.CustomerDIC),
		Street:        str(l.Street),
		PostalCode:    str(l.PostalCode),
		City:          str(l.City),
		VarSym:        str(l.VarSym),
		Notes:         str(l.Notes),
		TypeCode:      toCode(get(l.TypeCode)),
		KindCode:      toCode(get(l.KindCode)),
	}
	f.Address = ComposeAddress(f.Street, f.PostalCode, f.City)

	f.Buckets[models.RateZero].Amount = toDecimal(get(l.AmountZero))
	f.Buckets[models.RateReduced].Amount = toDecimal(get(l.AmountReduced))
	f.Buckets[models.RateBasic].Amount = toDecimal(get(l.AmountBasic))
	f.Buckets[models.RateTertiary].Amount = toDecimal(get(l.AmountThird))
	f.Buckets[models.RateReduced].Tax = toDecimal(get(l.TaxReduced))
	f.Buckets[models.RateBasic].Tax = toDecimal(get(l.TaxBasic))
	f.Buckets[models.RateTertiary].Tax = toDecimal(get(l.TaxThird))

	grand, present := row.Get(l.GrandTotal)
	f.StoredGrandTotal = toNullDecimal(grand, present)

	return f, nil
}

// ComposeAddress joins street and "postal city" with ", " and strips the
// separator artifacts left by empty parts.
func ComposeAddress(street, postalCode, city string) string {
	pair := strings.TrimSpace(postalCode + " " + city)
	return strings.Trim(street+", "+pair, ", ")
}
