package models

import (
	"github.com/shopspring/decimal"
)

// Amount is a money value that serializes as a bare JSON number with at
// least two fraction digits. Sub-cent precision is kept, never rounded away.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Equal(a.Round(2)) {
		return []byte(a.StringFixed(2)), nil
	}
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}
