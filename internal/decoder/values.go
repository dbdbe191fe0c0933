package decoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const isoDate = "2006-01-02"

// dateLayouts are tried in order for dates that arrive as text.
var dateLayouts = []string{
	isoDate,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04:05",
}

// toDecimal never fails; anything it cannot read is zero.
func toDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat32(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int8:
		return decimal.NewFromInt(int64(x))
	case int16:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint8:
		return decimal.NewFromInt(int64(x))
	case uint16:
		return decimal.NewFromInt(int64(x))
	case uint32:
		return decimal.NewFromInt(int64(x))
	case []byte:
		return parseDecimalText(string(x))
	case string:
		return parseDecimalText(x)
	default:
		return parseDecimalText(fmt.Sprint(x))
	}
}

// parseDecimalText accepts "1234.56", "1234,56", "1.234,56", "1,234.56"
// and tolerates surrounding or grouping spaces.
func parseDecimalText(s string) decimal.Decimal {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// toNullDecimal keeps the distinction between a null stored value and a
// stored zero.
func toNullDecimal(v any, present bool) decimal.NullDecimal {
	if !present || v == nil {
		return decimal.NullDecimal{}
	}
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return decimal.NullDecimal{}
		}
	case []byte:
		if strings.TrimSpace(string(x)) == "" {
			return decimal.NullDecimal{}
		}
	}
	return decimal.NullDecimal{Decimal: toDecimal(v), Valid: true}
}

// toDate renders a date as YYYY-MM-DD, or "" when unknown.
func toDate(v any) string {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(isoDate)
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.Format(isoDate)
	case []byte:
		return parseDateText(string(x))
	case string:
		return parseDateText(x)
	default:
		return ""
	}
}

func parseDateText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate)
		}
	}
	if len(s) > len(isoDate) {
		if t, err := time.Parse(isoDate, s[:len(isoDate)]); err == nil {
			return t.Format(isoDate)
		}
	}
	return ""
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(isoDate)
	default:
		return fmt.Sprint(x)
	}
}

// toCode reads a legacy classification code; nil means null or unreadable.
func toCode(v any) *int64 {
	var n int64
	switch x := v.(type) {
	case nil:
		return nil
	case int64:
		n = x
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int16:
		n = int64(x)
	case int8:
		n = int64(x)
	case uint8:
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return nil
		}
		n = int64(x)
	case []byte:
		return parseCode(string(x))
	case string:
		return parseCode(x)
	default:
		return parseCode(fmt.Sprint(x))
	}
	return &n
}

func parseCode(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return nil
	}
	n := d.IntPart()
	return &n
}

// toID passes numbers and text through; raw bytes become text.
func toID(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	default:
		return x
	}
}
