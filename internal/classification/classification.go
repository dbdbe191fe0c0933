// Package classification resolves the legacy invoice type code into a
// stable direction. Unknown codes are a regular outcome, not an error.
package classification

import (
	"fmt"
	"strings"

	"invoice-extractor/internal/models"
)

// Legacy type codes (RelTpFak)
const (
	TypeCodeIssued   int64 = 1
	TypeCodeReceived int64 = 11
)

var directionByCode = map[int64]models.Direction{
	TypeCodeIssued:   models.DirectionIssued,
	TypeCodeReceived: models.DirectionReceived,
}

// Classify maps the type code onto a direction and carries the kind code
// through untouched. Nil or unmapped type codes resolve to Unknown.
func Classify(typeCode, kindCode *int64) models.Classification {
	c := models.Classification{
		Direction: models.DirectionUnknown,
		Kind:      copyCode(kindCode),
	}
	if typeCode == nil {
		return c
	}
	if d, ok := directionByCode[*typeCode]; ok {
		c.Direction = d
	}
	return c
}

func copyCode(code *int64) *int64 {
	if code == nil {
		return nil
	}
	v := *code
	return &v
}

// ParseDirection parses a caller-supplied direction filter. The empty
// string means no filter and yields "", nil.
func ParseDirection(s string) (models.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(models.DirectionIssued):
		return models.DirectionIssued, nil
	case string(models.DirectionReceived):
		return models.DirectionReceived, nil
	case string(models.DirectionUnknown):
		return models.DirectionUnknown, nil
	default:
		return "", fmt.Errorf("unknown direction %q (want issued, received or unknown)", s)
	}
}

// TypeCodeFor returns the legacy type code used to filter a direction at
// the source. Unknown has no single code, so ok is false.
func TypeCodeFor(d models.Direction) (code int64, ok bool) {
	for c, dir := range directionByCode {
		if dir == d {
			return c, true
		}
	}
	return 0, false
}
