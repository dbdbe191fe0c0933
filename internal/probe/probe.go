// Package probe reports the columns a source table actually has, so an
// operator can check an unfamiliar export against the decoder layout before
// trusting a full extraction run. It only reads metadata, never row data.
package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoice-extractor/internal/models"
)

// ErrSchemaUnavailable is returned when column metadata cannot be obtained.
var ErrSchemaUnavailable = errors.New("schema metadata unavailable")

// ColumnMetadata is one column as reported by the metadata collaborator.
type ColumnMetadata struct {
	Name          string
	DatabaseType  string
	Nullable      bool
	NullableKnown bool
}

// MetadataSource supplies column metadata for a table.
type MetadataSource interface {
	ColumnMetadata(ctx context.Context, table string) ([]ColumnMetadata, error)
}

// Probe describes the columns of table and lists which of the expected
// columns are absent. Absence is reported as data, not as an error.
func Probe(ctx context.Context, src MetadataSource, table string, expected []string) (*models.ProbeReport, error) {
	const op = "Probe"

	metadata, err := src.ColumnMetadata(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrSchemaUnavailable, err)
	}

	report := &models.ProbeReport{
		Table:   table,
		Columns: Describe(metadata),
		Missing: []string{},
	}

	present := make(map[string]bool, len(metadata))
	for _, m := range metadata {
		present[strings.ToLower(m.Name)] = true
	}
	seen := make(map[string]bool, len(expected))
	for _, name := range expected {
		key := strings.ToLower(name)
		if present[key] || seen[key] {
			continue
		}
		seen[key] = true
		report.Missing = append(report.Missing, name)
	}
	return report, nil
}

// Describe converts raw metadata into descriptors, keeping source order.
func Describe(metadata []ColumnMetadata) []models.ColumnDescriptor {
	out := make([]models.ColumnDescriptor, 0, len(metadata))
	for _, m := range metadata {
		nullable := models.NullableUnknown
		if m.NullableKnown {
			nullable = models.NullableNo
			if m.Nullable {
				nullable = models.NullableYes
			}
		}
		out = append(out, models.ColumnDescriptor{
			Name:         m.Name,
			DeclaredType: m.DatabaseType,
			Nullable:     nullable,
		})
	}
	return out
}
