package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-extractor/internal/models"
)

type fakeMetadata struct {
	columns []ColumnMetadata
	err     error
	table   string
}

func (f *fakeMetadata) ColumnMetadata(_ context.Context, table string) ([]ColumnMetadata, error) {
	f.table = table
	return f.columns, f.err
}

func TestProbe_ReportsColumnsAndMissing(t *testing.T) {
	src := &fakeMetadata{columns: []ColumnMetadata{
		{Name: "ID", DatabaseType: "INTEGER", Nullable: false, NullableKnown: true},
		{Name: "Cislo", DatabaseType: "VARCHAR", Nullable: true, NullableKnown: true},
		{Name: "kccelkem", DatabaseType: "DECIMAL"},
	}}

	report, err := Probe(context.Background(), src, "FA", []string{"ID", "Cislo", "KcCelkem", "Datum", "Datum"})
	require.NoError(t, err)

	assert.Equal(t, "FA", src.table)
	assert.Equal(t, "FA", report.Table)
	assert.Equal(t, []models.ColumnDescriptor{
		{Name: "ID", DeclaredType: "INTEGER", Nullable: models.NullableNo},
		{Name: "Cislo", DeclaredType: "VARCHAR", Nullable: models.NullableYes},
		{Name: "kccelkem", DeclaredType: "DECIMAL", Nullable: models.NullableUnknown},
	}, report.Columns)
	assert.Equal(t, []string{"Datum"}, report.Missing)
}

func TestProbe_NothingMissing(t *testing.T) {
	src := &fakeMetadata{columns: []ColumnMetadata{{Name: "ID"}}}

	report, err := Probe(context.Background(), src, "FA", []string{"ID"})
	require.NoError(t, err)
	assert.Empty(t, report.Missing)
	assert.NotNil(t, report.Missing)
}

func TestProbe_SchemaUnavailable(t *testing.T) {
	cause := errors.New("no such table: FA")
	src := &fakeMetadata{err: cause}

	report, err := Probe(context.Background(), src, "FA", nil)
	assert.Nil(t, report)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaUnavailable)
	assert.ErrorIs(t, err, cause)
}
