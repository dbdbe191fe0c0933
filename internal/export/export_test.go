package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoice-extractor/internal/models"
)

func sampleResult() *models.BatchResult {
	kind := int64(2)
	result := models.NewBatchResult()
	result.RunID = "run-1"
	result.Table = "FA"
	result.Invoices = append(result.Invoices, models.CanonicalInvoice{
		ID:             int64(1),
		InvoiceNumber:  "FV-1",
		IssueDate:      "2024-01-10",
		TotalAmount:    models.NewAmount(decimal.NewFromInt(100)),
		VATAmount:      models.NewAmount(decimal.NewFromInt(21)),
		TotalWithVAT:   models.NewAmount(decimal.NewFromInt(121)),
		Currency:       models.CurrencyEUR,
		Status:         models.StatusSent,
		Classification: models.Classification{Direction: models.DirectionIssued, Kind: &kind},
	})
	result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
		RowIndex: 2,
		Code:     models.CodeRowDecodeFailed,
		Severity: models.SeverityError,
		Detail:   "decode: missing required column Cislo",
	})
	result.Summary = models.BatchSummary{
		RowsRead:     2,
		Invoices:     1,
		Diagnostics:  1,
		ByDirection:  map[models.Direction]int{models.DirectionIssued: 1},
		TotalAmount:  models.NewAmount(decimal.NewFromInt(100)),
		VATAmount:    models.NewAmount(decimal.NewFromInt(21)),
		TotalWithVAT: models.NewAmount(decimal.NewFromInt(121)),
	}
	return result
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{" xlsx ", FormatXLSX, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult()))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	invoices := doc["invoices"].([]interface{})
	require.Len(t, invoices, 1)
	inv := invoices[0].(map[string]interface{})
	assert.Equal(t, "FV-1", inv["invoice_number"])
	assert.Equal(t, 121.0, inv["total_with_vat"])
	assert.Equal(t, "EUR", inv["currency"])
	assert.Equal(t, "issued", inv["classification"].(map[string]interface{})["direction"])

	diagnostics := doc["diagnostics"].([]interface{})
	require.Len(t, diagnostics, 1)
	assert.Equal(t, 2.0, diagnostics[0].(map[string]interface{})["row_index"])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleResult()))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{invoicesSheet, diagnosticsSheet, summarySheet}, wb.GetSheetList())

	rows, err := wb.GetRows(invoicesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "invoice_number", rows[0][1])
	assert.Equal(t, "FV-1", rows[1][1])
	assert.Equal(t, "121", rows[1][10])
	assert.Equal(t, "issued", rows[1][22])
	assert.Equal(t, "2", rows[1][23])

	diag, err := wb.GetRows(diagnosticsSheet)
	require.NoError(t, err)
	require.Len(t, diag, 2)
	assert.Equal(t, models.CodeRowDecodeFailed, diag[1][2])

	summary, err := wb.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"run_id", "run-1"}, summary[1])
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, "pdf", sampleResult()))
	assert.Zero(t, buf.Len())
}
