// Package export writes a normalized batch in the formats downstream
// consumers read: JSON documents and XLSX workbooks.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"invoice-extractor/internal/models"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

const (
	invoicesSheet    = "Invoices"
	diagnosticsSheet = "Diagnostics"
	summarySheet     = "Summary"
)

var invoiceHeader = []interface{}{
	"id", "invoice_number", "issue_date", "due_date", "customer_name", "customer_ico",
	"customer_dic", "customer_address", "total_amount", "vat_amount", "total_with_vat",
	"amount_0", "amount_reduced", "amount_basic", "amount_3", "vat_reduced", "vat_basic",
	"vat_3", "varsym", "notes", "currency", "status", "direction", "kind",
}

var diagnosticHeader = []interface{}{"row_index", "invoice_id", "code", "severity", "detail"}

// ParseFormat normalizes a format name. Empty means JSON.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Write encodes result to w in the given format.
func Write(w io.Writer, format string, result *models.BatchResult) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if f == FormatXLSX {
		return WriteXLSX(w, result)
	}
	return WriteJSON(w, result)
}

// WriteJSON writes result as an indented JSON document.
func WriteJSON(w io.Writer, result *models.BatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("WriteJSON: %w", err)
	}
	return nil
}

// WriteXLSX writes one row per invoice and per diagnostic, plus the batch
// summary, into a workbook.
func WriteXLSX(w io.Writer, result *models.BatchResult) error {
	const op = "WriteXLSX"

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeRows(wb, invoicesSheet, invoiceHeader, len(result.Invoices), func(i int) []interface{} {
		return invoiceRow(result.Invoices[i])
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := wb.NewSheet(diagnosticsSheet); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeRows(wb, diagnosticsSheet, diagnosticHeader, len(result.Diagnostics), func(i int) []interface{} {
		d := result.Diagnostics[i]
		return []interface{}{d.RowIndex, cellValue(d.InvoiceID), d.Code, d.Severity, d.Detail}
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := wb.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	summary := summaryRows(result)
	if err := writeRows(wb, summarySheet, []interface{}{"key", "value"}, len(summary), func(i int) []interface{} {
		return summary[i]
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func writeRows(wb *excelize.File, sheet string, header []interface{}, n int, row func(int) []interface{}) error {
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func invoiceRow(inv models.CanonicalInvoice) []interface{} {
	var kind interface{} = ""
	if inv.Classification.Kind != nil {
		kind = *inv.Classification.Kind
	}
	return []interface{}{
		cellValue(inv.ID), inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.CustomerName,
		inv.CustomerICO, inv.CustomerDIC, inv.CustomerAddress,
		money(inv.TotalAmount), money(inv.VATAmount), money(inv.TotalWithVAT),
		money(inv.Amount0), money(inv.AmountReduced), money(inv.AmountBasic), money(inv.Amount3),
		money(inv.VATReduced), money(inv.VATBasic), money(inv.VAT3),
		inv.VarSym, inv.Notes, inv.Currency, inv.Status,
		string(inv.Classification.Direction), kind,
	}
}

func summaryRows(result *models.BatchResult) [][]interface{} {
	s := result.Summary
	return [][]interface{}{
		{"run_id", result.RunID},
		{"table", result.Table},
		{"rows_read", s.RowsRead},
		{"invoices", s.Invoices},
		{"diagnostics", s.Diagnostics},
		{"issued", s.ByDirection[models.DirectionIssued]},
		{"received", s.ByDirection[models.DirectionReceived]},
		{"unknown", s.ByDirection[models.DirectionUnknown]},
		{"total_amount", money(s.TotalAmount)},
		{"vat_amount", money(s.VATAmount)},
		{"total_with_vat", money(s.TotalWithVAT)},
		{"stopped", result.Stopped},
	}
}

func money(a models.Amount) float64 {
	return a.Round(2).InexactFloat64()
}

func cellValue(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}
