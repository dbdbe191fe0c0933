package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Column is a single name/value pair of a source row
type Column struct {
	Name  string
	Value any
}

// RawRow is one row as surfaced by the source cursor, in column order
type RawRow []Column

// Get returns the value of the named column. An exact match wins over a
// case-insensitive one.
func (r RawRow) Get(name string) (any, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	for _, c := range r {
		if strings.EqualFold(c.Name, name) {
			return c.Value, true
		}
	}
	return nil, false
}

// Has reports whether the row carries the named column, null or not
func (r RawRow) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// RateClass indexes the four VAT-rate buckets
type RateClass int

const (
	RateZero RateClass = iota
	RateReduced
	RateBasic
	RateTertiary
)

// VatBucket is the base/tax pair of one rate class
type VatBucket struct {
	Amount decimal.Decimal
	Tax    decimal.Decimal
}

// DecodedInvoiceFields is the typed projection of a RawRow
type DecodedInvoiceFields struct {
	ID               any
	InvoiceNumber    string
	IssueDate        string
	DueDate          string
	CustomerName     string
	CustomerICO      string
	CustomerDIC      string
	Street           string
	PostalCode       string
	City             string
	Address          string
	Buckets          [4]VatBucket
	StoredGrandTotal decimal.NullDecimal
	VarSym           string
	Notes            string
	TypeCode         *int64
	KindCode         *int64
}

// Bucket returns the bucket for the given rate class
func (f DecodedInvoiceFields) Bucket(rc RateClass) VatBucket {
	return f.Buckets[rc]
}

// Direction tells whether the invoice was issued or received by the data owner
type Direction string

// Direction constants
const (
	DirectionIssued   Direction = "issued"
	DirectionReceived Direction = "received"
	DirectionUnknown  Direction = "unknown"
)

// Classification is the resolved direction plus the pass-through kind code
type Classification struct {
	Direction Direction `json:"direction"`
	Kind      *int64    `json:"kind"`
}

// VatTotals holds the aggregated amounts of one invoice
type VatTotals struct {
	Base     decimal.Decimal
	Tax      decimal.Decimal
	Grand    decimal.Decimal
	Computed decimal.Decimal
	Mismatch bool
}

// CanonicalInvoice is the normalized invoice handed to downstream consumers
type CanonicalInvoice struct {
	ID              any            `json:"id"`
	InvoiceNumber   string         `json:"invoice_number"`
	IssueDate       string         `json:"issue_date"`
	DueDate         string         `json:"due_date"`
	CustomerName    string         `json:"customer_name"`
	CustomerICO     string         `json:"customer_ico"`
	CustomerDIC     string         `json:"customer_dic"`
	CustomerAddress string         `json:"customer_address"`
	TotalAmount     Amount         `json:"total_amount"`
	VATAmount       Amount         `json:"vat_amount"`
	TotalWithVAT    Amount         `json:"total_with_vat"`
	Amount0         Amount         `json:"amount_0"`
	AmountReduced   Amount         `json:"amount_reduced"`
	AmountBasic     Amount         `json:"amount_basic"`
	Amount3         Amount         `json:"amount_3"`
	VATReduced      Amount         `json:"vat_reduced"`
	VATBasic        Amount         `json:"vat_basic"`
	VAT3            Amount         `json:"vat_3"`
	VarSym          string         `json:"varsym"`
	Notes           string         `json:"notes"`
	Currency        string         `json:"currency"`
	Status          string         `json:"status"`
	Classification  Classification `json:"classification"`
}

// Diagnostic describes a per-row anomaly found during a run
type Diagnostic struct {
	RowIndex  int    `json:"row_index"`
	InvoiceID any    `json:"invoice_id,omitempty"`
	Code      string `json:"code"`
	Severity  string `json:"severity"`
	Detail    string `json:"detail"`
}

// BatchSummary aggregates counts and totals over a run
type BatchSummary struct {
	RowsRead     int               `json:"rows_read"`
	Invoices     int               `json:"invoices"`
	Diagnostics  int               `json:"diagnostics"`
	ByDirection  map[Direction]int `json:"by_direction"`
	TotalAmount  Amount            `json:"total_amount"`
	VATAmount    Amount            `json:"vat_amount"`
	TotalWithVAT Amount            `json:"total_with_vat"`
}

// BatchResult is the sole artifact of one extraction run over one table
type BatchResult struct {
	RunID       string             `json:"run_id,omitempty"`
	Table       string             `json:"table,omitempty"`
	Invoices    []CanonicalInvoice `json:"invoices"`
	Diagnostics []Diagnostic       `json:"diagnostics"`
	Summary     BatchSummary       `json:"summary"`
	Stopped     bool               `json:"stopped"`
}

// NewBatchResult returns an empty result with non-nil slices so it
// serializes as [] rather than null
func NewBatchResult() *BatchResult {
	return &BatchResult{
		Invoices:    []CanonicalInvoice{},
		Diagnostics: []Diagnostic{},
		Summary: BatchSummary{
			ByDirection: make(map[Direction]int),
		},
	}
}

// ColumnDescriptor describes one column found by the schema probe
type ColumnDescriptor struct {
	Name         string `json:"name"`
	DeclaredType string `json:"declared_type"`
	Nullable     string `json:"nullable"`
}

// ProbeReport is the schema probe output for one table
type ProbeReport struct {
	Table   string             `json:"table"`
	Columns []ColumnDescriptor `json:"columns"`
	Missing []string           `json:"missing"`
}

// Nullability constants
const (
	NullableYes     = "yes"
	NullableNo      = "no"
	NullableUnknown = "unknown"
)

// Diagnostic codes
const (
	CodeRowDecodeFailed = "ROW_DECODE_FAILED"
	CodeTotalMismatch   = "TOTAL_MISMATCH"
)

// Severity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Fixed tags of the extraction path
const (
	CurrencyEUR = "EUR"
	StatusSent  = "sent"
)
