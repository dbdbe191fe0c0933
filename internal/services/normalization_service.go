package services

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invoice-extractor/internal/classification"
	"invoice-extractor/internal/decoder"
	"invoice-extractor/internal/logger"
	"invoice-extractor/internal/models"
	"invoice-extractor/internal/vat"
)

type NormalizationService struct {
	decoder *decoder.Decoder
	maxRows int
	log     zerolog.Logger
}

// NewNormalizationService builds the row pipeline. maxRows > 0 stops a run
// after that many rows, the same way a cancelled context does.
func NewNormalizationService(dec *decoder.Decoder, maxRows int) *NormalizationService {
	if dec == nil {
		dec = decoder.NewDefault()
	}
	return &NormalizationService{
		decoder: dec,
		maxRows: maxRows,
		log:     logger.WithComponent("normalizer"),
	}
}

// Layout returns the column layout rows are decoded with
func (s *NormalizationService) Layout() decoder.Layout {
	return s.decoder.Layout()
}

// NormalizeRows normalizes rows already held in memory
func (s *NormalizationService) NormalizeRows(ctx context.Context, rows []models.RawRow) (*models.BatchResult, error) {
	return s.NormalizeBatch(ctx, NewSliceSource(rows))
}

// NormalizeBatch decodes, classifies and aggregates every row of src in
// order. Row-level failures become diagnostics; a source error that is not
// a *decoder.DecodeError aborts the run with an *ExtractionError.
//
// ctx is checked once per row. When it is done, or maxRows is reached, the
// rows processed so far are returned with Stopped set and a nil error.
func (s *NormalizationService) NormalizeBatch(ctx context.Context, src RowSource) (*models.BatchResult, error) {
	const op = "NormalizeBatch"

	result := models.NewBatchResult()
	acc := newSummaryAccumulator()

	for index := 1; ; index++ {
		if err := ctx.Err(); err != nil {
			s.log.Warn().Err(err).Int("row_index", index).Msg("Run stopped by caller")
			result.Stopped = true
			break
		}
		if s.maxRows > 0 && index > s.maxRows {
			// a source that ends exactly at the limit is complete
			_, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil && !decoder.IsDecodeError(err) {
				s.log.Error().Err(err).Int("row_index", index).Msg("Source failed past row limit")
			}
			s.log.Warn().Int("max_rows", s.maxRows).Msg("Run stopped at row limit")
			result.Stopped = true
			break
		}

		row, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if decoder.IsDecodeError(err) {
				result.Summary.RowsRead++
				s.addDiagnostic(result, decodeFailure(index, nil, err))
				continue
			}
			if ctx.Err() != nil {
				result.Stopped = true
				break
			}
			return nil, sourceUnreadable(op, "", index, err)
		}
		result.Summary.RowsRead++

		fields, err := s.decoder.Decode(row)
		if err != nil {
			id, _ := row.Get(s.decoder.Layout().ID)
			s.addDiagnostic(result, decodeFailure(index, id, err))
			continue
		}

		class := classification.Classify(fields.TypeCode, fields.KindCode)
		totals := vat.Aggregate(fields)
		if totals.Mismatch {
			s.addDiagnostic(result, models.Diagnostic{
				RowIndex:  index,
				InvoiceID: fields.ID,
				Code:      models.CodeTotalMismatch,
				Severity:  models.SeverityWarning,
				Detail:    vat.MismatchDetail(totals),
			})
		}

		result.Invoices = append(result.Invoices, BuildCanonicalInvoice(fields, class, totals))
		acc.add(class.Direction, totals)
	}

	acc.apply(&result.Summary)
	result.Summary.Invoices = len(result.Invoices)
	result.Summary.Diagnostics = len(result.Diagnostics)

	s.log.Info().
		Int("rows_read", result.Summary.RowsRead).
		Int("invoices", result.Summary.Invoices).
		Int("diagnostics", result.Summary.Diagnostics).
		Bool("stopped", result.Stopped).
		Msg("Batch normalized")

	return result, nil
}

func (s *NormalizationService) addDiagnostic(result *models.BatchResult, d models.Diagnostic) {
	ev := s.log.Warn()
	if d.Severity == models.SeverityError {
		ev = s.log.Error()
	}
	ev.Int("row_index", d.RowIndex).
		Interface("invoice_id", d.InvoiceID).
		Str("code", d.Code).
		Str("detail", d.Detail).
		Msg("Row diagnostic")
	result.Diagnostics = append(result.Diagnostics, d)
}

func decodeFailure(index int, id any, err error) models.Diagnostic {
	return models.Diagnostic{
		RowIndex:  index,
		InvoiceID: id,
		Code:      models.CodeRowDecodeFailed,
		Severity:  models.SeverityError,
		Detail:    err.Error(),
	}
}

// BuildCanonicalInvoice assembles the output record. Direction is carried
// in Classification only; it never changes the other fields.
func BuildCanonicalInvoice(f models.DecodedInvoiceFields, c models.Classification, t models.VatTotals) models.CanonicalInvoice {
	amount := func(rc models.RateClass) models.Amount { return models.NewAmount(f.Bucket(rc).Amount) }
	tax := func(rc models.RateClass) models.Amount { return models.NewAmount(f.Bucket(rc).Tax) }

	return models.CanonicalInvoice{
		ID:              f.ID,
		InvoiceNumber:   f.InvoiceNumber,
		IssueDate:       f.IssueDate,
		DueDate:         f.DueDate,
		CustomerName:    f.CustomerName,
		CustomerICO:     f.CustomerICO,
		CustomerDIC:     f.CustomerDIC,
		CustomerAddress: f.Address,
		TotalAmount:     models.NewAmount(t.Base),
		VATAmount:       models.NewAmount(t.Tax),
		TotalWithVAT:    models.NewAmount(t.Grand),
		Amount0:         amount(models.RateZero),
		AmountReduced:   amount(models.RateReduced),
		AmountBasic:     amount(models.RateBasic),
		Amount3:         amount(models.RateTertiary),
		VATReduced:      tax(models.RateReduced),
		VATBasic:        tax(models.RateBasic),
		VAT3:            tax(models.RateTertiary),
		VarSym:          f.VarSym,
		Notes:           f.Notes,
		Currency:        models.CurrencyEUR,
		Status:          models.StatusSent,
		Classification:  c,
	}
}

type summaryAccumulator struct {
	base, tax, grand decimal.Decimal
	byDirection      map[models.Direction]int
}

func newSummaryAccumulator() *summaryAccumulator {
	return &summaryAccumulator{
		base:        decimal.Zero,
		tax:         decimal.Zero,
		grand:       decimal.Zero,
		byDirection: make(map[models.Direction]int),
	}
}

func (a *summaryAccumulator) add(d models.Direction, t models.VatTotals) {
	a.base = a.base.Add(t.Base)
	a.tax = a.tax.Add(t.Tax)
	a.grand = a.grand.Add(t.Grand)
	a.byDirection[d]++
}

func (a *summaryAccumulator) apply(s *models.BatchSummary) {
	s.TotalAmount = models.NewAmount(a.base)
	s.VATAmount = models.NewAmount(a.tax)
	s.TotalWithVAT = models.NewAmount(a.grand)
	s.ByDirection = a.byDirection
}
