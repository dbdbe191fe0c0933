package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoice-extractor/internal/logger"
	"invoice-extractor/internal/models"
	"invoice-extractor/internal/probe"
	"invoice-extractor/internal/repositories"
)

type ExtractionService struct {
	repo       repositories.InvoiceRepository
	normalizer *NormalizationService
	log        zerolog.Logger

	processingMutex sync.Mutex
	activeProcesses map[string]bool
}

func NewExtractionService(repo repositories.InvoiceRepository, normalizer *NormalizationService) *ExtractionService {
	return &ExtractionService{
		repo:            repo,
		normalizer:      normalizer,
		log:             logger.WithComponent("extraction"),
		activeProcesses: make(map[string]bool),
	}
}

// Extract reads table through the repository and normalizes every row.
// direction narrows the query to one invoice direction; empty reads all.
// Only one run per table may be active at a time.
func (s *ExtractionService) Extract(ctx context.Context, table string, direction models.Direction) (*models.BatchResult, error) {
	const op = "Extract"

	if !s.acquire(table) {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrRunInProgress, table)
	}
	defer s.release(table)

	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("table", table).Str("direction", string(direction)).Logger()
	start := time.Now()
	log.Info().Msg("Starting extraction")

	cursor, err := s.repo.OpenCursor(ctx, table, direction)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidTableName) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Error().Err(err).Msg("Failed to open source")
		return nil, sourceUnreadable(op, table, 0, err)
	}
	defer func() {
		if cerr := cursor.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to close cursor")
		}
	}()

	result, err := s.normalizer.NormalizeBatch(ctx, cursor)
	if err != nil {
		var extErr *ExtractionError
		if errors.As(err, &extErr) && extErr.Table == "" {
			extErr.Table = table
		}
		log.Error().Err(err).Msg("Extraction aborted")
		return nil, err
	}

	result.RunID = runID
	result.Table = table

	log.Info().
		Int("invoices", result.Summary.Invoices).
		Int("diagnostics", result.Summary.Diagnostics).
		Bool("stopped", result.Stopped).
		Dur("duration", time.Since(start)).
		Msg("Extraction finished")

	return result, nil
}

// ProbeSchema reports the columns of table against the decoder layout
func (s *ExtractionService) ProbeSchema(ctx context.Context, table string) (*models.ProbeReport, error) {
	report, err := probe.Probe(ctx, s.repo, table, s.normalizer.Layout().Columns())
	if err != nil {
		return nil, err
	}
	if len(report.Missing) > 0 {
		s.log.Warn().Str("table", table).Strs("missing", report.Missing).Msg("Source is missing expected columns")
	}
	return report, nil
}

// IsRunning reports whether an extraction of table is in progress
func (s *ExtractionService) IsRunning(table string) bool {
	s.processingMutex.Lock()
	defer s.processingMutex.Unlock()
	return s.activeProcesses[table]
}

func (s *ExtractionService) acquire(table string) bool {
	s.processingMutex.Lock()
	defer s.processingMutex.Unlock()
	if s.activeProcesses[table] {
		return false
	}
	s.activeProcesses[table] = true
	return true
}

func (s *ExtractionService) release(table string) {
	s.processingMutex.Lock()
	delete(s.activeProcesses, table)
	s.processingMutex.Unlock()
}
