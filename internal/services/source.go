package services

import (
	"context"
	"io"

	"invoice-extractor/internal/models"
)

// RowSource yields raw rows one at a time. It returns io.EOF when
// exhausted and a *decoder.DecodeError for a single unreadable row; any
// other error ends the run.
type RowSource interface {
	Next(ctx context.Context) (models.RawRow, error)
}

// SliceSource serves rows that are already in memory
type SliceSource struct {
	rows []models.RawRow
	pos  int
}

func NewSliceSource(rows []models.RawRow) *SliceSource {
	return &SliceSource{rows: rows}
}

func (s *SliceSource) Next(_ context.Context) (models.RawRow, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
