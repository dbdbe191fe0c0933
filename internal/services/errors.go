package services

import (
	"errors"
	"fmt"
)

// ErrSourceUnreadable means the source could not produce rows at all, so
// the extraction could not run (as opposed to finding zero invoices).
var ErrSourceUnreadable = errors.New("source is unreadable")

// ErrRunInProgress is returned when an extraction of the same table is
// already running.
var ErrRunInProgress = errors.New("extraction already in progress")

// ExtractionError wraps a structural failure of a run.
type ExtractionError struct {
	Op       string
	Table    string
	RowIndex int
	Err      error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	switch {
	case e.Table != "" && e.RowIndex > 0:
		return fmt.Sprintf("extraction: %s failed on table %s at row %d: %v", e.Op, e.Table, e.RowIndex, e.Err)
	case e.Table != "":
		return fmt.Sprintf("extraction: %s failed on table %s: %v", e.Op, e.Table, e.Err)
	case e.RowIndex > 0:
		return fmt.Sprintf("extraction: %s failed at row %d: %v", e.Op, e.RowIndex, e.Err)
	default:
		return fmt.Sprintf("extraction: %s failed: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func sourceUnreadable(op, table string, rowIndex int, cause error) *ExtractionError {
	return &ExtractionError{
		Op:       op,
		Table:    table,
		RowIndex: rowIndex,
		Err:      fmt.Errorf("%w: %w", ErrSourceUnreadable, cause),
	}
}
