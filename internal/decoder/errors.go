package decoder

import (
	"errors"
	"fmt"
)

// ErrStructurallyUnreadable marks a row that cannot be decoded at all, as
// opposed to a row with malformed values.
var ErrStructurallyUnreadable = errors.New("row is structurally unreadable")

// DecodeError reports a row that could not be decoded. RowIndex is 1-based
// and zero when the caller does not know the position.
type DecodeError struct {
	RowIndex int
	Err      error
	Details  string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	prefix := "decode"
	if e.RowIndex > 0 {
		prefix = fmt.Sprintf("decode row %d", e.RowIndex)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError builds a DecodeError. A nil err defaults to
// ErrStructurallyUnreadable.
func NewDecodeError(rowIndex int, err error, details string) *DecodeError {
	if err == nil {
		err = ErrStructurallyUnreadable
	}
	return &DecodeError{RowIndex: rowIndex, Err: err, Details: details}
}

// IsDecodeError reports whether err carries a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
