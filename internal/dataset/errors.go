package dataset

import (
	"errors"
	"fmt"
)

// Fatal dataset errors.
var (
	ErrLabelSourceUnreadable = errors.New("label source unreadable")
	ErrEmptyDataset          = errors.New("empty dataset")
	ErrDatasetUnavailable    = errors.New("dataset unavailable")
	ErrOrderMismatch         = errors.New("order is not a permutation of the dataset")
)

// Non-fatal, per-record causes. They are reported through RowError and
// DecodeFailure rather than returned.
var (
	ErrFieldCount     = errors.New("wrong number of columns")
	ErrEmptyValue     = errors.New("empty value")
	ErrDuplicateID    = errors.New("duplicate identifier")
	ErrSampleNotFound = errors.New("sample not found")
	ErrShapeMismatch  = errors.New("decoded sample has wrong size")
)

// SourceError describes a failure to read a file or directory.
//
// It unwraps to both its Kind (one of the sentinel errors above) and the
// underlying cause, so errors.Is works for either.
type SourceError struct {
	Kind error  // Sentinel, e.g. ErrDatasetUnavailable
	Op   string // Operation, e.g. "open", "list"
	Path string // File or directory involved
	Err  error  // Underlying cause
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

// Unwrap returns the sentinel kind and the cause.
func (e *SourceError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// RowError records a label row that was skipped.
type RowError struct {
	Line int   // 1-based line in the label source
	Err  error // Why the row was rejected
}

// Error implements the error interface.
func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// DecodeFailure records a sample that could not be decoded. The sample is
// left out of its batch; iteration continues.
type DecodeFailure struct {
	ID  string
	Err error
}

// Error implements the error interface.
func (f DecodeFailure) Error() string {
	return fmt.Sprintf("sample %q: %v", f.ID, f.Err)
}
