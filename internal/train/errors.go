package train

import (
	"errors"
	"fmt"
)

// ErrFatalStep marks an engine failure that must stop training. Engines
// signal it by wrapping: fmt.Errorf("device lost: %w", train.ErrFatalStep).
var ErrFatalStep = errors.New("fatal step failure")

// Fatal wraps err so that the driver treats it as unrecoverable.
func Fatal(err error) error {
	return fmt.Errorf("%w: %w", ErrFatalStep, err)
}

// StepError identifies the step at which training stopped.
type StepError struct {
	Epoch int
	Batch int
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("epoch %d batch %d: %v", e.Epoch, e.Batch, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}
