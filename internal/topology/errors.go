package topology

import (
	"errors"
	"fmt"
)

// Topology construction errors. All of them are fatal to the builder.
var (
	ErrInvalidLayerParameter = errors.New("invalid layer parameter")
	ErrIncompatibleShape     = errors.New("incompatible shape")
	ErrEmptyTopology         = errors.New("empty topology")
)

// LayerError reports which stage of a topology failed and with what input.
type LayerError struct {
	Index int    // Position of the offending layer (0-based)
	Name  string // Stage name, e.g. "conv2"
	Layer Layer  // The rejected layer
	Input Shape  // Shape flowing into the layer
	Err   error  // Underlying cause, wraps one of the sentinel errors
}

// Error implements the error interface.
func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %d (%s %s) on input %s: %v", e.Index, e.Name, e.Layer, e.Input, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LayerError) Unwrap() error {
	return e.Err
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLayerParameter, fmt.Sprintf(format, args...))
}

func incompatible(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIncompatibleShape, fmt.Sprintf(format, args...))
}
