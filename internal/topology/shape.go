package topology

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the per-sample extent flowing between layers.
//
// A spatial shape has three dimensions (channels, height, width); once the
// network flattens into fully-connected stages it has a single dimension
// (features). The batch dimension is never part of a Shape.
type Shape []int

// Spatial returns a (channels, height, width) shape.
func Spatial(channels, height, width int) (Shape, error) {
	s := Shape{channels, height, width}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Flat returns a (features,) shape.
func Flat(features int) (Shape, error) {
	s := Shape{features}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the shape is 1-D or 3-D with every dimension > 0.
func (s Shape) Validate() error {
	if len(s) != 1 && len(s) != 3 {
		return fmt.Errorf("%w: shape %s must have 1 or 3 dimensions, got %d", ErrIncompatibleShape, s, len(s))
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("%w: invalid dimension at index %d: %d (must be > 0)", ErrIncompatibleShape, i, dim)
		}
	}
	return nil
}

// IsFlat reports whether the shape is already 1-D.
func (s Shape) IsFlat() bool {
	return len(s) == 1
}

// Channels returns the channel count of a spatial shape, or 0 for flat shapes.
func (s Shape) Channels() int {
	if len(s) != 3 {
		return 0
	}
	return s[0]
}

// Height returns the height of a spatial shape, or 0 for flat shapes.
func (s Shape) Height() int {
	if len(s) != 3 {
		return 0
	}
	return s[1]
}

// Width returns the width of a spatial shape, or 0 for flat shapes.
func (s Shape) Width() int {
	if len(s) != 3 {
		return 0
	}
	return s[2]
}

// NumElements returns the number of scalars in one sample of this shape.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Flatten collapses a spatial shape into (channels*height*width,).
// Flattening an already flat shape returns it unchanged.
func (s Shape) Flatten() Shape {
	if s.IsFlat() {
		return s.Clone()
	}
	return Shape{s.NumElements()}
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// WithBatch prepends a batch dimension, e.g. (3,227,227) -> [16,3,227,227].
func (s Shape) WithBatch(batch int) []int {
	out := make([]int, 0, len(s)+1)
	out = append(out, batch)
	return append(out, s...)
}

// String renders the shape as "(3, 227, 227)".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
