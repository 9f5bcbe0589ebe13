package topology

import (
	"errors"
	"fmt"
)

// DefaultBatchSize is used when no batch size is declared.
const DefaultBatchSize = 16

// ErrInvalidBatchSize is returned for a non-positive batch size.
var ErrInvalidBatchSize = errors.New("batch size must be > 0")

// Builder accumulates layers on top of a declared input shape, inferring
// each stage's output as it goes.
//
// Construction fails fast: the first rejected layer is not appended, the
// error is returned, and every later AddLayer or Finalize call returns the
// same error. A Builder is not safe for concurrent use.
//
// Example:
//
//	b := topology.NewBuilder()
//	_ = b.SetInput(topology.Shape{3, 227, 227})
//	_ = b.AddLayer(topology.Convolution{OutputChannels: 96, KernelSize: 11, Stride: 4})
//	topo, err := b.Finalize() // conv1 -> (96, 54, 54)
type Builder struct {
	input     Shape
	batchSize int
	stages    []Stage
	names     map[string]struct{}
	ordinals  map[string]int
	current   Shape
	err       error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		names:    make(map[string]struct{}),
		ordinals: make(map[string]int),
	}
}

// SetInput declares the per-sample input shape. It must be called before
// the first layer is added.
func (b *Builder) SetInput(shape Shape) error {
	if b.err != nil {
		return b.err
	}
	if len(b.stages) > 0 {
		return fmt.Errorf("%w: input shape must be set before adding layers", ErrIncompatibleShape)
	}
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	b.input = shape.Clone()
	b.current = shape.Clone()
	return nil
}

// SetBatchSize declares the batch size the topology is built for.
func (b *Builder) SetBatchSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidBatchSize, n)
	}
	b.batchSize = n
	return nil
}

// AddLayer appends a layer with an automatically assigned name.
func (b *Builder) AddLayer(layer Layer) error {
	return b.AddNamed("", layer)
}

// AddNamed appends a layer under the given name. An empty name is replaced
// by the layer kind plus an ordinal ("conv1", "relu2", ...).
//
// A FullyConnected layer on a spatial shape first flattens it to
// (channels*height*width,); this happens once, since the shape stays flat
// afterwards.
func (b *Builder) AddNamed(name string, layer Layer) error {
	if b.err != nil {
		return b.err
	}
	index := len(b.stages)
	if b.input == nil {
		return b.fail(&LayerError{Index: index, Name: name, Layer: layer,
			Err: fmt.Errorf("%w: input shape not set", ErrEmptyTopology)})
	}
	if layer == nil {
		return b.fail(&LayerError{Index: index, Name: name, Input: b.current.Clone(),
			Err: invalidParam("nil layer")})
	}

	if name == "" {
		name = b.nextName(layer)
	}
	if _, dup := b.names[name]; dup {
		return b.fail(&LayerError{Index: index, Name: name, Layer: layer, Input: b.current.Clone(),
			Err: invalidParam("duplicate layer name %q", name)})
	}

	input := b.current
	if layer.Kind() == KindFullyConnected && !input.IsFlat() {
		input = input.Flatten()
	}

	output, err := Infer(input, layer)
	if err != nil {
		return b.fail(&LayerError{Index: index, Name: name, Layer: layer, Input: b.current.Clone(), Err: err})
	}

	b.names[name] = struct{}{}
	b.stages = append(b.stages, Stage{
		Index:  index,
		Name:   name,
		Layer:  layer,
		Input:  input.Clone(),
		Output: output,
	})
	b.current = output
	return nil
}

// Current returns the trailing shape, i.e. the input of the next layer.
func (b *Builder) Current() Shape {
	return b.current.Clone()
}

// Err returns the error that stopped the builder, if any.
func (b *Builder) Err() error {
	return b.err
}

// Finalize returns the immutable topology.
//
// It fails with ErrEmptyTopology if no input shape was set or no layers
// were added, and with the recorded error if a layer was rejected.
func (b *Builder) Finalize() (*Topology, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.input == nil {
		return nil, fmt.Errorf("%w: input shape not set", ErrEmptyTopology)
	}
	if len(b.stages) == 0 {
		return nil, fmt.Errorf("%w: no layers added", ErrEmptyTopology)
	}
	batch := b.batchSize
	if batch == 0 {
		batch = DefaultBatchSize
	}
	stages := make([]Stage, len(b.stages))
	for i, s := range b.stages {
		stages[i] = s.clone()
	}
	return &Topology{
		input:     b.input.Clone(),
		batchSize: batch,
		stages:    stages,
	}, nil
}

func (b *Builder) fail(err error) error {
	b.err = err
	return err
}

func (b *Builder) nextName(layer Layer) string {
	prefix := layer.Kind().String()
	if a, ok := layer.(Activation); ok {
		prefix = a.Function.String()
	}
	for {
		b.ordinals[prefix]++
		name := fmt.Sprintf("%s%d", prefix, b.ordinals[prefix])
		if _, taken := b.names[name]; !taken {
			return name
		}
	}
}
