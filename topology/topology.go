// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package topology

import (
	"github.com/born-ml/netspec/internal/topology"
)

// Shape is the per-sample extent flowing between layers: (C, H, W) or (N,).
type Shape = topology.Shape

// Layer is one stage description. See Convolution, Pooling,
// FullyConnected and Activation.
type Layer = topology.Layer

// Kind identifies a layer variant.
type Kind = topology.Kind

// Layer kinds.
const (
	KindConvolution    = topology.KindConvolution
	KindPooling        = topology.KindPooling
	KindFullyConnected = topology.KindFullyConnected
	KindActivation     = topology.KindActivation
)

// Layers

// Convolution is a 2D convolution with square kernels.
type Convolution = topology.Convolution

// Pooling is a 2D pooling layer.
type Pooling = topology.Pooling

// PoolingMode selects max or average pooling.
type PoolingMode = topology.PoolingMode

// Pooling modes.
const (
	PoolMax     = topology.PoolMax
	PoolAverage = topology.PoolAverage
)

// FullyConnected is a dense layer.
type FullyConnected = topology.FullyConnected

// Activation is a shape-preserving element-wise function.
type Activation = topology.Activation

// ActivationKind enumerates activations.
type ActivationKind = topology.ActivationKind

// Activations.
const (
	ReLU       = topology.ReLU
	Sigmoid    = topology.Sigmoid
	Tanh       = topology.Tanh
	Softmax    = topology.Softmax
	LogSoftmax = topology.LogSoftmax
)

// NewConvolution validates and returns a convolution layer.
//
// Example:
//
//	conv, err := topology.NewConvolution(96, 11, 0, 4) // out=96, kernel=11, padding=0, stride=4
func NewConvolution(outputChannels, kernelSize, padding, stride int) (Convolution, error) {
	return topology.NewConvolution(outputChannels, kernelSize, padding, stride)
}

// NewPooling validates and returns a pooling layer.
func NewPooling(mode PoolingMode, kernelSize, padding, stride int) (Pooling, error) {
	return topology.NewPooling(mode, kernelSize, padding, stride)
}

// NewFullyConnected validates and returns a fully-connected layer.
func NewFullyConnected(outputSize int) (FullyConnected, error) {
	return topology.NewFullyConnected(outputSize)
}

// NewActivation validates and returns an activation layer.
func NewActivation(kind ActivationKind) (Activation, error) {
	return topology.NewActivation(kind)
}

// Shape inference

// Infer computes the output shape of layer applied to input.
//
// Example:
//
//	out, _ := topology.Infer(topology.Shape{3, 227, 227}, conv) // (96, 54, 54)
func Infer(input Shape, layer Layer) (Shape, error) {
	return topology.Infer(input, layer)
}

// Builder and topology

// Builder accumulates layers and validates them as they are added.
type Builder = topology.Builder

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return topology.NewBuilder()
}

// Topology is a finalized, immutable network description.
type Topology = topology.Topology

// Stage is one layer of a Topology with its input and output shapes.
type Stage = topology.Stage

// LayerError names the layer index and input shape of a rejected layer.
type LayerError = topology.LayerError

// DefaultBatchSize is used when no batch size is declared.
const DefaultBatchSize = topology.DefaultBatchSize

// Errors.
var (
	ErrInvalidLayerParameter = topology.ErrInvalidLayerParameter
	ErrIncompatibleShape     = topology.ErrIncompatibleShape
	ErrEmptyTopology         = topology.ErrEmptyTopology
	ErrInvalidBatchSize      = topology.ErrInvalidBatchSize
)

// Presets

// AlexNet builds AlexNet for 3 x height x width input.
func AlexNet(batchSize, height, width int) (*Topology, error) {
	return topology.AlexNet(batchSize, height, width)
}

// LeNet builds LeNet-5 for 1 x size x size input.
func LeNet(batchSize, size int) (*Topology, error) {
	return topology.LeNet(batchSize, size)
}

// ParsePoolingMode parses "max", "avg", "average" or "mean".
func ParsePoolingMode(s string) (PoolingMode, error) {
	return topology.ParsePoolingMode(s)
}

// ParseActivationKind parses an activation name such as "relu".
func ParseActivationKind(s string) (ActivationKind, error) {
	return topology.ParseActivationKind(s)
}
