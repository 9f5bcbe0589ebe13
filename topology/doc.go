// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package topology declares feed-forward network topologies independently of
// any compute backend.
//
// # Overview
//
// A topology is an input shape, a batch size and an ordered list of layers:
//   - Convolution: square kernels, padding, stride, output channels
//   - Pooling: max or average, square kernels, padding, stride
//   - FullyConnected: dense layer with an output size
//   - Activation: ReLU, Sigmoid, Tanh, Softmax, LogSoftmax (shape preserving)
//
// The builder infers every stage's output shape as layers are added and
// rejects a layer the moment its arithmetic does not work out:
//
//	out = (in + 2*padding - kernel) / stride + 1
//
// # Basic Usage
//
//	b := topology.NewBuilder()
//	_ = b.SetInput(topology.Shape{3, 227, 227})
//	_ = b.SetBatchSize(16)
//	if err := b.AddLayer(topology.Convolution{OutputChannels: 96, KernelSize: 11, Stride: 4}); err != nil {
//	    // errors.Is(err, topology.ErrIncompatibleShape) / ErrInvalidLayerParameter
//	}
//	topo, err := b.Finalize()
//	fmt.Println(topo) // summary table
//
// # Flattening
//
// The first FullyConnected layer placed on a (channels, height, width) shape
// flattens it to (channels*height*width,). Convolution and pooling layers
// cannot follow a flattened shape.
//
// # Presets
//
//	alex, _ := topology.AlexNet(16, 227, 227)
//	lenet, _ := topology.LeNet(16, 32)
//
// A finalized Topology is immutable and safe for concurrent readers.
package topology
