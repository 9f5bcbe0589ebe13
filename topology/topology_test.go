// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/netspec/topology"
)

// TestBuilderFacade declares a small network through the public API.
func TestBuilderFacade(t *testing.T) {
	conv, err := topology.NewConvolution(8, 3, 1, 1)
	require.NoError(t, err)
	pool, err := topology.NewPooling(topology.PoolMax, 2, 0, 2)
	require.NoError(t, err)
	relu, err := topology.NewActivation(topology.ReLU)
	require.NoError(t, err)
	fc, err := topology.NewFullyConnected(10)
	require.NoError(t, err)

	b := topology.NewBuilder()
	require.NoError(t, b.SetInput(topology.Shape{3, 16, 16}))
	require.NoError(t, b.SetBatchSize(4))
	for _, l := range []topology.Layer{conv, relu, pool, fc} {
		require.NoError(t, b.AddLayer(l))
	}
	topo, err := b.Finalize()
	require.NoError(t, err)

	assert.Equal(t, []int{4, 3, 16, 16}, topo.InputBatchShape())
	assert.Equal(t, topology.Shape{8, 8, 8}, topo.Stage(2).Output)
	assert.Equal(t, topology.Shape{512}, topo.Stage(3).Input)
	assert.Equal(t, topology.Shape{10}, topo.Output())
}

func TestInferFacade(t *testing.T) {
	conv := topology.Convolution{OutputChannels: 96, KernelSize: 11, Stride: 4}
	out, err := topology.Infer(topology.Shape{3, 227, 227}, conv)
	require.NoError(t, err)
	assert.Equal(t, topology.Shape{96, 54, 54}, out)

	_, err = topology.Infer(topology.Shape{3, 5, 5}, conv)
	assert.ErrorIs(t, err, topology.ErrIncompatibleShape)
}

func TestPresetsFacade(t *testing.T) {
	alex, err := topology.AlexNet(0, 227, 227)
	require.NoError(t, err)
	assert.Equal(t, topology.DefaultBatchSize, alex.BatchSize())
	assert.Equal(t, topology.Shape{1000}, alex.Output())

	_, err = topology.LeNet(-1, 32)
	assert.ErrorIs(t, err, topology.ErrInvalidBatchSize)
}
