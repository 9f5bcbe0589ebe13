package topology

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderFlattensOnceBeforeFullyConnected(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetInput(Shape{4, 6, 6}))
	require.NoError(t, b.SetBatchSize(8))
	require.NoError(t, b.AddLayer(Pooling{Mode: PoolMax, KernelSize: 2, Stride: 2}))
	require.NoError(t, b.AddLayer(FullyConnected{OutputSize: 20}))
	require.NoError(t, b.AddLayer(Activation{Function: ReLU}))
	require.NoError(t, b.AddLayer(FullyConnected{OutputSize: 5}))

	topo, err := b.Finalize()
	require.NoError(t, err)

	stages := topo.Stages()
	require.Len(t, stages, 4)
	assert.Equal(t, Shape{4, 3, 3}, stages[0].Output)
	assert.Equal(t, Shape{36}, stages[1].Input)
	assert.Equal(t, Shape{20}, stages[1].Output)
	assert.Equal(t, Shape{20}, stages[3].Input)
	assert.Equal(t, Shape{5}, topo.Output())
	assert.Equal(t, []int{8, 4, 6, 6}, topo.InputBatchShape())
	assert.Equal(t, []string{"pool1", "fc1", "relu1", "fc2"}, stageNames(stages))
}

func TestBuilderFailsFast(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetInput(Shape{3, 8, 8}))
	require.NoError(t, b.AddLayer(Convolution{OutputChannels: 4, KernelSize: 3, Stride: 1}))

	err := b.AddLayer(Convolution{OutputChannels: 4, KernelSize: 9, Stride: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatibleShape)

	var layerErr *LayerError
	require.True(t, errors.As(err, &layerErr))
	assert.Equal(t, 1, layerErr.Index)
	assert.Equal(t, "conv2", layerErr.Name)
	assert.Equal(t, Shape{4, 6, 6}, layerErr.Input)
	assert.Contains(t, err.Error(), "layer 1")

	// Later layers are not processed and the builder stays failed.
	err2 := b.AddLayer(Activation{Function: ReLU})
	assert.Equal(t, err, err2)
	assert.Equal(t, Shape{4, 6, 6}, b.Current())

	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrIncompatibleShape)
}

func TestBuilderInvalidParameterPropagates(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetInput(Shape{3, 8, 8}))

	err := b.AddLayer(Pooling{Mode: PoolMax, KernelSize: 2, Stride: 0})
	assert.ErrorIs(t, err, ErrInvalidLayerParameter)

	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrInvalidLayerParameter)
}

func TestBuilderEmptyTopology(t *testing.T) {
	_, err := NewBuilder().Finalize()
	assert.ErrorIs(t, err, ErrEmptyTopology)

	b := NewBuilder()
	require.NoError(t, b.SetInput(Shape{1, 4, 4}))
	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrEmptyTopology)

	err = NewBuilder().AddLayer(Activation{Function: ReLU})
	assert.ErrorIs(t, err, ErrEmptyTopology)
}

func TestBuilderRejectsBadInputAndBatch(t *testing.T) {
	b := NewBuilder()
	assert.ErrorIs(t, b.SetInput(Shape{3, -1, 4}), ErrIncompatibleShape)
	assert.ErrorIs(t, b.SetBatchSize(0), ErrInvalidBatchSize)

	require.NoError(t, b.SetInput(Shape{3, 4, 4}))
	require.NoError(t, b.AddLayer(Activation{Function: Sigmoid}))
	assert.ErrorIs(t, b.SetInput(Shape{1, 4, 4}), ErrIncompatibleShape)
}

func TestBuilderDuplicateName(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetInput(Shape{16}))
	require.NoError(t, b.AddNamed("head", FullyConnected{OutputSize: 4}))
	err := b.AddNamed("head", FullyConnected{OutputSize: 2})
	assert.ErrorIs(t, err, ErrInvalidLayerParameter)
}

func TestBuilderConvAfterFlattenFails(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetInput(Shape{1, 5, 5}))
	require.NoError(t, b.AddLayer(FullyConnected{OutputSize: 10}))
	err := b.AddLayer(Convolution{OutputChannels: 2, KernelSize: 1, Stride: 1})
	assert.ErrorIs(t, err, ErrIncompatibleShape)
}

func TestTopologyIsImmutable(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetInput(Shape{1, 4, 4}))
	require.NoError(t, b.AddLayer(Activation{Function: ReLU}))
	topo, err := b.Finalize()
	require.NoError(t, err)

	in := topo.Input()
	in[0] = 99
	stages := topo.Stages()
	stages[0].Output[0] = 99

	// Builder changes after Finalize do not leak either.
	require.NoError(t, b.AddLayer(Activation{Function: Tanh}))

	assert.Equal(t, Shape{1, 4, 4}, topo.Input())
	assert.Equal(t, Shape{1, 4, 4}, topo.Output())
	assert.Equal(t, 1, topo.Len())
	assert.Equal(t, DefaultBatchSize, topo.BatchSize())
}

func TestAlexNet(t *testing.T) {
	topo, err := AlexNet(0, 227, 227)
	require.NoError(t, err)

	want := map[string]Shape{
		"conv1": {96, 54, 54},
		"pool1": {96, 26, 26},
		"conv2": {256, 26, 26},
		"pool2": {256, 12, 12},
		"conv3": {384, 12, 12},
		"conv4": {384, 12, 12},
		"conv5": {256, 12, 12},
		"pool3": {256, 5, 5},
		"fc1":   {4096},
		"fc2":   {4096},
		"fc3":   {1000},
	}
	for _, s := range topo.Stages() {
		if shape, ok := want[s.Name]; ok {
			assert.Equal(t, shape, s.Output, s.Name)
		}
	}
	assert.Equal(t, 16, topo.BatchSize())
	assert.Equal(t, Shape{6400}, topo.Stage(13).Input)

	_, err = AlexNet(16, 8, 8)
	assert.ErrorIs(t, err, ErrIncompatibleShape)
}

func TestLeNet(t *testing.T) {
	topo, err := LeNet(32, 32)
	require.NoError(t, err)

	outputs := make([]Shape, 0, topo.Len())
	for _, s := range topo.Stages() {
		outputs = append(outputs, s.Output)
	}
	assert.Equal(t, []Shape{
		{6, 28, 28}, {6, 14, 14}, {16, 10, 10}, {16, 5, 5}, {120, 1, 1}, {84}, {10},
	}, outputs)
	assert.Equal(t, 61706, topo.ParameterCount())

	summary := topo.String()
	assert.True(t, strings.HasPrefix(summary, "input (1, 32, 32) batch=32"))
	assert.Contains(t, summary, "conv3")
	assert.Contains(t, summary, "parameters=61706")
}

func stageNames(stages []Stage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}
