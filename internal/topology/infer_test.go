package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name  string
		input Shape
		layer Layer
		want  Shape
	}{
		{
			name:  "alexnet conv1",
			input: Shape{3, 227, 227},
			layer: Convolution{OutputChannels: 96, KernelSize: 11, Padding: 0, Stride: 4},
			want:  Shape{96, 54, 54},
		},
		{
			name:  "same padding conv",
			input: Shape{96, 26, 26},
			layer: Convolution{OutputChannels: 256, KernelSize: 5, Padding: 2, Stride: 1},
			want:  Shape{256, 26, 26},
		},
		{
			name:  "overlapping max pool floors",
			input: Shape{96, 54, 54},
			layer: Pooling{Mode: PoolMax, KernelSize: 3, Stride: 2},
			want:  Shape{96, 26, 26},
		},
		{
			name:  "average pool keeps channels",
			input: Shape{16, 10, 10},
			layer: Pooling{Mode: PoolAverage, KernelSize: 2, Stride: 2},
			want:  Shape{16, 5, 5},
		},
		{
			name:  "non-square input",
			input: Shape{1, 28, 14},
			layer: Convolution{OutputChannels: 4, KernelSize: 3, Padding: 1, Stride: 2},
			want:  Shape{4, 14, 7},
		},
		{
			name:  "kernel equals padded extent",
			input: Shape{2, 3, 3},
			layer: Convolution{OutputChannels: 5, KernelSize: 5, Padding: 1, Stride: 3},
			want:  Shape{5, 1, 1},
		},
		{
			name:  "fully connected on flat",
			input: Shape{6400},
			layer: FullyConnected{OutputSize: 4096},
			want:  Shape{4096},
		},
		{
			name:  "activation is identity",
			input: Shape{96, 54, 54},
			layer: Activation{Function: ReLU},
			want:  Shape{96, 54, 54},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Infer(tt.input, tt.layer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferIncompatible(t *testing.T) {
	tests := []struct {
		name  string
		input Shape
		layer Layer
	}{
		{"kernel larger than padded extent", Shape{3, 4, 4}, Convolution{OutputChannels: 1, KernelSize: 7, Padding: 1, Stride: 1}},
		{"kernel larger on width only", Shape{3, 10, 2}, Pooling{KernelSize: 3, Stride: 1}},
		{"fully connected on spatial", Shape{3, 4, 4}, FullyConnected{OutputSize: 10}},
		{"conv on flat", Shape{48}, Convolution{OutputChannels: 1, KernelSize: 1, Stride: 1}},
		{"invalid input", Shape{3, 0, 4}, Activation{Function: ReLU}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Infer(tt.input, tt.layer)
			assert.ErrorIs(t, err, ErrIncompatibleShape)
		})
	}
}

func TestInferInvalidLayer(t *testing.T) {
	_, err := Infer(Shape{3, 8, 8}, Convolution{OutputChannels: 4, KernelSize: 3, Stride: 0})
	assert.ErrorIs(t, err, ErrInvalidLayerParameter)

	_, err = Infer(Shape{3, 8, 8}, nil)
	assert.ErrorIs(t, err, ErrInvalidLayerParameter)
}

func TestInferConvolutionAlwaysPositive(t *testing.T) {
	for extent := 1; extent <= 12; extent++ {
		for kernel := 1; kernel <= 7; kernel++ {
			for padding := 0; padding <= 3; padding++ {
				for stride := 1; stride <= 4; stride++ {
					if kernel > extent+2*padding {
						continue
					}
					input := Shape{2, extent, extent + 1}
					layer := Convolution{OutputChannels: 3, KernelSize: kernel, Padding: padding, Stride: stride}

					first, err := Infer(input, layer)
					require.NoError(t, err)
					second, err := Infer(input, layer)
					require.NoError(t, err)

					assert.Equal(t, first, second)
					assert.Equal(t, Shape{2, extent, extent + 1}, input, "input must not be mutated")
					for _, dim := range first {
						assert.GreaterOrEqual(t, dim, 1)
					}
				}
			}
		}
	}
}

func TestOutputExtent(t *testing.T) {
	out, err := OutputExtent(227, 11, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 54, out)

	_, err = OutputExtent(2, 5, 1, 1)
	assert.ErrorIs(t, err, ErrIncompatibleShape)
}
