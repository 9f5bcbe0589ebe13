package topology

// AlexNet builds the AlexNet topology for 3-channel input.
//
// With a 227x227 input the stages are:
//
//	conv1 11x11/4       -> (96, 54, 54)
//	pool1 3x3/2 max     -> (96, 26, 26)
//	conv2 5x5 pad 2     -> (256, 26, 26)
//	pool2 3x3/2 max     -> (256, 12, 12)
//	conv3, conv4 3x3 p1 -> (384, 12, 12)
//	conv5 3x3 p1        -> (256, 12, 12)
//	pool3 3x3/2 max     -> (256, 5, 5)
//	fc1, fc2            -> (4096,)
//	fc3                 -> (1000,)
//
// A batch size of 0 selects DefaultBatchSize.
func AlexNet(batchSize, height, width int) (*Topology, error) {
	b := NewBuilder()
	if err := b.SetInput(Shape{3, height, width}); err != nil {
		return nil, err
	}
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if err := b.SetBatchSize(batchSize); err != nil {
		return nil, err
	}

	maxPool := Pooling{Mode: PoolMax, KernelSize: 3, Stride: 2}
	relu := Activation{Function: ReLU}
	layers := []Layer{
		Convolution{OutputChannels: 96, KernelSize: 11, Stride: 4},
		relu,
		maxPool,
		Convolution{OutputChannels: 256, KernelSize: 5, Padding: 2, Stride: 1},
		relu,
		maxPool,
		Convolution{OutputChannels: 384, KernelSize: 3, Padding: 1, Stride: 1},
		relu,
		Convolution{OutputChannels: 384, KernelSize: 3, Padding: 1, Stride: 1},
		relu,
		Convolution{OutputChannels: 256, KernelSize: 3, Padding: 1, Stride: 1},
		relu,
		maxPool,
		FullyConnected{OutputSize: 4096},
		FullyConnected{OutputSize: 4096},
		FullyConnected{OutputSize: 1000},
	}
	return build(b, layers)
}

// LeNet builds LeNet-5 for single-channel size x size input (32 for the
// classic layout):
//
//	conv1 5x5   -> (6, 28, 28)
//	pool1 2x2/2 -> (6, 14, 14)
//	conv2 5x5   -> (16, 10, 10)
//	pool2 2x2/2 -> (16, 5, 5)
//	conv3 5x5   -> (120, 1, 1)
//	fc1         -> (84,)
//	fc2         -> (10,)
func LeNet(batchSize, size int) (*Topology, error) {
	b := NewBuilder()
	if err := b.SetInput(Shape{1, size, size}); err != nil {
		return nil, err
	}
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if err := b.SetBatchSize(batchSize); err != nil {
		return nil, err
	}

	pool := Pooling{Mode: PoolMax, KernelSize: 2, Stride: 2}
	layers := []Layer{
		Convolution{OutputChannels: 6, KernelSize: 5, Stride: 1},
		pool,
		Convolution{OutputChannels: 16, KernelSize: 5, Stride: 1},
		pool,
		Convolution{OutputChannels: 120, KernelSize: 5, Stride: 1},
		FullyConnected{OutputSize: 84},
		FullyConnected{OutputSize: 10},
	}
	return build(b, layers)
}

func build(b *Builder, layers []Layer) (*Topology, error) {
	for _, l := range layers {
		if err := b.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}
