package topology

// Infer computes the shape a layer produces from the given input shape.
//
// It is a pure function: the result depends only on its arguments.
//
//   - Convolution: (C, H, W) -> (out_channels, H', W')
//   - Pooling:     (C, H, W) -> (C, H', W')
//   - FullyConnected: (N,) -> (output_size,); spatial input must be flattened first
//   - Activation:  identity
//
// where for each spatial extent
//
//	out = (in + 2*padding - kernel) / stride + 1
//
// with truncating division. A kernel larger than the padded extent is an
// incompatibility, not a zero-sized output.
func Infer(input Shape, layer Layer) (Shape, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if layer == nil {
		return nil, invalidParam("nil layer")
	}
	if err := layer.Validate(); err != nil {
		return nil, err
	}

	switch l := layer.(type) {
	case Convolution:
		h, w, err := inferWindow(input, l.KernelSize, l.Padding, l.Stride)
		if err != nil {
			return nil, err
		}
		return Shape{l.OutputChannels, h, w}, nil

	case Pooling:
		h, w, err := inferWindow(input, l.KernelSize, l.Padding, l.Stride)
		if err != nil {
			return nil, err
		}
		return Shape{input.Channels(), h, w}, nil

	case FullyConnected:
		if !input.IsFlat() {
			return nil, incompatible("fully-connected layer requires flattened input, got %s", input)
		}
		return Shape{l.OutputSize}, nil

	case Activation:
		return input.Clone(), nil

	default:
		return nil, invalidParam("unsupported layer %T", layer)
	}
}

// OutputExtent applies the sliding-window formula to one spatial extent.
// It returns ErrIncompatibleShape when the kernel does not fit.
func OutputExtent(extent, kernel, padding, stride int) (int, error) {
	if err := validateWindow("window", kernel, padding, stride); err != nil {
		return 0, err
	}
	padded := extent + 2*padding
	if kernel > padded {
		return 0, incompatible("kernel %d exceeds padded extent %d (extent %d, padding %d)",
			kernel, padded, extent, padding)
	}
	out := (padded-kernel)/stride + 1
	if out <= 0 {
		return 0, incompatible("non-positive output extent %d", out)
	}
	return out, nil
}

func inferWindow(input Shape, kernel, padding, stride int) (int, int, error) {
	if input.IsFlat() {
		return 0, 0, incompatible("windowed layer requires (channels, height, width) input, got %s", input)
	}
	h, err := OutputExtent(input.Height(), kernel, padding, stride)
	if err != nil {
		return 0, 0, err
	}
	w, err := OutputExtent(input.Width(), kernel, padding, stride)
	if err != nil {
		return 0, 0, err
	}
	return h, w, nil
}
