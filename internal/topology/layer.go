package topology

import "fmt"

// Kind identifies the variant of a Layer.
type Kind int

// Supported layer kinds.
const (
	KindConvolution Kind = iota
	KindPooling
	KindFullyConnected
	KindActivation
)

// String returns the short name used for stage naming ("conv", "pool", ...).
func (k Kind) String() string {
	switch k {
	case KindConvolution:
		return "conv"
	case KindPooling:
		return "pool"
	case KindFullyConnected:
		return "fc"
	case KindActivation:
		return "act"
	default:
		return "unknown"
	}
}

// Layer describes one stage of a topology.
//
// It is a closed set of variants: Convolution, Pooling, FullyConnected and
// Activation. A Layer carries hyperparameters only; what it does to a Shape
// is decided by Infer.
type Layer interface {
	Kind() Kind
	Validate() error
	String() string

	layer()
}

// Convolution is a 2D convolution with square kernels.
//
// Output extent per spatial dimension:
//
//	out = (in + 2*padding - kernel) / stride + 1
type Convolution struct {
	OutputChannels int
	KernelSize     int
	Padding        int
	Stride         int
}

// NewConvolution validates and returns a convolution layer.
func NewConvolution(outputChannels, kernelSize, padding, stride int) (Convolution, error) {
	c := Convolution{
		OutputChannels: outputChannels,
		KernelSize:     kernelSize,
		Padding:        padding,
		Stride:         stride,
	}
	if err := c.Validate(); err != nil {
		return Convolution{}, err
	}
	return c, nil
}

// Kind implements Layer.
func (Convolution) Kind() Kind { return KindConvolution }

// Validate checks the numeric fields of the convolution.
func (c Convolution) Validate() error {
	if c.OutputChannels <= 0 {
		return invalidParam("conv: output channels must be > 0 (got %d)", c.OutputChannels)
	}
	return validateWindow("conv", c.KernelSize, c.Padding, c.Stride)
}

// String returns a string representation of the layer.
func (c Convolution) String() string {
	return fmt.Sprintf("Convolution(out_channels=%d, kernel=%d, padding=%d, stride=%d)",
		c.OutputChannels, c.KernelSize, c.Padding, c.Stride)
}

func (Convolution) layer() {}

// PoolingMode selects how a pooling window is reduced.
type PoolingMode int

// Pooling modes.
const (
	PoolMax PoolingMode = iota
	PoolAverage
)

// String returns "max" or "average".
func (m PoolingMode) String() string {
	switch m {
	case PoolMax:
		return "max"
	case PoolAverage:
		return "average"
	default:
		return "unknown"
	}
}

// ParsePoolingMode accepts "max", "avg" or "average".
func ParsePoolingMode(s string) (PoolingMode, error) {
	switch s {
	case "max", "":
		return PoolMax, nil
	case "avg", "average", "mean":
		return PoolAverage, nil
	default:
		return 0, invalidParam("pool: unknown mode %q", s)
	}
}

// Pooling is a 2D pooling layer. It preserves the channel count.
type Pooling struct {
	Mode       PoolingMode
	KernelSize int
	Padding    int
	Stride     int
}

// NewPooling validates and returns a pooling layer.
func NewPooling(mode PoolingMode, kernelSize, padding, stride int) (Pooling, error) {
	p := Pooling{Mode: mode, KernelSize: kernelSize, Padding: padding, Stride: stride}
	if err := p.Validate(); err != nil {
		return Pooling{}, err
	}
	return p, nil
}

// Kind implements Layer.
func (Pooling) Kind() Kind { return KindPooling }

// Validate checks the mode and numeric fields of the pooling layer.
func (p Pooling) Validate() error {
	if p.Mode != PoolMax && p.Mode != PoolAverage {
		return invalidParam("pool: unknown mode %d", int(p.Mode))
	}
	return validateWindow("pool", p.KernelSize, p.Padding, p.Stride)
}

// String returns a string representation of the layer.
func (p Pooling) String() string {
	return fmt.Sprintf("Pooling(mode=%s, kernel=%d, padding=%d, stride=%d)",
		p.Mode, p.KernelSize, p.Padding, p.Stride)
}

func (Pooling) layer() {}

// FullyConnected is a dense layer producing OutputSize features.
type FullyConnected struct {
	OutputSize int
}

// NewFullyConnected validates and returns a fully-connected layer.
func NewFullyConnected(outputSize int) (FullyConnected, error) {
	f := FullyConnected{OutputSize: outputSize}
	if err := f.Validate(); err != nil {
		return FullyConnected{}, err
	}
	return f, nil
}

// Kind implements Layer.
func (FullyConnected) Kind() Kind { return KindFullyConnected }

// Validate checks that the output size is positive.
func (f FullyConnected) Validate() error {
	if f.OutputSize <= 0 {
		return invalidParam("fc: output size must be > 0 (got %d)", f.OutputSize)
	}
	return nil
}

// String returns a string representation of the layer.
func (f FullyConnected) String() string {
	return fmt.Sprintf("FullyConnected(output_size=%d)", f.OutputSize)
}

func (FullyConnected) layer() {}

// ActivationKind enumerates the element-wise activations.
type ActivationKind int

// Supported activations.
const (
	ReLU ActivationKind = iota
	Sigmoid
	Tanh
	Softmax
	LogSoftmax
)

var activationNames = map[ActivationKind]string{
	ReLU:       "relu",
	Sigmoid:    "sigmoid",
	Tanh:       "tanh",
	Softmax:    "softmax",
	LogSoftmax: "log_softmax",
}

// String returns the lower-case activation name.
func (a ActivationKind) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseActivationKind maps a name such as "relu" to its ActivationKind.
func ParseActivationKind(s string) (ActivationKind, error) {
	for kind, name := range activationNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, invalidParam("activation: unknown kind %q", s)
}

// Activation is a shape-preserving element-wise function.
type Activation struct {
	Function ActivationKind
}

// NewActivation validates and returns an activation layer.
func NewActivation(kind ActivationKind) (Activation, error) {
	a := Activation{Function: kind}
	if err := a.Validate(); err != nil {
		return Activation{}, err
	}
	return a, nil
}

// Kind implements Layer.
func (Activation) Kind() Kind { return KindActivation }

// Validate checks that the activation kind is known.
func (a Activation) Validate() error {
	if _, ok := activationNames[a.Function]; !ok {
		return invalidParam("activation: unknown kind %d", int(a.Function))
	}
	return nil
}

// String returns a string representation of the layer.
func (a Activation) String() string {
	return fmt.Sprintf("Activation(%s)", a.Function)
}

func (Activation) layer() {}

// validateWindow checks the kernel/padding/stride triple shared by
// convolution and pooling.
func validateWindow(kind string, kernel, padding, stride int) error {
	if kernel <= 0 {
		return invalidParam("%s: kernel size must be > 0 (got %d)", kind, kernel)
	}
	if padding < 0 {
		return invalidParam("%s: padding must be >= 0 (got %d)", kind, padding)
	}
	if stride <= 0 {
		return invalidParam("%s: stride must be > 0 (got %d)", kind, stride)
	}
	return nil
}
