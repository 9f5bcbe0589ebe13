// Package config reads YAML run configurations for the netspec CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/netspec/internal/dataset"
	"github.com/born-ml/netspec/internal/parallel"
	"github.com/born-ml/netspec/internal/topology"
)

// Config captures a network declaration plus the knobs for a training run.
type Config struct {
	Network Network `yaml:"network"`
	Dataset Dataset `yaml:"dataset"`
	Train   Train   `yaml:"train"`
}

// Network declares a topology, either by preset or layer by layer.
type Network struct {
	Preset    string      `yaml:"preset"`
	BatchSize int         `yaml:"batch_size"`
	Input     *Input      `yaml:"input"`
	Layers    []LayerSpec `yaml:"layers"`
}

// Input is the per-sample input shape.
type Input struct {
	Channels int `yaml:"channels"`
	Height   int `yaml:"height"`
	Width    int `yaml:"width"`
}

// LayerSpec is one entry of network.layers.
//
//	- {type: conv, out: 96, kernel: 11, stride: 4}
//	- {type: pool, mode: max, kernel: 3, stride: 2}
//	- {type: fc, out: 4096}
//	- {type: activation, function: relu}
type LayerSpec struct {
	Type     string `yaml:"type"`
	Name     string `yaml:"name"`
	Out      int    `yaml:"out"`
	Kernel   int    `yaml:"kernel"`
	Padding  int    `yaml:"padding"`
	Stride   int    `yaml:"stride"`
	Mode     string `yaml:"mode"`
	Function string `yaml:"function"`
}

// Dataset locates the label file and the sample directory.
type Dataset struct {
	Labels      string   `yaml:"labels"`
	Root        string   `yaml:"root"`
	IDColumn    string   `yaml:"id_column"`
	LabelColumn string   `yaml:"label_column"`
	Extensions  []string `yaml:"extensions"`
}

// Train holds the epoch loop settings.
type Train struct {
	Epochs  int   `yaml:"epochs"`
	Seed    int64 `yaml:"seed"`
	Workers int   `yaml:"workers"`
	Shuffle bool  `yaml:"shuffle"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Preset    string
	BatchSize int
	Labels    string
	Root      string
	Epochs    int
	Workers   int
	Seed      int64
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes a Config from r without validating it. Unknown keys are
// rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Preset != "" {
		c.Network.Preset = o.Preset
	}
	if o.BatchSize > 0 {
		c.Network.BatchSize = o.BatchSize
	}
	if o.Labels != "" {
		c.Dataset.Labels = o.Labels
	}
	if o.Root != "" {
		c.Dataset.Root = o.Root
	}
	if o.Epochs > 0 {
		c.Train.Epochs = o.Epochs
	}
	if o.Workers > 0 {
		c.Train.Workers = o.Workers
	}
	if o.Seed != 0 {
		c.Train.Seed = o.Seed
	}
}

// Validate verifies the config is structurally sound and fills defaults.
// Layer arithmetic is checked by Network.Build, not here.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Network.validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if c.Train.Epochs < 0 {
		return fmt.Errorf("train: epochs must be > 0 (got %d)", c.Train.Epochs)
	}
	if c.Train.Epochs == 0 {
		c.Train.Epochs = 1
	}
	if c.Train.Workers < 0 {
		return fmt.Errorf("train: workers must be >= 0 (got %d)", c.Train.Workers)
	}
	return nil
}

func (n *Network) validate() error {
	if n.BatchSize < 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", n.BatchSize)
	}
	if n.Preset != "" {
		if len(n.Layers) > 0 {
			return errors.New("preset and layers are mutually exclusive")
		}
		switch strings.ToLower(n.Preset) {
		case "alexnet", "lenet":
			return nil
		default:
			return fmt.Errorf("unknown preset %q", n.Preset)
		}
	}
	if n.Input == nil {
		return errors.New("input is required without a preset")
	}
	if len(n.Layers) == 0 {
		return errors.New("at least one layer is required without a preset")
	}
	for i, l := range n.Layers {
		switch strings.ToLower(l.Type) {
		case "conv", "convolution", "pool", "pooling", "fc", "dense", "activation":
		default:
			return fmt.Errorf("layers[%d]: unknown type %q", i, l.Type)
		}
	}
	return nil
}

// Ready reports whether the dataset section names both a label file and a
// sample directory.
func (d Dataset) Ready() error {
	if d.Labels == "" {
		return errors.New("dataset: labels must be set")
	}
	if d.Root == "" {
		return errors.New("dataset: root must be set")
	}
	return nil
}

// LabelOptions returns the label file column selection.
func (d Dataset) LabelOptions() dataset.LabelOptions {
	return dataset.LabelOptions{IDColumn: d.IDColumn, LabelColumn: d.LabelColumn}
}

// Parallel returns the decode worker configuration. Zero workers means one
// per CPU.
func (t Train) Parallel() parallel.Config {
	if t.Workers == 0 {
		return parallel.DefaultConfig()
	}
	return parallel.WithWorkers(t.Workers)
}

// Build constructs the declared topology.
//
// For presets the input height and width default to 227 (AlexNet) and 32
// (LeNet). In a layer list, a zero stride means 1 for convolutions and the
// kernel size for pooling.
func (n Network) Build() (*topology.Topology, error) {
	switch strings.ToLower(n.Preset) {
	case "alexnet":
		h, w := 227, 227
		if n.Input != nil {
			h, w = n.Input.Height, n.Input.Width
		}
		return topology.AlexNet(n.BatchSize, h, w)
	case "lenet":
		size := 32
		if n.Input != nil {
			size = n.Input.Height
		}
		return topology.LeNet(n.BatchSize, size)
	case "":
	default:
		return nil, fmt.Errorf("unknown preset %q", n.Preset)
	}

	if n.Input == nil {
		return nil, topology.ErrEmptyTopology
	}

	b := topology.NewBuilder()
	if err := b.SetInput(topology.Shape{n.Input.Channels, n.Input.Height, n.Input.Width}); err != nil {
		return nil, err
	}
	if n.BatchSize > 0 {
		if err := b.SetBatchSize(n.BatchSize); err != nil {
			return nil, err
		}
	}
	for i, spec := range n.Layers {
		layer, err := spec.Layer()
		if err != nil {
			return nil, fmt.Errorf("layers[%d]: %w", i, err)
		}
		if spec.Name != "" {
			err = b.AddNamed(spec.Name, layer)
		} else {
			err = b.AddLayer(layer)
		}
		if err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// Layer converts the entry into a topology layer.
func (s LayerSpec) Layer() (topology.Layer, error) {
	switch strings.ToLower(s.Type) {
	case "conv", "convolution":
		stride := s.Stride
		if stride == 0 {
			stride = 1
		}
		return topology.NewConvolution(s.Out, s.Kernel, s.Padding, stride)
	case "pool", "pooling":
		mode, err := topology.ParsePoolingMode(strings.ToLower(s.Mode))
		if err != nil {
			return nil, err
		}
		stride := s.Stride
		if stride == 0 {
			stride = s.Kernel
		}
		return topology.NewPooling(mode, s.Kernel, s.Padding, stride)
	case "fc", "dense":
		return topology.NewFullyConnected(s.Out)
	case "activation":
		kind, err := topology.ParseActivationKind(strings.ToLower(s.Function))
		if err != nil {
			return nil, err
		}
		return topology.NewActivation(kind)
	default:
		return nil, fmt.Errorf("%w: unknown layer type %q", topology.ErrInvalidLayerParameter, s.Type)
	}
}
