package topology

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Stage is one validated layer of a topology together with the shapes
// flowing in and out of it.
type Stage struct {
	Index  int
	Name   string
	Layer  Layer
	Input  Shape // Input after any implicit flattening
	Output Shape
}

func (s Stage) clone() Stage {
	s.Input = s.Input.Clone()
	s.Output = s.Output.Clone()
	return s
}

// Topology is a finalized, validated network description.
//
// It is immutable: every accessor returns copies, so a Topology may be
// read concurrently by any number of backend consumers.
type Topology struct {
	input     Shape
	batchSize int
	stages    []Stage
}

// Input returns the declared per-sample input shape.
func (t *Topology) Input() Shape {
	return t.input.Clone()
}

// BatchSize returns the declared batch size.
func (t *Topology) BatchSize() int {
	return t.batchSize
}

// InputBatchShape returns the input including the batch dimension,
// e.g. [16, 3, 227, 227].
func (t *Topology) InputBatchShape() []int {
	return t.input.WithBatch(t.batchSize)
}

// Len returns the number of stages.
func (t *Topology) Len() int {
	return len(t.stages)
}

// Stage returns the i-th stage.
func (t *Topology) Stage(i int) Stage {
	return t.stages[i].clone()
}

// Stages returns a copy of all stages in order.
func (t *Topology) Stages() []Stage {
	out := make([]Stage, len(t.stages))
	for i, s := range t.stages {
		out[i] = s.clone()
	}
	return out
}

// Output returns the shape produced by the last stage.
func (t *Topology) Output() Shape {
	return t.stages[len(t.stages)-1].Output.Clone()
}

// ParameterCount returns the number of weights and biases of the
// convolution and fully-connected stages.
//
//	conv: out*in*k*k + out
//	fc:   out*in + out
func (t *Topology) ParameterCount() int {
	total := 0
	for _, s := range t.stages {
		switch l := s.Layer.(type) {
		case Convolution:
			total += l.OutputChannels*s.Input.Channels()*l.KernelSize*l.KernelSize + l.OutputChannels
		case FullyConnected:
			total += l.OutputSize*s.Input.NumElements() + l.OutputSize
		}
	}
	return total
}

// String renders a summary table of the topology.
func (t *Topology) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "input %s batch=%d\n", t.input, t.batchSize)
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tname\tlayer\toutput")
	for _, s := range t.stages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Index, s.Name, s.Layer, s.Output)
	}
	_ = tw.Flush()
	fmt.Fprintf(&sb, "parameters=%d", t.ParameterCount())
	return sb.String()
}
