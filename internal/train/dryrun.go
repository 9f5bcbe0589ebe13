package train

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/netspec/internal/dataset"
	"github.com/born-ml/netspec/internal/topology"
)

// DryRun is an Engine that performs no training. It checks that every
// batch matches the configured topology and reports the mean feature value
// as its loss, which makes it useful for exercising a data pipeline.
type DryRun struct {
	mu    sync.Mutex
	topo  *topology.Topology
	steps int
	seen  int
}

// NewDryRun returns a dry-run engine.
func NewDryRun() *DryRun {
	return &DryRun{}
}

// Configure implements Engine.
func (e *DryRun) Configure(_ context.Context, topo *topology.Topology) error {
	if topo == nil {
		return fmt.Errorf("%w: nil topology", topology.ErrEmptyTopology)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.topo = topo
	return nil
}

// Step implements Engine.
func (e *DryRun) Step(_ context.Context, batch *dataset.Batch) (StepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.topo == nil {
		return StepResult{}, Fatal(errors.New("dry run: step before configure"))
	}

	want := e.topo.Input().WithBatch(batch.Size)
	if !slices.Equal(batch.Shape, want) {
		return StepResult{}, fmt.Errorf("dry run: batch shape %v, want %v", batch.Shape, want)
	}
	if len(batch.Labels) != batch.Size || len(batch.Features) != batch.Size*e.topo.Input().NumElements() {
		return StepResult{}, fmt.Errorf("dry run: batch %d holds %d labels and %d features for size %d",
			batch.Index, len(batch.Labels), len(batch.Features), batch.Size)
	}

	values := make([]float64, len(batch.Features))
	for i, v := range batch.Features {
		values[i] = float64(v)
	}
	e.steps++
	e.seen += batch.Size

	loss := 0.0
	if len(values) > 0 {
		loss = floats.Sum(values) / float64(len(values))
	}
	return StepResult{Loss: loss}, nil
}

// Steps returns the number of successful steps.
func (e *DryRun) Steps() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.steps
}

// Samples returns the number of samples seen in successful steps.
func (e *DryRun) Samples() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seen
}
