package train

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/netspec/internal/dataset"
)

// EpochReport summarises one pass over the dataset.
type EpochReport struct {
	Epoch          int
	Batches        int // Batches handed to the engine
	Samples        int // Samples in those batches
	StepFailures   int // Non-fatal engine failures
	DecodeFailures int // Samples left out because they failed to decode
	SkippedBatches int // Windows where every sample failed to decode
	DroppedSamples int // Tail samples that did not fill a batch
	MeanLoss       float64
	StdLoss        float64
	Duration       time.Duration

	losses []float64
}

func (e *EpochReport) finish(it dataset.EpochStats, elapsed time.Duration) {
	e.DecodeFailures = len(it.DecodeFailures)
	e.SkippedBatches = it.SkippedBatches
	e.DroppedSamples = it.DroppedSamples
	e.Duration = elapsed
	switch len(e.losses) {
	case 0:
	case 1:
		e.MeanLoss = e.losses[0]
	default:
		e.MeanLoss, e.StdLoss = stat.MeanStdDev(e.losses, nil)
	}
	e.losses = nil
}

// Report is the outcome of Driver.Run.
type Report struct {
	RunID  string
	Epochs []EpochReport
}

// Batches returns the total number of batches handed to the engine.
func (r *Report) Batches() int {
	n := 0
	for _, e := range r.Epochs {
		n += e.Batches
	}
	return n
}

// DecodeFailureRate returns failed samples / attempted samples over the
// whole run, or 0 if nothing was attempted.
func (r *Report) DecodeFailureRate() float64 {
	failed, ok := 0, 0
	for _, e := range r.Epochs {
		failed += e.DecodeFailures
		ok += e.Samples
	}
	if failed+ok == 0 {
		return 0
	}
	return float64(failed) / float64(failed+ok)
}
