package train

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/netspec/internal/dataset"
	"github.com/born-ml/netspec/internal/topology"
)

// StepResult is what an engine reports for a successful step.
type StepResult struct {
	Loss float64
}

// Engine is the compute/backprop backend the driver feeds.
//
// Configure receives the finalized topology once per run. Step receives
// each batch; a returned error is logged and training continues with the
// next batch, unless it wraps ErrFatalStep.
type Engine interface {
	Configure(ctx context.Context, topo *topology.Topology) error
	Step(ctx context.Context, batch *dataset.Batch) (StepResult, error)
}

// OrderFunc returns the sample order for an epoch. It receives the index
// order and must return a permutation of it.
type OrderFunc func(epoch int, samples []dataset.Sample) []dataset.Sample

// Config controls a training run.
type Config struct {
	Epochs  int          // Number of passes (> 0)
	Shuffle bool         // Reshuffle every epoch with a Seed-derived RNG
	Seed    int64        // Shuffle seed
	Order   OrderFunc    // Custom per-epoch order; takes precedence over Shuffle
	Logger  *slog.Logger // Defaults to a discarding logger
}

// Driver runs the epoch loop: restart the iterator, hand every batch to the
// engine, advance.
type Driver struct {
	topo   *topology.Topology
	it     *dataset.Iterator
	engine Engine
	cfg    Config
	log    *slog.Logger
}

// NewDriver checks that the iterator produces what the topology consumes
// and returns a driver.
func NewDriver(topo *topology.Topology, it *dataset.Iterator, engine Engine, cfg Config) (*Driver, error) {
	switch {
	case topo == nil:
		return nil, errors.New("train: nil topology")
	case it == nil:
		return nil, errors.New("train: nil iterator")
	case engine == nil:
		return nil, errors.New("train: nil engine")
	case cfg.Epochs <= 0:
		return nil, fmt.Errorf("train: epochs must be > 0 (got %d)", cfg.Epochs)
	}
	if !it.Shape().Equal(topo.Input()) {
		return nil, fmt.Errorf("%w: iterator yields samples of %s, topology expects %s",
			topology.ErrIncompatibleShape, it.Shape(), topo.Input())
	}
	if it.BatchSize() != topo.BatchSize() {
		return nil, fmt.Errorf("%w: iterator batch size %d, topology batch size %d",
			topology.ErrIncompatibleShape, it.BatchSize(), topo.BatchSize())
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Driver{topo: topo, it: it, engine: engine, cfg: cfg, log: log}, nil
}

// Run executes all epochs.
//
// It stops early, returning the partial report and an error, when the
// engine signals ErrFatalStep, when the dataset becomes unavailable, or
// when ctx is canceled. Cancellation is observed at batch boundaries.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := d.log.With("run", report.RunID)

	if err := d.engine.Configure(ctx, d.topo); err != nil {
		return report, fmt.Errorf("configure engine: %w", err)
	}
	log.Info("training started",
		"epochs", d.cfg.Epochs,
		"samples", d.it.Index().Len(),
		"batch_size", d.it.BatchSize(),
		"batches_per_epoch", d.it.NumBatches(),
		"input", d.topo.Input().String(),
		"parameters", d.topo.ParameterCount(),
	)

	for epoch := 1; epoch <= d.cfg.Epochs; epoch++ {
		er, err := d.runEpoch(ctx, log.With("epoch", epoch), epoch)
		report.Epochs = append(report.Epochs, er)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (d *Driver) runEpoch(ctx context.Context, log *slog.Logger, epoch int) (EpochReport, error) {
	start := time.Now()
	er := EpochReport{Epoch: epoch}

	if err := d.it.Restart(d.order(epoch)); err != nil {
		return er, fmt.Errorf("epoch %d: %w", epoch, err)
	}

	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			er.finish(d.it.Stats(), time.Since(start))
			return er, err
		}

		batch, err := d.it.Next(ctx)
		if stats := d.it.Stats(); stats.SkippedBatches > skipped {
			log.Warn("batch skipped, every sample failed to decode", "skipped", stats.SkippedBatches-skipped)
			skipped = stats.SkippedBatches
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			er.finish(d.it.Stats(), time.Since(start))
			return er, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		for _, f := range batch.Failures {
			log.Warn("sample decode failed", "batch", batch.Index, "id", f.ID, "err", f.Err)
		}

		res, err := d.engine.Step(ctx, batch)
		switch {
		case err == nil:
			er.losses = append(er.losses, res.Loss)
		case errors.Is(err, ErrFatalStep):
			log.Error("fatal step failure", "batch", batch.Index, "err", err)
			er.finish(d.it.Stats(), time.Since(start))
			return er, &StepError{Epoch: epoch, Batch: batch.Index, Err: err}
		default:
			er.StepFailures++
			log.Warn("step failed", "batch", batch.Index, "size", batch.Size, "err", err)
		}
		er.Batches++
		er.Samples += batch.Size
	}

	er.finish(d.it.Stats(), time.Since(start))
	log.Info("epoch done",
		"batches", er.Batches,
		"samples", er.Samples,
		"step_failures", er.StepFailures,
		"decode_failures", er.DecodeFailures,
		"skipped_batches", er.SkippedBatches,
		"dropped_samples", er.DroppedSamples,
		"loss_mean", er.MeanLoss,
		"loss_std", er.StdLoss,
		"elapsed", er.Duration,
	)
	return er, nil
}

func (d *Driver) order(epoch int) []dataset.Sample {
	switch {
	case d.cfg.Order != nil:
		return d.cfg.Order(epoch, d.it.Index().Samples())
	case d.cfg.Shuffle:
		rng := rand.New(rand.NewSource(d.cfg.Seed + int64(epoch)))
		return dataset.Shuffled(d.it.Index().Samples(), rng)
	default:
		return nil
	}
}
