package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/born-ml/netspec/internal/parallel"
	"github.com/born-ml/netspec/internal/topology"
)

// IteratorOptions configures an Iterator.
type IteratorOptions struct {
	BatchSize int             // Samples per batch (> 0)
	Shape     topology.Shape  // Per-sample shape the decoder produces, (C, H, W)
	Decoder   Decoder         // Decode capability
	Parallel  parallel.Config // Decode fan-out within one batch
}

// EpochStats aggregates what happened during the current pass.
type EpochStats struct {
	Batches        int             // Batches emitted
	Samples        int             // Samples emitted across all batches
	DecodeFailures []DecodeFailure // Every sample left out
	SkippedBatches int             // Windows where every sample failed
	DroppedSamples int             // Tail samples that did not fill a batch
}

// Iterator partitions an Index into consecutive fixed-size windows and
// decodes each window into a Batch.
//
// A trailing window shorter than BatchSize is dropped, so every emitted
// batch is decoded from exactly BatchSize samples; decode failures can
// still make a batch smaller. A window where every sample fails is skipped.
//
// Iterator is a sequential producer and must not be advanced from more than
// one goroutine. Independent iterators over the same Index may run
// concurrently.
type Iterator struct {
	index *Index
	opts  IteratorOptions
	order []Sample

	next   int // start of the next window in order
	window int
	stats  EpochStats
}

// NewIterator creates an iterator positioned at the start of the index.
func NewIterator(index *Index, opts IteratorOptions) (*Iterator, error) {
	if index == nil || index.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("%w (got %d)", topology.ErrInvalidBatchSize, opts.BatchSize)
	}
	if err := opts.Shape.Validate(); err != nil {
		return nil, err
	}
	if opts.Decoder == nil {
		return nil, errors.New("dataset: iterator needs a decoder")
	}
	opts.Shape = opts.Shape.Clone()

	it := &Iterator{index: index, opts: opts, order: index.Samples()}
	it.reset()
	return it, nil
}

// Index returns the index the iterator walks over.
func (it *Iterator) Index() *Index {
	return it.index
}

// BatchSize returns the configured batch size.
func (it *Iterator) BatchSize() int {
	return it.opts.BatchSize
}

// Shape returns the per-sample shape of emitted features.
func (it *Iterator) Shape() topology.Shape {
	return it.opts.Shape.Clone()
}

// NumBatches returns the number of full windows per epoch.
func (it *Iterator) NumBatches() int {
	return len(it.order) / it.opts.BatchSize
}

// Order returns a copy of the sample order of the current epoch.
func (it *Iterator) Order() []Sample {
	return slices.Clone(it.order)
}

// Stats returns the statistics of the current epoch so far.
func (it *Iterator) Stats() EpochStats {
	s := it.stats
	s.DecodeFailures = slices.Clone(it.stats.DecodeFailures)
	return s
}

// Restart rewinds to the first window.
//
// A nil order keeps the current ordering, so the epoch replays the same
// batches. A non-nil order (typically a shuffle of Index.Samples) must be a
// permutation of the index, otherwise ErrOrderMismatch is returned and the
// iterator is left unchanged.
func (it *Iterator) Restart(order []Sample) error {
	if order != nil {
		if err := it.checkPermutation(order); err != nil {
			return err
		}
		it.order = slices.Clone(order)
	}
	it.reset()
	return nil
}

func (it *Iterator) reset() {
	it.next = 0
	it.window = 0
	it.stats = EpochStats{DroppedSamples: len(it.order) % it.opts.BatchSize}
}

func (it *Iterator) checkPermutation(order []Sample) error {
	if len(order) != it.index.Len() {
		return fmt.Errorf("%w: %d samples, index has %d", ErrOrderMismatch, len(order), it.index.Len())
	}
	want := make(map[string]Sample, it.index.Len())
	for _, s := range it.index.samples {
		want[s.ID] = s
	}
	for _, s := range order {
		orig, ok := want[s.ID]
		if !ok || orig != s {
			return fmt.Errorf("%w: unexpected sample %q", ErrOrderMismatch, s.ID)
		}
		delete(want, s.ID)
	}
	return nil
}

// Next decodes and returns the next batch. It returns io.EOF once the
// epoch is exhausted, and an error wrapping ErrDatasetUnavailable (or the
// context error) if decoding cannot continue at all.
func (it *Iterator) Next(ctx context.Context) (*Batch, error) {
	bs := it.opts.BatchSize
	for it.next+bs <= len(it.order) {
		window := it.order[it.next : it.next+bs]
		it.next += bs
		windowIndex := it.window
		it.window++

		batch, err := it.decodeWindow(ctx, windowIndex, window)
		if err != nil {
			return nil, err
		}
		it.stats.DecodeFailures = append(it.stats.DecodeFailures, batch.Failures...)
		if batch.Size == 0 {
			it.stats.SkippedBatches++
			continue
		}
		it.stats.Batches++
		it.stats.Samples += batch.Size
		return batch, nil
	}
	return nil, io.EOF
}

// All returns an iterator over the remaining batches of the epoch. It stops
// after the first error, which is yielded with a nil batch.
func (it *Iterator) All(ctx context.Context) iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		for {
			batch, err := it.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

func (it *Iterator) decodeWindow(ctx context.Context, windowIndex int, window []Sample) (*Batch, error) {
	sampleLen := it.opts.Shape.NumElements()
	decoded := make([][]float32, len(window))
	failures := make([]error, len(window))

	err := parallel.For(ctx, len(window), it.opts.Parallel, func(ctx context.Context, i int) error {
		features, err := it.opts.Decoder.Decode(ctx, window[i].ID)
		switch {
		case err == nil && len(features) != sampleLen:
			failures[i] = fmt.Errorf("%w: got %d values, want %d for shape %s",
				ErrShapeMismatch, len(features), sampleLen, it.opts.Shape)
		case err == nil:
			decoded[i] = features
		case errors.Is(err, ErrDatasetUnavailable):
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			failures[i] = err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		Index:    windowIndex,
		Features: make([]float32, 0, len(window)*sampleLen),
		Labels:   make([]int32, 0, len(window)),
		IDs:      make([]string, 0, len(window)),
	}
	// Assemble in window order so Features[i] and Labels[i] describe the
	// same sample regardless of decode completion order.
	for i, s := range window {
		if failures[i] != nil {
			batch.Failures = append(batch.Failures, DecodeFailure{ID: s.ID, Err: failures[i]})
			continue
		}
		batch.Features = append(batch.Features, decoded[i]...)
		batch.Labels = append(batch.Labels, s.Class)
		batch.IDs = append(batch.IDs, s.ID)
	}
	batch.Size = len(batch.Labels)
	batch.Shape = it.opts.Shape.WithBatch(batch.Size)
	return batch, nil
}
