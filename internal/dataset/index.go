package dataset

import (
	"cmp"
	"context"
	"fmt"
	"math/rand"
	"slices"
)

// Sample is one labelled sample present on disk.
type Sample struct {
	ID    string // Identifier (file stem)
	Label string // Label as read from the label table
	Class int32  // Index of Label in the sorted class list
}

// IndexStats summarises how disk and label identifiers were matched.
type IndexStats struct {
	OnDisk    int // Identifiers listed under the sample root
	Labeled   int // Identifiers in the label table
	Matched   int // Identifiers in both
	DiskOnly  int // On disk but without a label
	LabelOnly int // Labelled but missing on disk
}

// Excluded returns the number of identifiers present on only one side.
func (s IndexStats) Excluded() int {
	return s.DiskOnly + s.LabelOnly
}

// Index is the ordered set of samples a training run iterates over.
//
// Its order is the sorted order of identifiers, independent of directory
// listing order. An Index is immutable and safe for concurrent reads.
type Index struct {
	root    string
	samples []Sample
	classes []string
	stats   IndexStats
}

// BuildIndex intersects the identifiers listed by src with the label
// table. It fails with ErrEmptyDataset if nothing matches and with
// ErrDatasetUnavailable if the sample root cannot be listed.
func BuildIndex(ctx context.Context, labels *LabelIndex, src Lister) (*Index, error) {
	ids, err := src.ListIdentifiers(ctx)
	if err != nil {
		return nil, err
	}

	onDisk := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		onDisk[id] = struct{}{}
	}

	stats := IndexStats{OnDisk: len(onDisk), Labeled: labels.Len()}
	samples := make([]Sample, 0, min(len(onDisk), labels.Len()))
	for id := range onDisk {
		label, ok := labels.Lookup(id)
		if !ok {
			stats.DiskOnly++
			continue
		}
		class, _ := labels.ClassOf(label)
		samples = append(samples, Sample{ID: id, Label: label, Class: int32(class)})
	}
	stats.Matched = len(samples)
	stats.LabelOnly = stats.Labeled - stats.Matched

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %d identifiers under %s, %d labels in %s, none in common",
			ErrEmptyDataset, stats.OnDisk, src.Root(), stats.Labeled, labels.Source())
	}

	slices.SortFunc(samples, func(a, b Sample) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return &Index{
		root:    src.Root(),
		samples: samples,
		classes: labels.Classes(),
		stats:   stats,
	}, nil
}

// Root returns the sample root the index was built from.
func (x *Index) Root() string {
	return x.root
}

// Len returns the number of samples.
func (x *Index) Len() int {
	return len(x.samples)
}

// Sample returns the i-th sample in index order.
func (x *Index) Sample(i int) Sample {
	return x.samples[i]
}

// Samples returns a copy of the ordered samples.
func (x *Index) Samples() []Sample {
	return slices.Clone(x.samples)
}

// Classes returns the class names; Sample.Class indexes into it.
func (x *Index) Classes() []string {
	return slices.Clone(x.classes)
}

// Stats returns the matching statistics.
func (x *Index) Stats() IndexStats {
	return x.stats
}

// Shuffled returns a permuted copy of samples. The input is not modified.
func Shuffled(samples []Sample, rng *rand.Rand) []Sample {
	out := slices.Clone(samples)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
