// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	"context"
	"io"

	"github.com/born-ml/netspec/internal/dataset"
	"github.com/born-ml/netspec/internal/topology"
)

// Labels

// LabelOptions selects the identifier and label columns of a label file.
type LabelOptions = dataset.LabelOptions

// LabelIndex maps sample identifiers to labels.
type LabelIndex = dataset.LabelIndex

// RowError records a skipped label row.
type RowError = dataset.RowError

// LoadLabels reads a CSV label file.
//
// Example:
//
//	labels, err := dataset.LoadLabels("labels.csv", dataset.LabelOptions{LabelColumn: "breed"})
func LoadLabels(path string, opts LabelOptions) (*LabelIndex, error) {
	return dataset.LoadLabels(path, opts)
}

// ReadLabels reads CSV labels from r.
func ReadLabels(r io.Reader, opts LabelOptions) (*LabelIndex, error) {
	return dataset.ReadLabels(r, opts)
}

// Sources and index

// Lister enumerates sample identifiers.
type Lister = dataset.Lister

// Locator resolves a sample identifier to a file path.
type Locator = dataset.Locator

// DirSource is a directory of image files named by identifier.
type DirSource = dataset.DirSource

// DefaultExtensions are the image extensions DirSource accepts by default.
var DefaultExtensions = dataset.DefaultExtensions

// NewDirSource creates a source rooted at root. A nil extension list uses
// DefaultExtensions.
func NewDirSource(root string, extensions []string) *DirSource {
	return dataset.NewDirSource(root, extensions)
}

// Sample is one labeled identifier.
type Sample = dataset.Sample

// Index is the ordered list of usable samples.
type Index = dataset.Index

// IndexStats counts matched and excluded identifiers.
type IndexStats = dataset.IndexStats

// BuildIndex intersects labels with the identifiers src lists.
func BuildIndex(ctx context.Context, labels *LabelIndex, src Lister) (*Index, error) {
	return dataset.BuildIndex(ctx, labels, src)
}

// Decoding

// Decoder turns an identifier into C*H*W float32 values.
type Decoder = dataset.Decoder

// DecoderFunc adapts a function to Decoder.
type DecoderFunc = dataset.DecoderFunc

// ImageDecoder decodes and resizes image files.
type ImageDecoder = dataset.ImageDecoder

// ChannelStat is a per-channel mean and standard deviation.
type ChannelStat = dataset.ChannelStat

// NewImageDecoder creates a decoder producing samples of shape.
func NewImageDecoder(locator Locator, shape topology.Shape) (*ImageDecoder, error) {
	return dataset.NewImageDecoder(locator, shape)
}

// Batching

// Batch is a set of decoded samples with their labels.
type Batch = dataset.Batch

// DecodeFailure records a sample dropped from a batch.
type DecodeFailure = dataset.DecodeFailure

// Iterator serves fixed-size batches from an Index.
type Iterator = dataset.Iterator

// IteratorOptions configures an Iterator.
type IteratorOptions = dataset.IteratorOptions

// EpochStats summarizes the batches served since the last restart.
type EpochStats = dataset.EpochStats

// NewIterator creates an iterator positioned at the start of the index.
func NewIterator(index *Index, opts IteratorOptions) (*Iterator, error) {
	return dataset.NewIterator(index, opts)
}

// EstimateChannelStats computes per-channel mean and standard deviation over
// at most maxBatches batches (all when maxBatches <= 0).
func EstimateChannelStats(ctx context.Context, it *Iterator, maxBatches int) ([]ChannelStat, error) {
	return dataset.EstimateChannelStats(ctx, it, maxBatches)
}

// Errors

// SourceError describes a failure to read a file or directory.
type SourceError = dataset.SourceError

// Errors.
var (
	ErrLabelSourceUnreadable = dataset.ErrLabelSourceUnreadable
	ErrEmptyDataset          = dataset.ErrEmptyDataset
	ErrDatasetUnavailable    = dataset.ErrDatasetUnavailable
	ErrOrderMismatch         = dataset.ErrOrderMismatch
	ErrFieldCount            = dataset.ErrFieldCount
	ErrEmptyValue            = dataset.ErrEmptyValue
	ErrDuplicateID           = dataset.ErrDuplicateID
	ErrSampleNotFound        = dataset.ErrSampleNotFound
	ErrShapeMismatch         = dataset.ErrShapeMismatch
)
