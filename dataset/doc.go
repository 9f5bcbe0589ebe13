// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset loads labeled image datasets and serves them as
// fixed-size batches.
//
// # Overview
//
// A dataset is a label file (CSV with a header row naming an identifier and
// a label column) plus a directory of image files named by identifier:
//
//	labels.csv        data/
//	  id,label          cat_001.png
//	  cat_001,cat       dog_007.jpg
//	  dog_007,dog       ...
//
// Only identifiers present in both places are used. Malformed label rows are
// skipped and recorded, never fatal.
//
// # Basic Usage
//
//	labels, err := dataset.LoadLabels("labels.csv", dataset.LabelOptions{})
//	src := dataset.NewDirSource("data", nil)
//	index, err := dataset.BuildIndex(ctx, labels, src)
//
//	shape := topology.Shape{3, 227, 227}
//	dec, _ := dataset.NewImageDecoder(src, shape)
//	it, err := dataset.NewIterator(index, dataset.IteratorOptions{
//	    BatchSize: 16,
//	    Shape:     shape,
//	    Decoder:   dec,
//	})
//	for batch, err := range it.All(ctx) {
//	    // batch.Features has batch.Size*C*H*W values, batch.Labels has batch.Size
//	}
//
// # Failures
//
// A sample that cannot be decoded is dropped from its batch and reported in
// Batch.Failures; the surviving samples keep their labels. A batch left with
// no samples is skipped. Losing the dataset root or the label file mid-run is
// fatal (ErrDatasetUnavailable, ErrLabelSourceUnreadable).
//
// The trailing samples that do not fill a whole batch are not served.
package dataset
