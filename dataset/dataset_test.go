// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/netspec/dataset"
	"github.com/born-ml/netspec/topology"
)

// TestPipelineFacade builds an index over a directory and iterates it with
// a synthetic decoder.
func TestPipelineFacade(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.jpg", "d.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	labels, err := dataset.ReadLabels(strings.NewReader("id,label\na,x\nb,y\nc,x\nd,y\ne,x\n"), dataset.LabelOptions{})
	require.NoError(t, err)

	index, err := dataset.BuildIndex(context.Background(), labels, dataset.NewDirSource(root, nil))
	require.NoError(t, err)
	assert.Equal(t, 4, index.Len())
	assert.Equal(t, 1, index.Stats().LabelOnly)

	shape := topology.Shape{1, 1, 2}
	dec := dataset.DecoderFunc(func(_ context.Context, id string) ([]float32, error) {
		return []float32{float32(id[0]), 0}, nil
	})
	it, err := dataset.NewIterator(index, dataset.IteratorOptions{BatchSize: 2, Shape: shape, Decoder: dec})
	require.NoError(t, err)

	var ids []string
	for batch, err := range it.All(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1, 1, 2}, batch.Shape)
		ids = append(ids, batch.IDs...)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestBuildIndexEmptyFacade(t *testing.T) {
	labels, err := dataset.ReadLabels(strings.NewReader("id,label\nz,x\n"), dataset.LabelOptions{})
	require.NoError(t, err)

	_, err = dataset.BuildIndex(context.Background(), labels, dataset.NewDirSource(t.TempDir(), nil))
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
}
