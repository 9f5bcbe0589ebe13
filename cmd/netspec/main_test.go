package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"version"}, &out, &errOut))
	assert.Contains(t, out.String(), version)
}

func TestRunUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.ErrorIs(t, run(context.Background(), nil, &out, &errOut), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"serve"}, &out, &errOut), errUsage)
	assert.Contains(t, errOut.String(), "Commands:")
}

func TestRunDescribePreset(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"describe", "-preset", "lenet", "-batch-size", "4"}, &out, &errOut))
	assert.Contains(t, out.String(), "batch=4")
	assert.Contains(t, out.String(), "parameters=61706")
}

func TestRunDescribeBadConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"describe"}, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRunTrain(t *testing.T) {
	dir := t.TempDir()
	images := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(images, 0o755))

	labels := "id,label\n"
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		writeGray(t, filepath.Join(images, id+".png"), uint8(40*i))
		labels += fmt.Sprintf("%s,%s\n", id, []string{"cat", "dog"}[i%2])
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.csv"), []byte(labels), 0o644))

	cfg := fmt.Sprintf(`
network:
  batch_size: 2
  input: {channels: 1, height: 4, width: 4}
  layers:
    - {type: conv, out: 2, kernel: 3, padding: 1}
    - {type: activation, function: relu}
    - {type: fc, out: 2}
dataset:
  labels: %s
  root: %s
train:
  shuffle: true
  seed: 3
`, filepath.Join(dir, "labels.csv"), images)
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"train", "-config", cfgPath, "-epochs", "2", "-normalize-batches", "1"}, &out, &errOut)
	require.NoError(t, err, errOut.String())

	assert.Contains(t, out.String(), "epochs=2 batches=4 samples=8")
	assert.Contains(t, errOut.String(), "dataset indexed")
	assert.Contains(t, errOut.String(), "channel stats")
}

func TestRunTrainNeedsDataset(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"train", "-preset", "lenet"}, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "labels")
}

func writeGray(t *testing.T, path string, v uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = v + uint8(i)
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
