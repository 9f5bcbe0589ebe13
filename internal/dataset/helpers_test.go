package dataset

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func mustLabels(t *testing.T, csv string) *LabelIndex {
	t.Helper()
	idx, err := ReadLabels(strings.NewReader(csv), LabelOptions{})
	require.NoError(t, err)
	return idx
}

// staticLister lists a fixed set of identifiers.
type staticLister []string

func (s staticLister) Root() string { return "/static" }

func (s staticLister) ListIdentifiers(context.Context) ([]string, error) {
	return s, nil
}
