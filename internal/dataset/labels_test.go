package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLabelsSkipsShortRow(t *testing.T) {
	idx, err := ReadLabels(strings.NewReader("id,label\na,cat\nb\nc,dog\n"), LabelOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 1, idx.Skipped())

	rows := idx.SkippedRows()
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Line)
	assert.ErrorIs(t, rows[0].Err, ErrFieldCount)

	label, ok := idx.Lookup("c")
	assert.True(t, ok)
	assert.Equal(t, "dog", label)
	_, ok = idx.Lookup("b")
	assert.False(t, ok)
}

func TestReadLabelsNamedColumns(t *testing.T) {
	src := "breed,extra,id\n" +
		"boston_bull,x,000bec\n" +
		"dingo,y,001513\n" +
		"dingo,z,00214f\n"
	idx, err := ReadLabels(strings.NewReader(src), LabelOptions{LabelColumn: "breed"})
	require.NoError(t, err)

	assert.Equal(t, []string{"000bec", "001513", "00214f"}, idx.IDs())
	assert.Equal(t, []string{"boston_bull", "dingo"}, idx.Classes())

	c, ok := idx.ClassOf("dingo")
	require.True(t, ok)
	assert.Equal(t, 1, c)
}

func TestReadLabelsRejectsBadRows(t *testing.T) {
	src := "id;label\n" +
		"a;1\n" +
		";2\n" +
		"b;\n" +
		"a;3\n" +
		"c;bad\"quote\n" +
		"d;4;extra\n" +
		"e;5\n"
	idx, err := ReadLabels(strings.NewReader(src), LabelOptions{Comma: ';'})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "e"}, idx.IDs())
	assert.Equal(t, 5, idx.Skipped())

	label, _ := idx.Lookup("a")
	assert.Equal(t, "1", label, "first row wins for duplicate ids")

	rows := idx.SkippedRows()
	assert.ErrorIs(t, rows[0].Err, ErrEmptyValue)
	assert.ErrorIs(t, rows[1].Err, ErrEmptyValue)
	assert.ErrorIs(t, rows[2].Err, ErrDuplicateID)
	assert.Equal(t, 6, rows[3].Line)
	assert.ErrorIs(t, rows[4].Err, ErrFieldCount)
}

func TestReadLabelsHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"no id column", "name,label\na,b\n"},
		{"no label column", "id,breed\na,b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLabels(strings.NewReader(tt.src), LabelOptions{})
			assert.ErrorIs(t, err, ErrLabelSourceUnreadable)
		})
	}
}

func TestLoadLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.csv")
	writeFile(t, path, "\ufeffid,label\nx,1\ny,2\n")

	idx, err := LoadLabels(path, LabelOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, path, idx.Source())

	_, err = LoadLabels(filepath.Join(dir, "missing.csv"), LabelOptions{})
	assert.ErrorIs(t, err, ErrLabelSourceUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestReadLabelsHeaderOnly(t *testing.T) {
	idx, err := ReadLabels(strings.NewReader("id,label\n"), LabelOptions{})
	require.NoError(t, err)
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Classes())
}
