package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/poisson/internal/gradopt"
	"github.com/san-kum/poisson/internal/sources"
	"github.com/san-kum/poisson/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	g := sources.Gaussian([]int{12, 10}, 1, 0.3)

	for _, name := range []string{"u.png", "u.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveImage(g, path, "gaussian"))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestSaveImageLineAndCube(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveImage(sources.Uniform([]int{8}, 2), filepath.Join(dir, "line.png"), "line"))
	require.NoError(t, SaveImage(sources.Point([]int{4, 5, 6}, 1), filepath.Join(dir, "cube.svg"), "cube"))
}

func TestSaveImageRejects(t *testing.T) {
	dir := t.TempDir()
	err := SaveImage(sources.Zero([]int{4, 4}), filepath.Join(dir, "u.bmp"), "")
	assert.True(t, errors.Is(err, ErrFormat))

	err = SaveImage(sources.Zero([]int{1, 4}), filepath.Join(dir, "thin.png"), "")
	assert.Error(t, err)
}

func TestSaveConvergence(t *testing.T) {
	dir := t.TempDir()
	history := []gradopt.Iteration{{N: 1, FMin: 10}, {N: 2, FMin: 1}, {N: 3, FMin: 0.1}}

	require.NoError(t, SaveConvergence(history, filepath.Join(dir, "conv.svg"), "run"))
	assert.Error(t, SaveConvergence(nil, filepath.Join(dir, "empty.svg"), "run"))
}

func TestExportJSON(t *testing.T) {
	g := sources.Uniform([]int{2, 3}, 4)
	meta := &storage.RunMetadata{ID: "uniform_1", Shape: []int{2, 3}}

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, g))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "uniform_1", got.Run.ID)
	assert.Equal(t, []int{2, 3}, got.Shape)
	assert.Equal(t, []float64{4, 4, 4, 4, 4, 4}, got.Values)
}
