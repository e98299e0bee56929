package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlzhang001/aict-tools/internal/dataset"
)

func predictionTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	label := make([]float64, n)
	prediction := make([]float64, n)
	fold := make([]float64, n)
	for i := range label {
		label[i] = float64(i)
		prediction[i] = float64(i)
		fold[i] = float64(i % 2)
	}
	tab, err := dataset.FromColumns(
		[]string{"label", "label_prediction", "cv_fold"},
		map[string][]float64{
			"label":            label,
			"label_prediction": prediction,
			"cv_fold":          fold,
		},
	)
	require.NoError(t, err)
	return tab
}

func TestFoldScoresPerfectPrediction(t *testing.T) {
	label := []float64{1, 2, 3, 4, 5, 6}
	folds := []float64{0, 0, 0, 1, 1, 1}

	scores, err := foldScores(label, label, folds)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.InDelta(t, 1.0, s, 1e-12)
	}
}

func TestPerformanceWritesFigure(t *testing.T) {
	tab := predictionTable(t, 40)
	path := filepath.Join(t.TempDir(), "performance.png")

	require.NoError(t, Performance(tab, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPerformanceMissingColumn(t *testing.T) {
	tab, err := dataset.FromColumns([]string{"label"}, map[string][]float64{
		"label": {1, 2, 3},
	})
	require.NoError(t, err)

	err = Performance(tab, filepath.Join(t.TempDir(), "out.png"))
	assert.Error(t, err)
}
