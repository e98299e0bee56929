package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	tab, err := FromColumns(
		[]string{"size", "width"},
		map[string][]float64{
			"size":  {1.5, math.NaN(), 1e-12},
			"width": {-3, 0, 2.25},
		},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tab.WriteCSV(&buf))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.Equal(t, tab.Columns(), got.Columns())
	assert.Equal(t, tab.Len(), got.Len())

	size, err := got.Column("size")
	require.NoError(t, err)
	assert.Equal(t, 1.5, size[0])
	assert.True(t, math.IsNaN(size[1]))
	assert.Equal(t, 1e-12, size[2])
}

func TestReadCSVEmptyBody(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"a", "b"}, got.Columns())
}

func TestReadCSVBadField(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a\nnot-a-number\n"))
	assert.Error(t, err)
}
