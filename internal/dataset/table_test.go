package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromColumnsKeepsOrder(t *testing.T) {
	tab, err := FromColumns(
		[]string{"size", "width", "length"},
		map[string][]float64{
			"size":   {1, 2},
			"width":  {3, 4},
			"length": {5, 6},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, tab.Len())
	assert.Equal(t, []string{"size", "width", "length"}, tab.Columns())
}

func TestFromColumnsMissingData(t *testing.T) {
	_, err := FromColumns([]string{"size"}, map[string][]float64{})
	assert.Error(t, err)
}

func TestSetColumnLengthMismatch(t *testing.T) {
	tab := New()
	require.NoError(t, tab.SetColumn("a", []float64{1, 2, 3}))

	err := tab.SetColumn("b", []float64{1})
	assert.Error(t, err)
}

func TestSetColumnReplace(t *testing.T) {
	tab := New()
	require.NoError(t, tab.SetColumn("a", []float64{1, 2}))
	require.NoError(t, tab.SetColumn("a", []float64{3, 4}))

	assert.Equal(t, []string{"a"}, tab.Columns())
	col, err := tab.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, col)
}

func TestMatrixColumnOrder(t *testing.T) {
	tab, err := FromColumns(
		[]string{"a", "b"},
		map[string][]float64{"a": {1, 2}, "b": {3, 4}},
	)
	require.NoError(t, err)

	m, err := tab.Matrix([]string{"b", "a"})
	require.NoError(t, err)

	want := mat.NewDense(2, 2, []float64{3, 1, 4, 2})
	assert.True(t, mat.Equal(want, m))
}

func TestMatrixUnknownColumn(t *testing.T) {
	tab, err := FromColumns([]string{"a"}, map[string][]float64{"a": {1}})
	require.NoError(t, err)

	_, err = tab.Matrix([]string{"nope"})
	assert.Error(t, err)
}

func TestVectorCopies(t *testing.T) {
	tab, err := FromColumns([]string{"a"}, map[string][]float64{"a": {1, 2}})
	require.NoError(t, err)

	v, err := tab.Vector("a")
	require.NoError(t, err)
	v.SetVec(0, 99)

	col, err := tab.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, col)
}

func TestSelect(t *testing.T) {
	tab, err := FromColumns(
		[]string{"a", "b"},
		map[string][]float64{"a": {10, 20, 30}, "b": {1, 2, 3}},
	)
	require.NoError(t, err)

	sub, err := tab.Select([]int{2, 0})
	require.NoError(t, err)

	a, err := sub.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 10}, a)

	b, err := sub.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, b)
}

func TestSelectOutOfRange(t *testing.T) {
	tab, err := FromColumns([]string{"a"}, map[string][]float64{"a": {1, 2}})
	require.NoError(t, err)

	_, err = tab.Select([]int{5})
	assert.Error(t, err)
}
