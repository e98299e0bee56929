// Package dataset provides the column-ordered in-memory table the aict
// commands move telescope event data around in. Columns are float64
// slices of equal length; matrices for the estimators are produced on
// demand as gonum dense matrices.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// Table holds named columns of equal length. Column order is preserved,
// which matters because estimators see features by position.
type Table struct {
	names []string
	cols  map[string][]float64
	nrows int
}

// New returns an empty table.
func New() *Table {
	return &Table{cols: make(map[string][]float64)}
}

// FromColumns builds a table from names and their column data. All
// columns must have the same length.
func FromColumns(names []string, cols map[string][]float64) (*Table, error) {
	t := New()
	for _, name := range names {
		data, ok := cols[name]
		if !ok {
			return nil, errors.Newf("dataset: no data for column %q", name)
		}
		if err := t.SetColumn(name, data); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.nrows
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the data of the named column. The slice is shared, not
// copied.
func (t *Table) Column(name string) ([]float64, error) {
	data, ok := t.cols[name]
	if !ok {
		return nil, errors.Newf("dataset: unknown column %q", name)
	}
	return data, nil
}

// SetColumn adds or replaces a column. The length must match the table's
// row count unless the table is still empty.
func (t *Table) SetColumn(name string, data []float64) error {
	if len(t.names) > 0 && len(data) != t.nrows {
		return errors.NewDimensionError("SetColumn", t.nrows, len(data), 0)
	}
	if _, exists := t.cols[name]; !exists {
		t.names = append(t.names, name)
	}
	t.cols[name] = data
	t.nrows = len(data)
	return nil
}

// Matrix assembles the named columns into a rows x len(names) dense
// matrix, in the given column order.
func (t *Table) Matrix(names []string) (*mat.Dense, error) {
	if t.nrows == 0 {
		return nil, errors.ErrEmptyData
	}
	m := mat.NewDense(t.nrows, len(names), nil)
	for j, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// Vector returns the named column as a gonum vector. The data is copied.
func (t *Table) Vector(name string) (*mat.VecDense, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	data := make([]float64, len(col))
	copy(data, col)
	return mat.NewVecDense(len(data), data), nil
}

// Select returns a new table containing the given rows, in the given
// order. Row indices must be valid.
func (t *Table) Select(rows []int) (*Table, error) {
	out := New()
	for _, name := range t.names {
		src := t.cols[name]
		data := make([]float64, len(rows))
		for i, r := range rows {
			if r < 0 || r >= t.nrows {
				return nil, errors.Newf("dataset: row index %d out of range [0, %d)", r, t.nrows)
			}
			data[i] = src[r]
		}
		if err := out.SetColumn(name, data); err != nil {
			return nil, err
		}
	}
	return out, nil
}
