// Package preprocessing prepares event columns for the estimators:
// float32 quantization to match the precision models are trained at, and
// validity masks over rows containing NaN or infinite feature values.
package preprocessing

import (
	"math"

	"github.com/jlzhang001/aict-tools/internal/dataset"
)

// QuantizeFloat32 rounds the named columns through float32 precision in
// place. Values outside the float32 range become infinite and are caught
// by the validity mask afterwards.
func QuantizeFloat32(t *dataset.Table, names []string) error {
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		for i, v := range col {
			col[i] = float64(float32(v))
		}
	}
	return nil
}

// ValidRows returns a mask marking the rows whose values are finite in
// every one of the named columns, together with the number of valid rows.
func ValidRows(t *dataset.Table, names []string) ([]bool, int, error) {
	valid := make([]bool, t.Len())
	for i := range valid {
		valid[i] = true
	}

	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, 0, err
		}
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				valid[i] = false
			}
		}
	}

	n := 0
	for _, ok := range valid {
		if ok {
			n++
		}
	}
	return valid, n, nil
}

// ValidIndices returns the indices of the rows marked valid in the mask.
func ValidIndices(valid []bool) []int {
	idx := make([]int, 0, len(valid))
	for i, ok := range valid {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}
