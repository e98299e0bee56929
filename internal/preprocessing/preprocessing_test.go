package preprocessing

import (
	"math"
	"testing"

	"github.com/jlzhang001/aict-tools/internal/dataset"
)

func TestQuantizeFloat32(t *testing.T) {
	tab, err := dataset.FromColumns([]string{"x"}, map[string][]float64{
		"x": {1.0 / 3.0, 1e300, -1e300, 2.0},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := QuantizeFloat32(tab, []string{"x"}); err != nil {
		t.Fatal(err)
	}

	col, _ := tab.Column("x")
	if col[0] != float64(float32(1.0/3.0)) {
		t.Errorf("expected float32 precision, got %v", col[0])
	}
	if !math.IsInf(col[1], 1) || !math.IsInf(col[2], -1) {
		t.Errorf("float32 overflow should become infinite, got %v, %v", col[1], col[2])
	}
	if col[3] != 2.0 {
		t.Errorf("exactly representable value changed: %v", col[3])
	}
}

func TestValidRows(t *testing.T) {
	tab, err := dataset.FromColumns([]string{"a", "b"}, map[string][]float64{
		"a": {1, math.NaN(), 3, 4, 5},
		"b": {1, 2, math.Inf(1), 4, 5},
	})
	if err != nil {
		t.Fatal(err)
	}

	valid, n, err := ValidRows(tab, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}

	want := []bool{true, false, false, true, true}
	for i := range want {
		if valid[i] != want[i] {
			t.Errorf("valid[%d] = %v, want %v", i, valid[i], want[i])
		}
	}
	if n != 3 {
		t.Errorf("valid count = %d, want 3", n)
	}

	idx := ValidIndices(valid)
	wantIdx := []int{0, 3, 4}
	if len(idx) != len(wantIdx) {
		t.Fatalf("ValidIndices() = %v, want %v", idx, wantIdx)
	}
	for i := range wantIdx {
		if idx[i] != wantIdx[i] {
			t.Fatalf("ValidIndices() = %v, want %v", idx, wantIdx)
		}
	}
}

func TestValidRowsIgnoresUnlistedColumns(t *testing.T) {
	tab, err := dataset.FromColumns([]string{"a", "junk"}, map[string][]float64{
		"a":    {1, 2},
		"junk": {math.NaN(), math.NaN()},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, n, err := ValidRows(tab, []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("valid count = %d, want 2", n)
	}
}
