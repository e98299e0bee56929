package errors

import (
	"strings"
	"testing"
)

func TestSourceFeatureError(t *testing.T) {
	err := NewSourceFeatureError([]string{"theta", "distance"})

	var sfe *SourceFeatureError
	if !As(err, &sfe) {
		t.Fatalf("expected SourceFeatureError in chain, got %T", err)
	}
	if len(sfe.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(sfe.Features))
	}
	if !strings.Contains(err.Error(), "theta") {
		t.Errorf("error message should name the feature: %v", err)
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("error message should explain the restriction: %v", err)
	}
}

func TestColumnExistsError(t *testing.T) {
	err := NewColumnExistsError("gamma_energy_prediction", "events.hdf5")

	var cee *ColumnExistsError
	if !As(err, &cee) {
		t.Fatalf("expected ColumnExistsError in chain, got %T", err)
	}
	if cee.Column != "gamma_energy_prediction" {
		t.Errorf("unexpected column: %q", cee.Column)
	}
	if !strings.Contains(err.Error(), "events.hdf5") {
		t.Errorf("error message should name the file: %v", err)
	}
}

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("BaggedRegressor", "Predict")
	if !strings.Contains(err.Error(), "Call Fit() before using Predict()") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestDimensionError(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{name: "row axis", axis: 0, want: "rows"},
		{name: "feature axis", axis: 1, want: "features"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Predict", 10, 5, tt.axis)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected axis name %q in message: %v", tt.want, err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("regressor.type", "unknown estimator", "boosted_stump")

	var ve *ValidationError
	if !As(err, &ve) {
		t.Fatalf("expected ValidationError in chain, got %T", err)
	}
	if ve.Value != "boosted_stump" {
		t.Errorf("unexpected value: %v", ve.Value)
	}
}

func TestWrapPreservesType(t *testing.T) {
	inner := NewColumnExistsError("x_prediction", "a.hdf5")
	wrapped := Wrap(inner, "applying model")

	var cee *ColumnExistsError
	if !As(wrapped, &cee) {
		t.Fatalf("wrapping should preserve the typed error")
	}
}
