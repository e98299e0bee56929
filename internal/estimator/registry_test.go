package estimator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlzhang001/aict-tools/pkg/errors"
)

func TestNewRegressorKnownKeys(t *testing.T) {
	tests := []struct {
		key  string
		want interface{}
	}{
		{key: "random_forest", want: &BaggedRegressor{}},
		{key: "gradient_boosting", want: &GradientBoosting{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			reg, err := NewRegressor(&Spec{Type: tt.key}, 0)
			require.NoError(t, err)
			assert.IsType(t, tt.want, reg)
		})
	}
}

func TestNewRegressorUnknownKey(t *testing.T) {
	_, err := NewRegressor(&Spec{Type: "boosted_stump"}, 0)
	require.Error(t, err)

	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "gradient_boosting")
	assert.Contains(t, err.Error(), "random_forest")
}

func TestNewRegressorMissingSpec(t *testing.T) {
	_, err := NewRegressor(nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing regressor block")
}

func TestNewClassifier(t *testing.T) {
	cls, err := NewClassifier(&Spec{Type: "random_forest"}, 0)
	require.NoError(t, err)
	assert.IsType(t, &BaggedClassifier{}, cls)

	_, err = NewClassifier(&Spec{Type: "gradient_boosting"}, 0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown estimator"))
}

func TestEnsembleInterfaceSatisfaction(t *testing.T) {
	reg, err := NewRegressor(&Spec{Type: "random_forest"}, 0)
	require.NoError(t, err)

	_, isEnsemble := reg.(Ensemble)
	assert.True(t, isEnsemble, "random_forest must expose ensemble members")

	reg, err = NewRegressor(&Spec{Type: "gradient_boosting"}, 0)
	require.NoError(t, err)

	_, isEnsemble = reg.(Ensemble)
	assert.False(t, isEnsemble, "gradient_boosting has no independent members")
}

func TestSpecDefaults(t *testing.T) {
	b := NewBaggedRegressor(Spec{Type: "random_forest"}, 7)
	assert.Equal(t, defaultNEstimators, b.Spec.NEstimators)
	assert.Equal(t, defaultMemberIterations, b.Spec.NumIterations)

	b = NewBaggedRegressor(Spec{Type: "random_forest", NEstimators: 3, NumIterations: 5}, 7)
	assert.Equal(t, 3, b.Spec.NEstimators)
	assert.Equal(t, 5, b.Spec.NumIterations)
}

func TestUnfittedPredict(t *testing.T) {
	b := NewBaggedRegressor(Spec{Type: "random_forest"}, 0)
	_, err := b.Predict(nil)
	require.Error(t, err)

	var nfe *errors.NotFittedError
	assert.True(t, errors.As(err, &nfe))
}
