package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
seed: 42
training_variables:
  - size
  - width
  - length
log_target: true
n_signal: 10000
regressor:
  type: random_forest
  n_estimators: 50
  max_depth: 12
  n_jobs: -1
feature_generation:
  needed_keys:
    - width
    - length
  features:
    area: width * length * pi
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"size", "width", "length"}, cfg.TrainingVariables)
	assert.True(t, cfg.LogTarget)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 10000, cfg.NSignal)

	require.NotNil(t, cfg.Regressor)
	assert.Equal(t, "random_forest", cfg.Regressor.Type)
	assert.Equal(t, 50, cfg.Regressor.NEstimators)
	assert.Equal(t, 12, cfg.Regressor.MaxDepth)

	// defaults
	assert.Equal(t, DefaultTargetName, cfg.TargetName)
	assert.Equal(t, DefaultEventsKey, cfg.TelescopeEventsKey)
	assert.Equal(t, 5, cfg.NCrossValidations)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
training_variables: [size]
n_corss_validations: 10
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsEmptyTrainingVariables(t *testing.T) {
	path := writeConfig(t, `
target_name: energy
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBrokenFeatureExpression(t *testing.T) {
	path := writeConfig(t, `
training_variables: [size]
feature_generation:
  needed_keys: [size]
  features:
    broken: size +* 2
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestColumnsToRead(t *testing.T) {
	path := writeConfig(t, `
training_variables: [size, width]
target_name: energy
feature_generation:
  needed_keys: [width, length]
  features:
    area: width * length
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// width appears in both lists and is read once; generated feature
	// names are computed, not read.
	assert.Equal(t, []string{"size", "width", "length", "energy"}, cfg.ColumnsToRead(true))
	assert.Equal(t, []string{"size", "width", "length"}, cfg.ColumnsToRead(false))
}

func TestAllFeatures(t *testing.T) {
	path := writeConfig(t, `
training_variables: [size, width]
feature_generation:
  needed_keys: [width]
  features:
    b_feature: width * 2
    a_feature: width + 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"size", "width", "a_feature", "b_feature"}, cfg.AllFeatures())
}

func TestClassNameOr(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "gamma", cfg.ClassNameOr(DefaultClassName))
	assert.Equal(t, "gamma_energy", cfg.ClassNameOr(DefaultEnergyClassName))

	cfg.ClassName = "proton"
	assert.Equal(t, "proton", cfg.ClassNameOr(DefaultClassName))
}
