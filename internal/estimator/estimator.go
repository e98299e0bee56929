// Package estimator provides the model layer of the aict tools: a
// registry resolving configuration keys to concrete estimator
// constructors, and bagged ensembles built from scigo gradient-boosted
// base learners. Tree fitting and prediction are delegated entirely to
// the scigo library; this package only orchestrates resampling and
// aggregation.
package estimator

import (
	"gonum.org/v1/gonum/mat"
)

// Regressor is the minimal fit/predict surface the training pipeline
// needs. Predictions are n x 1 matrices, matching the scigo convention.
type Regressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Ensemble is a regressor composed of independently trained members.
// The regression apply path requires per-member predictions so it can
// report the spread across members as an uncertainty estimate.
type Ensemble interface {
	Regressor

	// NumMembers returns the number of trained members.
	NumMembers() int

	// PredictMember runs the i-th member on X.
	PredictMember(i int, X mat.Matrix) (mat.Matrix, error)

	// SetNumThreads overrides the per-member prediction thread hint.
	SetNumThreads(n int)
}

// Classifier is a probability estimator for the separation models.
// PredictProba returns an n x 2 matrix of class probabilities with the
// signal class in column 1.
type Classifier interface {
	Fit(X, y mat.Matrix) error
	PredictProba(X mat.Matrix) (mat.Matrix, error)
	SetNumThreads(n int)
}

// Spec mirrors the regressor/classifier block of the YAML configuration.
// Zero values mean "use the estimator default".
type Spec struct {
	Type            string  `yaml:"type"`
	NEstimators     int     `yaml:"n_estimators"`
	NumLeaves       int     `yaml:"num_leaves"`
	MaxDepth        int     `yaml:"max_depth"`
	LearningRate    float64 `yaml:"learning_rate"`
	NumIterations   int     `yaml:"num_iterations"`
	MinChildSamples int     `yaml:"min_child_samples"`
	NJobs           int     `yaml:"n_jobs"`
}
