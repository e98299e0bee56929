// Package train implements the cross-validated training pipeline: k-fold
// out-of-fold predictions for evaluation, then a final fit on the full
// dataset. Fold splitting and scoring are delegated to the scigo library.
package train

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/scigo/metrics"
	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/jlzhang001/aict-tools/internal/config"
	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/internal/estimator"
	"github.com/jlzhang001/aict-tools/internal/features"
	"github.com/jlzhang001/aict-tools/internal/preprocessing"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// Options configures a training run.
type Options struct {
	Config *config.Config

	// Table holds the loaded columns: training variables, feature
	// generation inputs and the target.
	Table *dataset.Table

	// NewEstimator returns a fresh unfitted estimator. One is built per
	// fold and one more for the final full fit.
	NewEstimator func() (estimator.Regressor, error)

	Log      zerolog.Logger
	Progress bool
}

// Result carries everything the training command persists and reports.
type Result struct {
	// Predictions is the out-of-fold evaluation table with columns
	// label, label_prediction and cv_fold.
	Predictions *dataset.Table

	// Scores holds one R² per fold.
	Scores []float64

	// Model is the estimator refitted on the full dataset.
	Model estimator.Regressor

	// FeatureNames is the feature column order the model was fitted
	// with.
	FeatureNames []string

	// NumRows is the number of rows that survived invalid-value
	// dropping (and the optional subsample).
	NumRows int
}

// ScoreMean returns the mean R² across folds.
func (r *Result) ScoreMean() float64 {
	return stat.Mean(r.Scores, nil)
}

// ScoreStd returns the spread of the per-fold R² scores.
func (r *Result) ScoreStd() float64 {
	return stat.PopStdDev(r.Scores, nil)
}

// Run executes feature generation, invalid-row dropping, k-fold cross
// validation and the final full fit.
func Run(opts Options) (*Result, error) {
	cfg := opts.Config

	if used := features.FindSourceFeatures(cfg.TrainingVariables, cfg.FeatureGeneration); len(used) > 0 {
		return nil, errors.NewSourceFeatureError(used)
	}

	tab := opts.Table
	if err := features.Generate(tab, cfg.FeatureGeneration); err != nil {
		return nil, err
	}

	featureNames := cfg.AllFeatures()
	if err := preprocessing.QuantizeFloat32(tab, featureNames); err != nil {
		return nil, err
	}

	valid, nValid, err := preprocessing.ValidRows(tab, featureNames)
	if err != nil {
		return nil, err
	}
	if nValid == 0 {
		return nil, errors.ErrEmptyData
	}
	kept := preprocessing.ValidIndices(valid)
	opts.Log.Info().
		Int("total", tab.Len()).
		Int("kept", len(kept)).
		Msg("events after dropping invalid rows")

	if cfg.NSignal > 0 && cfg.NSignal < len(kept) {
		rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
		rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })
		kept = kept[:cfg.NSignal]
		opts.Log.Info().Int("n_signal", cfg.NSignal).Msg("subsampled signal events")
	}

	trainTab, err := tab.Select(kept)
	if err != nil {
		return nil, err
	}
	X, err := trainTab.Matrix(featureNames)
	if err != nil {
		return nil, err
	}

	target, err := trainTab.Column(cfg.TargetName)
	if err != nil {
		return nil, errors.Wrapf(err, "target column %q", cfg.TargetName)
	}
	n := len(target)
	y := mat.NewDense(n, 1, nil)
	for i, v := range target {
		if cfg.LogTarget {
			v = math.Log(v)
		}
		y.Set(i, 0, v)
	}

	opts.Log.Info().
		Int("folds", cfg.NCrossValidations).
		Int("events", n).
		Msg("starting cross validation")

	folds := lightgbm.NewKFold(cfg.NCrossValidations, true, int(cfg.Seed)).Split(X, y)

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(len(folds)), "cross validation")
	}

	result := &Result{FeatureNames: featureNames, NumRows: n}
	var labels, labelPredictions, cvFolds []float64

	for fold, split := range folds {
		est, err := opts.NewEstimator()
		if err != nil {
			return nil, err
		}

		if err := est.Fit(rowsOf(X, split.TrainIndices), rowsOf(y, split.TrainIndices)); err != nil {
			return nil, errors.Wrapf(err, "fitting fold %d", fold)
		}

		Xtest := rowsOf(X, split.TestIndices)
		pred, err := est.Predict(Xtest)
		if err != nil {
			return nil, errors.Wrapf(err, "predicting fold %d", fold)
		}

		nTest := len(split.TestIndices)
		yTrue := mat.NewVecDense(nTest, nil)
		yPred := mat.NewVecDense(nTest, nil)
		for i, idx := range split.TestIndices {
			truth := y.At(idx, 0)
			p := pred.At(i, 0)
			if cfg.LogTarget {
				truth = math.Exp(truth)
				p = math.Exp(p)
			}
			yTrue.SetVec(i, truth)
			yPred.SetVec(i, p)

			labels = append(labels, truth)
			labelPredictions = append(labelPredictions, p)
			cvFolds = append(cvFolds, float64(fold))
		}

		score, err := metrics.R2Score(yTrue, yPred)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring fold %d", fold)
		}
		result.Scores = append(result.Scores, score)

		opts.Log.Debug().Int("fold", fold).Float64("r2", score).Msg("fold done")
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	predictions, err := dataset.FromColumns(
		[]string{"label", "label_prediction", "cv_fold"},
		map[string][]float64{
			"label":            labels,
			"label_prediction": labelPredictions,
			"cv_fold":          cvFolds,
		},
	)
	if err != nil {
		return nil, err
	}
	result.Predictions = predictions

	opts.Log.Info().
		Float64("mean", result.ScoreMean()).
		Float64("std", result.ScoreStd()).
		Msg("cross validated R² score")

	opts.Log.Info().Msg("building model on the complete dataset")
	final, err := opts.NewEstimator()
	if err != nil {
		return nil, err
	}
	if err := final.Fit(X, y); err != nil {
		return nil, errors.Wrap(err, "fitting final model")
	}
	result.Model = final

	return result, nil
}

// rowsOf gathers the given rows of m into a fresh dense matrix.
func rowsOf(m *mat.Dense, idx []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		out.SetRow(i, mat.Row(nil, r, m))
	}
	return out
}
