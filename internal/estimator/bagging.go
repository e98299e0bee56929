package estimator

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"

	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// Defaults for ensemble construction when the spec leaves them unset.
const (
	defaultNEstimators        = 100
	defaultMemberIterations   = 10
	defaultBoostingIterations = 100
)

// BaggedRegressor is an ensemble of scigo gradient-boosted regressors,
// each fitted on a bootstrap resample of the training data. The ensemble
// prediction is the member mean; per-member predictions are exposed so
// callers can compute the spread.
//
// All fields are exported so a fitted ensemble gob-encodes into the model
// bundle.
type BaggedRegressor struct {
	Spec       Spec
	Seed       int64
	Models     []*lightgbm.Model
	NumThreads int
}

// NewBaggedRegressor returns an unfitted bagged ensemble.
func NewBaggedRegressor(spec Spec, seed int64) *BaggedRegressor {
	if spec.NEstimators <= 0 {
		spec.NEstimators = defaultNEstimators
	}
	if spec.NumIterations <= 0 {
		spec.NumIterations = defaultMemberIterations
	}
	return &BaggedRegressor{Spec: spec, Seed: seed, NumThreads: spec.NJobs}
}

// Fit trains NEstimators members, each on a bootstrap resample drawn with
// a PCG stream seeded from the run seed.
func (b *BaggedRegressor) Fit(X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()
	if yRows != rows {
		return errors.NewDimensionError("BaggedRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("BaggedRegressor.Fit", 1, yCols, 1)
	}
	if rows == 0 {
		return errors.ErrEmptyData
	}

	rng := rand.New(rand.NewPCG(uint64(b.Seed), uint64(b.Seed)))

	b.Models = make([]*lightgbm.Model, 0, b.Spec.NEstimators)
	for k := 0; k < b.Spec.NEstimators; k++ {
		Xb, yb := bootstrap(X, y, rng)

		base := newBaseRegressor(b.Spec, int(b.Seed)+k)
		if err := base.Fit(Xb, yb); err != nil {
			return errors.Wrapf(err, "fitting ensemble member %d", k)
		}
		b.Models = append(b.Models, base.Model)
	}
	return nil
}

// NumMembers returns the number of trained members.
func (b *BaggedRegressor) NumMembers() int {
	return len(b.Models)
}

// PredictMember runs the i-th member on X.
func (b *BaggedRegressor) PredictMember(i int, X mat.Matrix) (mat.Matrix, error) {
	if len(b.Models) == 0 {
		return nil, errors.NewNotFittedError("BaggedRegressor", "PredictMember")
	}
	if i < 0 || i >= len(b.Models) {
		return nil, errors.Newf("estimator: member index %d out of range [0, %d)", i, len(b.Models))
	}
	p := lightgbm.NewPredictor(b.Models[i])
	if b.NumThreads > 0 {
		p.SetNumThreads(b.NumThreads)
	}
	return p.Predict(X)
}

// Predict returns the member mean, the ensemble point estimate.
func (b *BaggedRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if len(b.Models) == 0 {
		return nil, errors.NewNotFittedError("BaggedRegressor", "Predict")
	}

	rows, _ := X.Dims()
	sum := make([]float64, rows)
	for i := range b.Models {
		pred, err := b.PredictMember(i, X)
		if err != nil {
			return nil, err
		}
		for r := 0; r < rows; r++ {
			sum[r] += pred.At(r, 0)
		}
	}
	for r := range sum {
		sum[r] /= float64(len(b.Models))
	}
	return mat.NewDense(rows, 1, sum), nil
}

// SetNumThreads overrides the per-member prediction thread hint.
func (b *BaggedRegressor) SetNumThreads(n int) {
	b.NumThreads = n
}

// BaggedClassifier mirrors BaggedRegressor for binary separation models:
// members are fitted on 0/1 targets and the signal probability is the
// clipped member mean, which is what a random forest's class probability
// amounts to.
type BaggedClassifier struct {
	Spec       Spec
	Seed       int64
	Models     []*lightgbm.Model
	NumThreads int
}

// NewBaggedClassifier returns an unfitted bagged classifier.
func NewBaggedClassifier(spec Spec, seed int64) *BaggedClassifier {
	if spec.NEstimators <= 0 {
		spec.NEstimators = defaultNEstimators
	}
	if spec.NumIterations <= 0 {
		spec.NumIterations = defaultMemberIterations
	}
	return &BaggedClassifier{Spec: spec, Seed: seed, NumThreads: spec.NJobs}
}

// Fit trains the members on bootstrap resamples. Targets must be 0 or 1.
func (b *BaggedClassifier) Fit(X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yRows, yCols := y.Dims()
	if yRows != rows {
		return errors.NewDimensionError("BaggedClassifier.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("BaggedClassifier.Fit", 1, yCols, 1)
	}
	for r := 0; r < rows; r++ {
		if v := y.At(r, 0); v != 0 && v != 1 {
			return errors.NewValidationError("target", "binary targets must be 0 or 1", v)
		}
	}

	rng := rand.New(rand.NewPCG(uint64(b.Seed), uint64(b.Seed)))

	b.Models = make([]*lightgbm.Model, 0, b.Spec.NEstimators)
	for k := 0; k < b.Spec.NEstimators; k++ {
		Xb, yb := bootstrap(X, y, rng)

		base := newBaseRegressor(b.Spec, int(b.Seed)+k)
		if err := base.Fit(Xb, yb); err != nil {
			return errors.Wrapf(err, "fitting ensemble member %d", k)
		}
		b.Models = append(b.Models, base.Model)
	}
	return nil
}

// PredictProba returns an n x 2 matrix of class probabilities, signal in
// column 1.
func (b *BaggedClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if len(b.Models) == 0 {
		return nil, errors.NewNotFittedError("BaggedClassifier", "PredictProba")
	}

	rows, _ := X.Dims()
	signal := make([]float64, rows)
	for _, m := range b.Models {
		p := lightgbm.NewPredictor(m)
		if b.NumThreads > 0 {
			p.SetNumThreads(b.NumThreads)
		}
		pred, err := p.Predict(X)
		if err != nil {
			return nil, err
		}
		for r := 0; r < rows; r++ {
			signal[r] += pred.At(r, 0)
		}
	}

	proba := mat.NewDense(rows, 2, nil)
	for r := 0; r < rows; r++ {
		p := signal[r] / float64(len(b.Models))
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		proba.Set(r, 0, 1-p)
		proba.Set(r, 1, p)
	}
	return proba, nil
}

// SetNumThreads overrides the per-member prediction thread hint.
func (b *BaggedClassifier) SetNumThreads(n int) {
	b.NumThreads = n
}

// GradientBoosting is a single scigo regressor behind the Regressor
// interface. It is valid for training and CV but has no independent
// members, so the regression apply path rejects it.
type GradientBoosting struct {
	Spec       Spec
	Seed       int64
	Model      *lightgbm.Model
	NumThreads int
}

// NewGradientBoosting returns an unfitted gradient boosting regressor.
func NewGradientBoosting(spec Spec, seed int64) *GradientBoosting {
	if spec.NumIterations <= 0 {
		spec.NumIterations = defaultBoostingIterations
	}
	return &GradientBoosting{Spec: spec, Seed: seed, NumThreads: spec.NJobs}
}

// Fit trains on the full data, no resampling.
func (g *GradientBoosting) Fit(X, y mat.Matrix) error {
	base := newBaseRegressor(g.Spec, int(g.Seed))
	if err := base.Fit(X, y); err != nil {
		return errors.Wrap(err, "fitting gradient boosting regressor")
	}
	g.Model = base.Model
	return nil
}

// Predict runs the boosted model on X.
func (g *GradientBoosting) Predict(X mat.Matrix) (mat.Matrix, error) {
	if g.Model == nil {
		return nil, errors.NewNotFittedError("GradientBoosting", "Predict")
	}
	p := lightgbm.NewPredictor(g.Model)
	if g.NumThreads > 0 {
		p.SetNumThreads(g.NumThreads)
	}
	return p.Predict(X)
}

// SetNumThreads overrides the prediction thread hint.
func (g *GradientBoosting) SetNumThreads(n int) {
	g.NumThreads = n
}

// newBaseRegressor builds one scigo base learner from the spec.
func newBaseRegressor(spec Spec, seed int) *lightgbm.LGBMRegressor {
	base := lightgbm.NewLGBMRegressor().
		WithNumIterations(spec.NumIterations).
		WithRandomState(seed).
		WithDeterministic(true)

	if spec.NumLeaves > 0 {
		base.NumLeaves = spec.NumLeaves
	}
	if spec.MaxDepth != 0 {
		base.MaxDepth = spec.MaxDepth
	}
	if spec.LearningRate > 0 {
		base.LearningRate = spec.LearningRate
	}
	if spec.MinChildSamples > 0 {
		base.MinChildSamples = spec.MinChildSamples
	}
	if spec.NJobs != 0 {
		base.NumThreads = spec.NJobs
	}
	return base
}

// bootstrap draws a with-replacement resample of the rows of X and y.
func bootstrap(X, y mat.Matrix, rng *rand.Rand) (*mat.Dense, *mat.Dense) {
	rows, cols := X.Dims()

	Xb := mat.NewDense(rows, cols, nil)
	yb := mat.NewDense(rows, 1, nil)
	for r := 0; r < rows; r++ {
		src := rng.IntN(rows)
		Xb.SetRow(r, mat.Row(nil, src, X))
		yb.Set(r, 0, y.At(src, 0))
	}
	return Xb, yb
}
