// Package plotting renders the regressor performance figure from a
// cross-validation prediction table.
package plotting

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/scigo/metrics"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// maxPoints caps the scatter size so figures from large prediction
// tables stay readable and fast to render.
const maxPoints = 5000

// Performance renders a true-vs-predicted scatter with the identity line
// and the cross-validated R² summary, and saves it to path (format by
// extension, e.g. .png or .pdf).
func Performance(t *dataset.Table, path string) error {
	label, err := t.Column("label")
	if err != nil {
		return err
	}
	prediction, err := t.Column("label_prediction")
	if err != nil {
		return err
	}
	folds, err := t.Column("cv_fold")
	if err != nil {
		return err
	}
	if len(label) == 0 {
		return errors.ErrEmptyData
	}

	scores, err := foldScores(label, prediction, folds)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf(
		"cross validated R² = %.4f ± %.4f (%d folds)",
		stat.Mean(scores, nil), stat.PopStdDev(scores, nil), len(scores),
	)
	p.X.Label.Text = "true label"
	p.Y.Label.Text = "predicted label"

	pts := make(plotter.XYs, 0, min(len(label), maxPoints))
	step := 1
	if len(label) > maxPoints {
		step = len(label) / maxPoints
	}
	lo, hi := label[0], label[0]
	for i := 0; i < len(label); i += step {
		pts = append(pts, plotter.XY{X: label[i], Y: prediction[i]})
		lo = math.Min(lo, label[i])
		hi = math.Max(hi, label[i])
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "building scatter")
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)

	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "building identity line")
	}

	p.Add(plotter.NewGrid(), scatter, identity)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving figure %q", path)
	}
	return nil
}

// foldScores computes one R² per cv_fold value.
func foldScores(label, prediction, folds []float64) ([]float64, error) {
	byFold := map[float64][]int{}
	for i, f := range folds {
		byFold[f] = append(byFold[f], i)
	}

	keys := make([]float64, 0, len(byFold))
	for k := range byFold {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	scores := make([]float64, 0, len(keys))
	for _, k := range keys {
		idx := byFold[k]
		yTrue := mat.NewVecDense(len(idx), nil)
		yPred := mat.NewVecDense(len(idx), nil)
		for i, row := range idx {
			yTrue.SetVec(i, label[row])
			yPred.SetVec(i, prediction[row])
		}
		score, err := metrics.R2Score(yTrue, yPred)
		if err != nil {
			return nil, errors.Wrapf(err, "scoring fold %v", k)
		}
		scores = append(scores, score)
	}
	return scores, nil
}
