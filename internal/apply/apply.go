// Package apply implements the chunked prediction drivers behind the
// apply commands: stream event windows, predict, write the results back
// into the event file at the matching row offsets. Rows with invalid
// feature values are never dropped; they keep NaN predictions so one bad
// row cannot abort a run.
package apply

import (
	"io"
	"math"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/internal/estimator"
	"github.com/jlzhang001/aict-tools/internal/features"
	"github.com/jlzhang001/aict-tools/internal/h5"
	"github.com/jlzhang001/aict-tools/internal/preprocessing"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// ChunkSource streams event windows. Implemented by h5.ChunkReader and
// by in-memory fakes in tests.
type ChunkSource interface {
	TotalRows() int
	NumChunks() int
	Next() (*dataset.Table, h5.Range, error)
}

// ColumnSink receives full-extent prediction columns and per-chunk range
// writes. Implemented by h5.ColumnSink.
type ColumnSink interface {
	EnsureColumn(name string, n int) error
	WriteRange(name string, offset int, values []float64) error
}

// Regression drives the chunked energy regression: per window, predict
// with every ensemble member on the valid rows, aggregate the member
// mean as the point estimate and the member spread as the uncertainty.
type Regression struct {
	Source     ChunkSource
	Sink       ColumnSink
	Ensemble   estimator.Ensemble
	Features   []string
	Generation *features.GenerationConfig

	// LogTarget marks a model trained on the log of the target; member
	// predictions are exponentiated before aggregation so mean and std
	// live in linear space.
	LogTarget bool

	// Name is the output column base, yielding <Name>_prediction and
	// <Name>_prediction_std.
	Name string

	Log      zerolog.Logger
	Progress bool
}

// Run processes every window. Prediction columns cover the full file
// from the first chunk on; rows not yet processed read as NaN.
func (r *Regression) Run() error {
	predName := r.Name + "_prediction"
	stdName := r.Name + "_prediction_std"
	total := r.Source.TotalRows()

	if err := r.Sink.EnsureColumn(predName, total); err != nil {
		return err
	}
	if err := r.Sink.EnsureColumn(stdName, total); err != nil {
		return err
	}

	bar := newBar(r.Progress, r.Source.NumChunks())

	for {
		tab, rng, err := r.Source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		prediction, std, err := r.predictChunk(tab)
		if err != nil {
			return errors.Wrapf(err, "predicting rows [%d, %d)", rng.Start, rng.End)
		}

		if err := r.Sink.WriteRange(predName, rng.Start, prediction); err != nil {
			return err
		}
		if err := r.Sink.WriteRange(stdName, rng.Start, std); err != nil {
			return err
		}

		r.Log.Debug().
			Int("start", rng.Start).
			Int("end", rng.End).
			Msg("chunk written")
		barAdd(bar)
	}
	return nil
}

func (r *Regression) predictChunk(tab *dataset.Table) (prediction, std []float64, err error) {
	if err := features.Generate(tab, r.Generation); err != nil {
		return nil, nil, err
	}
	if err := preprocessing.QuantizeFloat32(tab, r.Features); err != nil {
		return nil, nil, err
	}

	valid, nValid, err := preprocessing.ValidRows(tab, r.Features)
	if err != nil {
		return nil, nil, err
	}

	n := tab.Len()
	prediction = nanSlice(n)
	std = nanSlice(n)
	if nValid == 0 {
		return prediction, std, nil
	}

	validIdx := preprocessing.ValidIndices(valid)
	validTab, err := tab.Select(validIdx)
	if err != nil {
		return nil, nil, err
	}
	X, err := validTab.Matrix(r.Features)
	if err != nil {
		return nil, nil, err
	}

	// members x validRows member predictions, exponentiated up front for
	// log targets so the aggregates are linear-space.
	nMembers := r.Ensemble.NumMembers()
	memberPreds := make([][]float64, nMembers)
	for m := 0; m < nMembers; m++ {
		pred, err := r.Ensemble.PredictMember(m, X)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "ensemble member %d", m)
		}
		row := make([]float64, nValid)
		for i := 0; i < nValid; i++ {
			v := pred.At(i, 0)
			if r.LogTarget {
				v = math.Exp(v)
			}
			row[i] = v
		}
		memberPreds[m] = row
	}

	sample := make([]float64, nMembers)
	for i, rowIdx := range validIdx {
		for m := 0; m < nMembers; m++ {
			sample[m] = memberPreds[m][i]
		}
		prediction[rowIdx] = stat.Mean(sample, nil)
		std[rowIdx] = stat.PopStdDev(sample, nil)
	}
	return prediction, std, nil
}

// Separation drives the chunked signal/background classification,
// writing a single <Name>_prediction probability column.
type Separation struct {
	Source     ChunkSource
	Sink       ColumnSink
	Classifier estimator.Classifier
	Features   []string
	Generation *features.GenerationConfig
	Name       string

	Log      zerolog.Logger
	Progress bool
}

// Run processes every window.
func (s *Separation) Run() error {
	predName := s.Name + "_prediction"
	total := s.Source.TotalRows()

	if err := s.Sink.EnsureColumn(predName, total); err != nil {
		return err
	}

	bar := newBar(s.Progress, s.Source.NumChunks())

	for {
		tab, rng, err := s.Source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		prediction, err := s.predictChunk(tab)
		if err != nil {
			return errors.Wrapf(err, "predicting rows [%d, %d)", rng.Start, rng.End)
		}

		if err := s.Sink.WriteRange(predName, rng.Start, prediction); err != nil {
			return err
		}

		s.Log.Debug().
			Int("start", rng.Start).
			Int("end", rng.End).
			Msg("chunk written")
		barAdd(bar)
	}
	return nil
}

func (s *Separation) predictChunk(tab *dataset.Table) ([]float64, error) {
	if err := features.Generate(tab, s.Generation); err != nil {
		return nil, err
	}
	if err := preprocessing.QuantizeFloat32(tab, s.Features); err != nil {
		return nil, err
	}

	valid, nValid, err := preprocessing.ValidRows(tab, s.Features)
	if err != nil {
		return nil, err
	}

	prediction := nanSlice(tab.Len())
	if nValid == 0 {
		return prediction, nil
	}

	validIdx := preprocessing.ValidIndices(valid)
	validTab, err := tab.Select(validIdx)
	if err != nil {
		return nil, err
	}
	X, err := validTab.Matrix(s.Features)
	if err != nil {
		return nil, err
	}

	proba, err := s.Classifier.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i, rowIdx := range validIdx {
		prediction[rowIdx] = proba.At(i, 1)
	}
	return prediction, nil
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func newBar(enabled bool, chunks int) *progressbar.ProgressBar {
	if !enabled {
		return nil
	}
	return progressbar.Default(int64(chunks), "predicting")
}

func barAdd(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}
