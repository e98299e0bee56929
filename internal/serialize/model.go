// Package serialize persists trained models as gob bundles, the way the
// training commands hand models to the apply commands. A bundle carries
// the fitted estimator together with the ordered feature-name list it was
// trained with, so prediction-time column ordering always matches.
package serialize

import (
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jlzhang001/aict-tools/internal/estimator"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

func init() {
	// Concrete estimator types carried behind the interface fields.
	gob.Register(&estimator.BaggedRegressor{})
	gob.Register(&estimator.GradientBoosting{})
	gob.Register(&estimator.BaggedClassifier{})

	// Value types that may appear in the scigo model parameter maps.
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
	gob.Register("")
	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(0.0)
	gob.Register(false)
}

// Bundle is the persisted model artifact. Exactly one of Regressor and
// Classifier is set.
type Bundle struct {
	Regressor  estimator.Regressor
	Classifier estimator.Classifier

	// FeatureNames is the feature column order used at training time.
	FeatureNames []string

	// LabelText describes the predicted quantity, e.g. "estimated_energy".
	LabelText string

	// LogTarget records whether the regression target was log-transformed.
	LogTarget bool

	// Seed is the run seed the model was trained with.
	Seed int64
}

// metadata is the JSON export written alongside the gob bundle for
// .json model paths.
type metadata struct {
	FeatureNames  []string        `json:"feature_names"`
	LabelText     string          `json:"label_text"`
	LogTarget     bool            `json:"log_target"`
	Seed          int64           `json:"seed"`
	EstimatorKind string          `json:"estimator_kind"`
	EstimatorSpec *estimator.Spec `json:"estimator_spec,omitempty"`
}

// Save writes the bundle to path. A ".gob" path gets the gob bundle
// only; a ".json" path gets JSON metadata at the given path plus the gob
// bundle next to it, mirroring the original tool's dual-format export.
func Save(b *Bundle, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := saveMetadata(b, path); err != nil {
			return err
		}
		return saveGob(b, gobSibling(path))
	default:
		return saveGob(b, path)
	}
}

// Load reads a bundle. For a ".json" path the gob bundle next to it is
// loaded; the JSON metadata alone cannot reconstruct an estimator.
func Load(path string) (*Bundle, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		path = gobSibling(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening model %q", path)
	}
	defer f.Close()

	b := &Bundle{}
	if err := gob.NewDecoder(f).Decode(b); err != nil {
		return nil, errors.Wrapf(err, "decoding model %q", path)
	}
	if b.Regressor == nil && b.Classifier == nil {
		return nil, errors.Newf("model %q contains no estimator", path)
	}
	return b, nil
}

func saveGob(b *Bundle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating model file %q", path)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(b); err != nil {
		return errors.Wrapf(err, "encoding model to %q", path)
	}
	return nil
}

func saveMetadata(b *Bundle, path string) error {
	meta := metadata{
		FeatureNames: b.FeatureNames,
		LabelText:    b.LabelText,
		LogTarget:    b.LogTarget,
		Seed:         b.Seed,
	}
	var est interface{}
	if b.Regressor != nil {
		est = b.Regressor
	} else if b.Classifier != nil {
		est = b.Classifier
	}
	switch e := est.(type) {
	case *estimator.BaggedRegressor:
		meta.EstimatorKind = "random_forest"
		meta.EstimatorSpec = &e.Spec
	case *estimator.GradientBoosting:
		meta.EstimatorKind = "gradient_boosting"
		meta.EstimatorSpec = &e.Spec
	case *estimator.BaggedClassifier:
		meta.EstimatorKind = "random_forest"
		meta.EstimatorSpec = &e.Spec
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling model metadata")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing model metadata %q", path)
	}
	return nil
}

func gobSibling(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".gob"
}
