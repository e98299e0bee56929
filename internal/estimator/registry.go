package estimator

import (
	"sort"
	"strings"

	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// The registries map configuration keys to constructors. Estimators are
// never built from evaluated configuration strings; an unknown key is a
// validation error naming the supported keys.

var regressorRegistry = map[string]func(Spec, int64) (Regressor, error){
	"random_forest": func(spec Spec, seed int64) (Regressor, error) {
		return NewBaggedRegressor(spec, seed), nil
	},
	"gradient_boosting": func(spec Spec, seed int64) (Regressor, error) {
		return NewGradientBoosting(spec, seed), nil
	},
}

var classifierRegistry = map[string]func(Spec, int64) (Classifier, error){
	"random_forest": func(spec Spec, seed int64) (Classifier, error) {
		return NewBaggedClassifier(spec, seed), nil
	},
}

// NewRegressor resolves the regressor spec against the registry.
func NewRegressor(spec *Spec, seed int64) (Regressor, error) {
	if spec == nil {
		return nil, errors.NewValidationError("regressor", "missing regressor block", nil)
	}
	build, ok := regressorRegistry[spec.Type]
	if !ok {
		return nil, errors.NewValidationError(
			"regressor.type",
			"unknown estimator, known: "+strings.Join(registeredKeys(regressorRegistry), ", "),
			spec.Type,
		)
	}
	return build(*spec, seed)
}

// NewClassifier resolves the classifier spec against the registry.
func NewClassifier(spec *Spec, seed int64) (Classifier, error) {
	if spec == nil {
		return nil, errors.NewValidationError("classifier", "missing classifier block", nil)
	}
	build, ok := classifierRegistry[spec.Type]
	if !ok {
		return nil, errors.NewValidationError(
			"classifier.type",
			"unknown estimator, known: "+strings.Join(registeredKeys(classifierRegistry), ", "),
			spec.Type,
		)
	}
	return build(*spec, seed)
}

func registeredKeys[T any](registry map[string]T) []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
