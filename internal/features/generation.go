// Package features implements the feature_generation block of the run
// configuration: derived columns computed from compiled expressions over
// existing columns, and the rule rejecting features that depend on the
// reconstructed source position.
package features

import (
	"math"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// GenerationConfig mirrors the feature_generation YAML block.
type GenerationConfig struct {
	// NeededKeys lists columns that have to be read from the input file
	// solely because the expressions reference them.
	NeededKeys []string `yaml:"needed_keys"`

	// Features maps a new column name to the expression computing it.
	Features map[string]string `yaml:"features"`
}

// Validate compiles every expression once, so a broken configuration
// fails before any data is touched.
func (c *GenerationConfig) Validate() error {
	for name, src := range c.Features {
		if _, err := expr.Compile(src); err != nil {
			return errors.Wrapf(err, "compiling feature %q", name)
		}
	}
	return nil
}

// FeatureNames returns the generated column names in sorted order, the
// order they are appended to the training variables.
func (c *GenerationConfig) FeatureNames() []string {
	names := make([]string, 0, len(c.Features))
	for name := range c.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mathEnv is merged into every row environment so expressions can use the
// usual numeric helpers.
var mathEnv = map[string]interface{}{
	"abs":   math.Abs,
	"sqrt":  math.Sqrt,
	"exp":   math.Exp,
	"log":   math.Log,
	"log10": math.Log10,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"pi":    math.Pi,
}

// Generate evaluates every configured expression row-wise against the
// table and adds the results as new columns. Expressions see all current
// table columns plus the math helpers.
func Generate(t *dataset.Table, cfg *GenerationConfig) error {
	if cfg == nil || len(cfg.Features) == 0 {
		return nil
	}

	programs := make(map[string]*vm.Program, len(cfg.Features))
	for name, src := range cfg.Features {
		p, err := expr.Compile(src)
		if err != nil {
			return errors.Wrapf(err, "compiling feature %q", name)
		}
		programs[name] = p
	}

	inputs := t.Columns()
	colData := make(map[string][]float64, len(inputs))
	for _, col := range inputs {
		data, err := t.Column(col)
		if err != nil {
			return err
		}
		colData[col] = data
	}

	env := make(map[string]interface{}, len(inputs)+len(mathEnv))
	for k, v := range mathEnv {
		env[k] = v
	}

	n := t.Len()
	for _, name := range cfg.FeatureNames() {
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			for _, col := range inputs {
				env[col] = colData[col][i]
			}
			res, err := expr.Run(programs[name], env)
			if err != nil {
				return errors.Wrapf(err, "evaluating feature %q on row %d", name, i)
			}
			v, err := toFloat(res)
			if err != nil {
				return errors.Wrapf(err, "feature %q on row %d", name, i)
			}
			out[i] = v
		}
		if err := t.SetColumn(name, out); err != nil {
			return err
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errors.Newf("expression result %v (%T) is not numeric", v, v)
	}
}
