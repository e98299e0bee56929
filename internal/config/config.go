// Package config loads and validates the YAML run configuration shared by
// the aict commands.
package config

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jlzhang001/aict-tools/internal/estimator"
	"github.com/jlzhang001/aict-tools/internal/features"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// Defaults applied when the corresponding YAML key is absent. The class
// name default differs between the separation and regression commands,
// so it is resolved by the caller via ClassNameOr.
const (
	DefaultTargetName      = "corsika_event_header_total_energy"
	DefaultClassName       = "gamma"
	DefaultEnergyClassName = "gamma_energy"
	DefaultEventsKey       = "events"
)

// Config is the immutable per-invocation run configuration.
type Config struct {
	TrainingVariables []string `yaml:"training_variables"`
	TargetName        string   `yaml:"target_name"`
	LogTarget         bool     `yaml:"log_target"`
	ClassName         string   `yaml:"class_name"`

	Regressor  *estimator.Spec `yaml:"regressor"`
	Classifier *estimator.Spec `yaml:"classifier"`

	NCrossValidations int   `yaml:"n_cross_validations"`
	Seed              int64 `yaml:"seed"`
	NSignal           int   `yaml:"n_signal"`

	FeatureGeneration *features.GenerationConfig `yaml:"feature_generation"`

	// TelescopeEventsKey names the HDF5 group holding the event columns.
	TelescopeEventsKey string `yaml:"telescope_events_key"`
}

// Load reads, decodes and validates the configuration at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening configuration %q", path)
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing configuration %q", path)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TargetName == "" {
		c.TargetName = DefaultTargetName
	}
	if c.TelescopeEventsKey == "" {
		c.TelescopeEventsKey = DefaultEventsKey
	}
	if c.NCrossValidations == 0 {
		c.NCrossValidations = 5
	}
}

func (c *Config) validate() error {
	if len(c.TrainingVariables) == 0 {
		return errors.NewValidationError("training_variables", "must not be empty", c.TrainingVariables)
	}
	if c.NCrossValidations < 2 {
		return errors.NewValidationError("n_cross_validations", "must be at least 2", c.NCrossValidations)
	}
	if c.NSignal < 0 {
		return errors.NewValidationError("n_signal", "must not be negative", c.NSignal)
	}
	if c.FeatureGeneration != nil {
		if err := c.FeatureGeneration.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ClassNameOr returns the configured class name, or def when the YAML
// left it unset.
func (c *Config) ClassNameOr(def string) string {
	if c.ClassName == "" {
		return def
	}
	return c.ClassName
}

// ColumnsToRead resolves the set of columns a command has to load:
// the training variables, any keys needed for feature generation and,
// when withTarget is set, the training target. Order is preserved and
// duplicates are dropped.
func (c *Config) ColumnsToRead(withTarget bool) []string {
	cols := make([]string, 0, len(c.TrainingVariables)+2)
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		cols = append(cols, name)
	}

	for _, v := range c.TrainingVariables {
		add(v)
	}
	if c.FeatureGeneration != nil {
		for _, k := range c.FeatureGeneration.NeededKeys {
			add(k)
		}
	}
	if withTarget {
		add(c.TargetName)
	}
	return cols
}

// AllFeatures returns the feature columns in the order the estimator sees
// them: the configured training variables followed by the generated
// feature names in sorted order.
func (c *Config) AllFeatures() []string {
	all := make([]string, 0, len(c.TrainingVariables))
	all = append(all, c.TrainingVariables...)

	if c.FeatureGeneration != nil {
		generated := make([]string, 0, len(c.FeatureGeneration.Features))
		for name := range c.FeatureGeneration.Features {
			generated = append(generated, name)
		}
		sort.Strings(generated)
		all = append(all, generated...)
	}
	return all
}
