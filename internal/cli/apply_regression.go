package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlzhang001/aict-tools/internal/apply"
	"github.com/jlzhang001/aict-tools/internal/config"
	"github.com/jlzhang001/aict-tools/internal/estimator"
	"github.com/jlzhang001/aict-tools/internal/features"
	"github.com/jlzhang001/aict-tools/internal/h5"
	"github.com/jlzhang001/aict-tools/internal/serialize"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

var (
	applyRegKey       string
	applyRegChunksize int
	applyRegNJobs     int
	applyRegYes       bool
)

var applyRegressionCmd = &cobra.Command{
	Use:   "apply-regression-model <configuration> <data> <model>",
	Short: "Add energy predictions to an event file",
	Long: `Apply a trained energy regressor to every event in the data file,
writing <name>_prediction and <name>_prediction_std columns. The file is
processed in chunks so arbitrarily large files fit in memory; rows with
NaN or infinite feature values keep NaN predictions.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		key := cfg.TelescopeEventsKey
		if cmd.Flags().Changed("key") {
			key = applyRegKey
		}
		name := cfg.ClassNameOr(config.DefaultEnergyClassName)

		bundle, err := serialize.Load(args[2])
		if err != nil {
			return err
		}
		if bundle.Regressor == nil {
			return errors.Newf("model %q holds no regressor", args[2])
		}
		ensemble, ok := bundle.Regressor.(estimator.Ensemble)
		if !ok {
			return errors.Newf(
				"model %q has no ensemble members to compute an uncertainty from; train a random_forest regressor for the apply step",
				args[2])
		}
		if applyRegNJobs > 0 {
			ensemble.SetNumThreads(applyRegNJobs)
		}

		if used := features.FindSourceFeatures(bundle.FeatureNames, cfg.FeatureGeneration); len(used) > 0 {
			return errors.NewSourceFeatureError(used)
		}

		columns := []string{name + "_prediction", name + "_prediction_std"}
		if err := confirmOverwrite(args[1], key, columns, applyRegYes, log); err != nil {
			return err
		}

		source, err := h5.NewChunkReader(args[1], key, cfg.ColumnsToRead(false), applyRegChunksize)
		if err != nil {
			return err
		}

		driver := &apply.Regression{
			Source:     source,
			Sink:       h5.NewColumnSink(args[1], key),
			Ensemble:   ensemble,
			Features:   bundle.FeatureNames,
			Generation: cfg.FeatureGeneration,
			LogTarget:  bundle.LogTarget,
			Name:       name,
			Log:        log,
			Progress:   true,
		}
		return driver.Run()
	},
}

func init() {
	applyRegressionCmd.Flags().StringVarP(&applyRegKey, "key", "k", config.DefaultEventsKey,
		"HDF5 group holding the event columns")
	applyRegressionCmd.Flags().IntVarP(&applyRegChunksize, "chunksize", "N", 0,
		"rows per chunk, 0 processes the file in one pass")
	applyRegressionCmd.Flags().IntVarP(&applyRegNJobs, "n-jobs", "n", 0,
		"prediction threads, 0 keeps the model default")
	applyRegressionCmd.Flags().BoolVarP(&applyRegYes, "yes", "y", false,
		"overwrite existing prediction columns without asking")
	rootCmd.AddCommand(applyRegressionCmd)
}
