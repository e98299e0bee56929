package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlzhang001/aict-tools/internal/apply"
	"github.com/jlzhang001/aict-tools/internal/config"
	"github.com/jlzhang001/aict-tools/internal/features"
	"github.com/jlzhang001/aict-tools/internal/h5"
	"github.com/jlzhang001/aict-tools/internal/serialize"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

var (
	applySepKey       string
	applySepChunksize int
	applySepNJobs     int
	applySepYes       bool
)

var applySeparationCmd = &cobra.Command{
	Use:   "apply-separation-model <configuration> <data> <model>",
	Short: "Add signal probabilities to an event file",
	Long: `Apply a trained signal/background classifier to every event in the
data file, writing a single <name>_prediction column holding the signal
probability. Processing is chunked; rows with NaN or infinite feature
values keep a NaN probability.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		key := cfg.TelescopeEventsKey
		if cmd.Flags().Changed("key") {
			key = applySepKey
		}
		name := cfg.ClassNameOr(config.DefaultClassName)

		bundle, err := serialize.Load(args[2])
		if err != nil {
			return err
		}
		if bundle.Classifier == nil {
			return errors.Newf("model %q holds no classifier", args[2])
		}
		if applySepNJobs > 0 {
			bundle.Classifier.SetNumThreads(applySepNJobs)
		}

		if used := features.FindSourceFeatures(bundle.FeatureNames, cfg.FeatureGeneration); len(used) > 0 {
			return errors.NewSourceFeatureError(used)
		}

		if err := confirmOverwrite(args[1], key, []string{name + "_prediction"}, applySepYes, log); err != nil {
			return err
		}

		source, err := h5.NewChunkReader(args[1], key, cfg.ColumnsToRead(false), applySepChunksize)
		if err != nil {
			return err
		}

		driver := &apply.Separation{
			Source:     source,
			Sink:       h5.NewColumnSink(args[1], key),
			Classifier: bundle.Classifier,
			Features:   bundle.FeatureNames,
			Generation: cfg.FeatureGeneration,
			Name:       name,
			Log:        log,
			Progress:   true,
		}
		return driver.Run()
	},
}

func init() {
	applySeparationCmd.Flags().StringVarP(&applySepKey, "key", "k", config.DefaultEventsKey,
		"HDF5 group holding the event columns")
	applySeparationCmd.Flags().IntVarP(&applySepChunksize, "chunksize", "N", 0,
		"rows per chunk, 0 processes the file in one pass")
	applySeparationCmd.Flags().IntVarP(&applySepNJobs, "n-jobs", "n", 0,
		"prediction threads, 0 keeps the model default")
	applySeparationCmd.Flags().BoolVarP(&applySepYes, "yes", "y", false,
		"overwrite an existing prediction column without asking")
	rootCmd.AddCommand(applySeparationCmd)
}
