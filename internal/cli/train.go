package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jlzhang001/aict-tools/internal/config"
	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/internal/estimator"
	"github.com/jlzhang001/aict-tools/internal/h5"
	"github.com/jlzhang001/aict-tools/internal/serialize"
	"github.com/jlzhang001/aict-tools/internal/train"
)

var trainKey string

var trainCmd = &cobra.Command{
	Use:   "train-energy-regressor <configuration> <signal> <predictions> <model>",
	Short: "Train an energy regressor on simulated signal events",
	Long: `Train the configured regressor to reconstruct the primary particle
energy from image parameters. Cross-validated out-of-fold predictions
are written to the predictions path and the refitted model to the
model path (a .json model path additionally exports metadata).`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		key := cfg.TelescopeEventsKey
		if cmd.Flags().Changed("key") {
			key = trainKey
		}

		log.Info().Str("path", args[1]).Str("key", key).Msg("loading signal events")
		tab, err := h5.ReadTable(args[1], key, cfg.ColumnsToRead(true))
		if err != nil {
			return err
		}

		result, err := train.Run(train.Options{
			Config: cfg,
			Table:  tab,
			NewEstimator: func() (estimator.Regressor, error) {
				return estimator.NewRegressor(cfg.Regressor, cfg.Seed)
			},
			Log:      log,
			Progress: true,
		})
		if err != nil {
			return err
		}

		log.Info().
			Float64("r2_mean", result.ScoreMean()).
			Float64("r2_std", result.ScoreStd()).
			Int("rows", result.NumRows).
			Msg("cross validation finished")

		if err := writeTable(result.Predictions, args[2]); err != nil {
			return err
		}

		bundle := &serialize.Bundle{
			Regressor:    result.Model,
			FeatureNames: result.FeatureNames,
			LabelText:    "estimated_energy",
			LogTarget:    cfg.LogTarget,
			Seed:         cfg.Seed,
		}
		if err := serialize.Save(bundle, args[3]); err != nil {
			return err
		}
		log.Info().Str("path", args[3]).Msg("model saved")
		return nil
	},
}

// writeTable persists a table as CSV or HDF5 depending on the path
// extension.
func writeTable(t *dataset.Table, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return t.WriteCSV(f)
	}
	return h5.WriteTable(path, "data", t)
}

func init() {
	trainCmd.Flags().StringVarP(&trainKey, "key", "k", config.DefaultEventsKey,
		"HDF5 group holding the event columns")
	rootCmd.AddCommand(trainCmd)
}
