package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/internal/h5"
	"github.com/jlzhang001/aict-tools/internal/plotting"
)

var plotCmd = &cobra.Command{
	Use:   "plot-performance <predictions> <output>",
	Short: "Plot regressor performance from a cross-validation predictions file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		tab, err := readPredictions(args[0])
		if err != nil {
			return err
		}
		if err := plotting.Performance(tab, args[1]); err != nil {
			return err
		}
		log.Info().Str("path", args[1]).Msg("figure saved")
		return nil
	},
}

func readPredictions(path string) (*dataset.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dataset.ReadCSV(f)
	}
	return h5.ReadTable(path, "data", nil)
}

func init() {
	rootCmd.AddCommand(plotCmd)
}
