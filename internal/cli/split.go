package cli

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jlzhang001/aict-tools/internal/config"
	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/internal/h5"
	"github.com/jlzhang001/aict-tools/internal/split"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

var (
	splitNames     []string
	splitFractions []float64
	splitInKey     string
	splitOutKey    string
	splitFormat    string
	splitSeed      int64
)

var splitCmd = &cobra.Command{
	Use:   "split-data <input> <output_basename>",
	Short: "Split an event file into disjoint named parts",
	Long: `Partition the events of the input file into disjoint random samples,
one output file per -n/-f pair. Output files are named
<output_basename>_<name>.<ext> with the extension chosen by --fmt.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		if len(splitNames) == 0 {
			return errors.New("at least one -n/-f pair is required")
		}
		if splitFormat != "hdf5" && splitFormat != "csv" {
			return errors.Newf("unknown output format %q, want hdf5 or csv", splitFormat)
		}

		log.Info().Str("path", args[0]).Str("key", splitInKey).Msg("loading events")
		tab, err := h5.ReadTable(args[0], splitInKey, nil)
		if err != nil {
			return err
		}
		log.Info().Int("events", tab.Len()).Msg("events loaded")

		rng := rand.New(rand.NewPCG(uint64(splitSeed), uint64(splitSeed)+1))
		write := func(part split.Part, sub *dataset.Table) error {
			path := fmt.Sprintf("%s_%s.%s", args[1], part.Name, extensionFor(splitFormat))
			log.Info().Str("path", path).Msg("writing output file")
			if splitFormat == "csv" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				return sub.WriteCSV(f)
			}
			return h5.WriteTable(path, splitOutKey, sub)
		}

		return split.Run(tab, splitNames, splitFractions, rng, log, write)
	},
}

func extensionFor(format string) string {
	if strings.EqualFold(format, "csv") {
		return "csv"
	}
	return "hdf5"
}

func init() {
	splitCmd.Flags().StringArrayVarP(&splitNames, "name", "n", nil,
		"name of an output part, repeatable")
	splitCmd.Flags().Float64SliceVarP(&splitFractions, "fraction", "f", nil,
		"fraction of events for the matching --name, repeatable")
	splitCmd.Flags().StringVarP(&splitInKey, "inkey", "i", config.DefaultEventsKey,
		"HDF5 group to read from the input file")
	splitCmd.Flags().StringVar(&splitOutKey, "key", config.DefaultEventsKey,
		"HDF5 group to write in the output files")
	splitCmd.Flags().StringVar(&splitFormat, "fmt", "hdf5",
		"output format, hdf5 or csv")
	splitCmd.Flags().Int64Var(&splitSeed, "seed", 0,
		"random seed for drawing the partitions")
	rootCmd.AddCommand(splitCmd)
}
