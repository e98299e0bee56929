// Package split partitions an event dataset into disjoint named parts by
// fraction, one output file per part.
package split

import (
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// Plan converts fractions into per-part row counts. Counts are rounded
// per part; if rounding overshoots the total, the excess is subtracted
// from the last part only. That biases the rounding error onto the last
// named part, matching the original tool's behavior.
func Plan(total int, fractions []float64) []int {
	counts := make([]int, len(fractions))
	sum := 0
	for i, f := range fractions {
		counts[i] = int(math.Round(float64(total) * f))
		sum += counts[i]
	}
	if sum > total && len(counts) > 0 {
		counts[len(counts)-1] -= sum - total
	}
	return counts
}

// FractionsSumToOne reports whether the fractions add up to 1 within
// rounding tolerance. A false result is a warning, not an error.
func FractionsSumToOne(fractions []float64) bool {
	sum := 0.0
	for _, f := range fractions {
		sum += f
	}
	return math.Abs(sum-1) < 1e-9
}

// Part is one named output partition.
type Part struct {
	Name string
	Rows []int
}

// Partition draws disjoint random row subsets for the named fractions.
// Each part is sampled without replacement from the rows remaining after
// the previous parts were removed, so parts never overlap.
func Partition(total int, names []string, fractions []float64, rng *rand.Rand) ([]Part, error) {
	if len(names) != len(fractions) {
		return nil, errors.NewValidationError("name", "you must give a name for each fraction", len(names))
	}
	for _, f := range fractions {
		if f <= 0 || f > 1 {
			return nil, errors.NewValidationError("fraction", "must be in (0, 1]", f)
		}
	}

	counts := Plan(total, fractions)

	pool := make([]int, total)
	for i := range pool {
		pool[i] = i
	}

	parts := make([]Part, 0, len(names))
	for i, name := range names {
		n := counts[i]
		if n > len(pool) {
			n = len(pool)
		}
		if n < 0 {
			n = 0
		}

		rng.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })

		rows := make([]int, n)
		copy(rows, pool[:n])
		pool = pool[n:]

		parts = append(parts, Part{Name: name, Rows: rows})
	}
	return parts, nil
}

// Writer persists one partition to its output file.
type Writer func(part Part, t *dataset.Table) error

// Run partitions the table and writes every part.
func Run(t *dataset.Table, names []string, fractions []float64, rng *rand.Rand, log zerolog.Logger, write Writer) error {
	if !FractionsSumToOne(fractions) {
		log.Warn().Msg("fractions do not sum up to 1")
	}

	parts, err := Partition(t.Len(), names, fractions, rng)
	if err != nil {
		return err
	}

	for _, part := range parts {
		log.Info().Str("part", part.Name).Int("events", len(part.Rows)).Msg("writing partition")

		sub, err := t.Select(part.Rows)
		if err != nil {
			return err
		}
		if err := write(part, sub); err != nil {
			return errors.Wrapf(err, "writing part %q", part.Name)
		}
	}
	return nil
}
