package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jlzhang001/aict-tools/internal/h5"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// confirmOverwrite aborts the apply commands when their output columns
// already exist in the data file and the user does not consent to
// rewriting them in place. A nil return means the command may proceed.
func confirmOverwrite(path, key string, columns []string, yes bool, log zerolog.Logger) error {
	f, err := h5.OpenRead(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var existing []string
	for _, c := range columns {
		if f.HasColumn(key, c) {
			existing = append(existing, c)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	log.Warn().Strs("columns", existing).Str("path", path).Msg("output columns already exist")
	if yes {
		return nil
	}

	question := fmt.Sprintf("Overwrite columns %s in %q?", strings.Join(existing, ", "), path)
	if !confirm(os.Stdin, os.Stderr, question) {
		return errors.NewColumnExistsError(existing[0], path)
	}
	return nil
}
