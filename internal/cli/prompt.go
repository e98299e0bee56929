package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm prints question to out and reads one line from in. Only an
// explicit "y" or "yes" counts as consent.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
