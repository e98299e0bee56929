package main

import (
	"os"

	"github.com/jlzhang001/aict-tools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
