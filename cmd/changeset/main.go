// Command changeset seeds, dumps and compares pallet storage state.
package main

import (
	"os"

	"github.com/roach88/changeset/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.ExitStatus(err))
	}
}
