// Command matchup tracks a hidden one-to-one pairing between two groups.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/matchup/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
