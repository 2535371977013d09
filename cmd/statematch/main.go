package main

import (
	"os"

	"github.com/statematch/statematch/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands emit their own formatted output; the error here only
		// carries the exit code.
		os.Exit(cli.GetExitCode(err))
	}
}
