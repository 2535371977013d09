package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/statematch/statematch/internal/diff"
)

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse diff statements into a mutation list",
		Long: `Parse INSERT/UPDATE/DELETE statement text into a JSON mutation array.

Reads from the given file, or from stdin when the argument is "-" or
omitted. Statements that match no grammar are dropped; use --verbose to
see how many.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(rootOpts, cmd, path)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, cmd *cobra.Command, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	text, err := readInput(cmd, path)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse failed", err)
	}

	result := diff.Parse(text)
	formatter.VerboseLog("%d mutation(s), %d statement(s) dropped", len(result.Mutations), result.Dropped)

	return outputMutations(formatter, result)
}

// readInput reads statement text from a file, or from the command's
// stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
