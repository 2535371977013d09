package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/statematch/statematch/internal/diff"
	"github.com/statematch/statematch/internal/ir"
	"github.com/statematch/statematch/internal/sqldiff"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	var tool string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "diff <before.db> <after.db>",
		Short: "Diff two SQLite databases into a mutation list",
		Long: `Run the sqldiff tool against two database files and print the
resulting mutations as a JSON array.

Statements the parser does not recognize are dropped from the output;
use --verbose to see how many.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, cmd, args[0], args[1], tool, timeout)
		},
	}

	cmd.Flags().StringVar(&tool, "tool", sqldiff.DefaultTool, "sqldiff executable to invoke")
	cmd.Flags().DurationVar(&timeout, "timeout", sqldiff.DefaultTimeout, "diff tool timeout")

	return cmd
}

func runDiff(opts *RootOptions, cmd *cobra.Command, beforePath, afterPath, tool string, timeout time.Duration) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	runner := &sqldiff.Runner{Tool: tool, Timeout: timeout}
	result, err := runner.Mutations(cmd.Context(), beforePath, afterPath)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "diff failed", err)
	}

	formatter.VerboseLog("%d mutation(s), %d statement(s) dropped", len(result.Mutations), result.Dropped)

	return outputMutations(formatter, result)
}

// outputMutations prints a parse result as a JSON mutation array, shared
// by the diff and parse commands.
func outputMutations(formatter *OutputFormatter, result diff.ParseResult) error {
	list := make([]any, len(result.Mutations))
	for i, m := range result.Mutations {
		list[i] = m.CanonicalMap()
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"mutations": list,
			"dropped":   result.Dropped,
		})
	}

	rendered, err := ir.MarshalCanonical(list)
	if err != nil {
		return fmt.Errorf("encode mutations: %w", err)
	}
	fmt.Fprintln(formatter.Writer, string(rendered))
	return nil
}
