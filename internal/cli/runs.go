package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statematch/statematch/internal/store"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded validation runs",
		Long: `List validation runs recorded with "validate --db", newest first.

Each line shows the run id, timestamp, pass/total counts, and result.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(rootOpts, cmd, dbPath, limit)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "history database to read (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RootOptions, cmd *cobra.Command, dbPath string, limit int) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open history database", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		result := "PASS"
		if !run.Result {
			result = "FAIL"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  %d/%d  %s\n",
			run.ID, run.CreatedAt, run.Passed, run.Total, result)
	}
	return nil
}
