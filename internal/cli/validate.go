package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statematch/statematch/internal/engine"
	"github.com/statematch/statematch/internal/store"
	"github.com/statematch/statematch/internal/verifier"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "validate <verifier.json> <observed.json>",
		Short: "Validate an observed outcome against a verifier spec",
		Long: `Evaluate every check in the verifier spec against the observed outcome
and print one line per check.

A failed check is a finding, not an error: the command exits 0 whether
the checks pass or fail. Non-zero exits are reserved for unreadable or
malformed inputs. With --db, the run is recorded in the given history
database.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args[0], args[1], dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "record the run in this history database")

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command, verifierPath, observedPath, dbPath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	verifierJSON, err := os.ReadFile(verifierPath)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read verifier", err)
	}
	spec, err := verifier.Parse(verifierJSON)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse verifier", err)
	}

	observedJSON, err := os.ReadFile(observedPath)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read observed outcome", err)
	}
	observed, err := engine.ParseObserved(observedJSON)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse observed outcome", err)
	}

	report, err := engine.Validate(spec, observed)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate", err)
	}

	var runID string
	if dbPath != "" {
		runID, err = recordRun(cmd, dbPath, verifierJSON, report)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "record run", err)
		}
		formatter.VerboseLog("recorded run %s", runID)
	}

	return outputReport(formatter, report, runID)
}

func recordRun(cmd *cobra.Command, dbPath string, verifierJSON []byte, report *engine.Report) (string, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer s.Close()

	return s.SaveRun(cmd.Context(), verifierJSON, report)
}

// outputReport renders the validation report. Text mode prints one line
// per check plus a summary; JSON mode emits the canonical report wrapped
// in the standard response envelope.
func outputReport(formatter *OutputFormatter, report *engine.Report, runID string) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "ok",
			Data:   report.CanonicalMap(),
			RunID:  runID,
		}
		rendered, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Fprintln(formatter.Writer, string(rendered))
		return nil
	}

	for _, check := range report.Checks {
		if check.Success {
			fmt.Fprintf(formatter.Writer, "✔ Matched %s: %s\n", check.Kind, check.Label())
		} else {
			fmt.Fprintf(formatter.Writer, "✘ No match for %s: %s\n", check.Kind, check.Label())
		}
	}

	if report.Success {
		fmt.Fprintf(formatter.Writer, "Result: PASS (%d/%d)\n", report.Passed, report.Total)
	} else {
		fmt.Fprintf(formatter.Writer, "Result: FAIL (%d/%d)\n", report.Passed, report.Total)
	}
	return nil
}
