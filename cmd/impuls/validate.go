package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"impuls/internal/validate"
)

var (
	validateImpulses bool
	validateJSON     bool
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the log corpus (and optionally the impulse store) for problems",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	cmd.Flags().BoolVar(&validateImpulses, "impulses", false, "Also check the stored impulse log")
	cmd.Flags().BoolVar(&validateJSON, "json", false, "Print the report as JSON")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	report, err := validate.Corpus(ctx, newLoader(), cfg.Logs.Dir)
	if err != nil {
		return err
	}

	if validateImpulses {
		db, err := openStore(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		records, err := db.LoadAll(ctx, cfg.Database.Namespace)
		if err != nil {
			return err
		}
		impulses := validate.Impulses(records)
		report.Checked += impulses.Checked
		report.Issues = append(report.Issues, impulses.Issues...)
	}
	report.Sort()

	out := cmd.OutOrStdout()
	if validateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if report.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printReport(out io.Writer, report *validate.Report) {
	errorIssues := report.Errors()
	warnIssues := report.Warnings()

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintf(out, "No issues found (%d checked).\n", report.Checked)
		return
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Entity
		if issue.FilePath != "" {
			location = issue.FilePath
			if issue.Entity != "" {
				location = fmt.Sprintf("%s (%s)", issue.FilePath, issue.Entity)
			}
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
