package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"impuls/internal/diagnose"
	"impuls/internal/stats"
)

var (
	diagnoseModel  string
	diagnoseDryRun bool
	diagnoseJSON   bool
)

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Ask the language model for a diagnosis of the impulse statistics",
		Long: `Condense all impulses into a summary and send it to the configured
language model. The API key is read from the environment variable named by
diagnose.api_key_env (GEMINI_API_KEY by default).`,
		Args: cobra.NoArgs,
		RunE: runDiagnose,
	}
	cmd.Flags().StringVar(&diagnoseModel, "model", "", "Model name (overrides diagnose.model)")
	cmd.Flags().BoolVar(&diagnoseDryRun, "dry-run", false, "Print the prompt instead of calling the model")
	cmd.Flags().BoolVar(&diagnoseJSON, "json", false, "Print summary and diagnosis as JSON")
	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	j, db, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	s := stats.Aggregate(j.Snapshot())
	out := cmd.OutOrStdout()

	if diagnoseDryRun {
		fmt.Fprintln(out, diagnose.SystemPrompt)
		fmt.Fprintln(out)
		fmt.Fprintln(out, diagnose.BuildPrompt(diagnose.NewSummary(s)))
		return nil
	}

	model := cfg.Diagnose.Model
	if diagnoseModel != "" {
		model = diagnoseModel
	}
	completer, err := diagnose.NewGeminiCompleter(ctx, cfg.APIKey(), model, cfg.Diagnose.Temperature)
	if err != nil {
		return err
	}

	result, err := diagnose.New(completer, cfg.Diagnose.Provider, logger).Diagnose(ctx, s)
	if err != nil {
		return err
	}

	if diagnoseJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintln(out, result.Diagnosis)
	return nil
}
