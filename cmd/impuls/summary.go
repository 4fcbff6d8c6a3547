package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"impuls/internal/cluster"
	"impuls/internal/logtags"
)

var (
	summaryPrimary string
	summaryCycle   string
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summary",
		Short:   "Summarize the log cluster for a primary tag",
		Example: "  impuls summary --primaryTag '#IMPULS' --cycle '#Zyklus-1'",
		Args:    cobra.NoArgs,
		RunE:    runSummary,
	}
	cmd.Flags().StringVar(&summaryPrimary, "primaryTag", "", "Primary tag of the cluster, e.g. #MUSIK")
	cmd.Flags().StringVar(&summaryCycle, "cycle", "", "Optional cycle filter, e.g. #Zyklus-1")
	_ = cmd.MarkFlagRequired("primaryTag")
	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	primary, ok := logtags.ParsePrimary(summaryPrimary)
	if !ok {
		return fmt.Errorf("unknown primary tag: %s", summaryPrimary)
	}

	result, err := loadCorpus(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cluster.Summarize(result.Entries, primary, logtags.CycleTag(summaryCycle)))
	return nil
}
