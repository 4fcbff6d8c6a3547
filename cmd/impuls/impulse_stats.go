package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"impuls/internal/diagnose"
	"impuls/internal/stats"
)

var impulseStatsJSON bool

func impulseStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show zone, archive and chronicle statistics over all impulses",
		Args:  cobra.NoArgs,
		RunE:  runImpulseStats,
	}
	cmd.Flags().BoolVar(&impulseStatsJSON, "json", false, "Print the diagnosis summary as JSON")
	return cmd
}

func runImpulseStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	j, db, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	s := stats.Aggregate(j.Snapshot())

	out := cmd.OutOrStdout()
	if impulseStatsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnose.NewSummary(s))
	}

	fmt.Fprintln(out, renderStats(s))
	return nil
}
