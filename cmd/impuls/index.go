package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"impuls/internal/cluster"
	"impuls/internal/logtags"
)

var indexJSON bool

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Show the cluster index and tag statistics of the log corpus",
		Args:  cobra.NoArgs,
		RunE:  runIndex,
	}
	cmd.Flags().BoolVar(&indexJSON, "json", false, "Print tag statistics as JSON")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := loadCorpus(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stats := cluster.Aggregate(result.Entries)
	if indexJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	idx := cluster.Build(result.Entries)
	fmt.Fprintf(out, "Logs: %d (skipped %d)\n", stats.Total, result.Skipped)

	fmt.Fprintln(out, "\nPrimary tags:")
	for _, key := range idx.PrimaryKeys {
		fmt.Fprintf(out, "  %-18s %d\n", key, len(idx.ByPrimary[key]))
	}
	if len(idx.CycleKeys) > 0 {
		fmt.Fprintln(out, "\nCycles:")
		for _, key := range idx.CycleKeys {
			fmt.Fprintf(out, "  %-18s %d\n", key, len(idx.ByCycle[key]))
		}
	}
	if len(idx.ProcessKeys) > 0 {
		fmt.Fprintln(out, "\nProcesses:")
		for _, key := range idx.ProcessKeys {
			fmt.Fprintf(out, "  %-18s %d\n", key, len(idx.ByProcess[key]))
		}
	}

	fmt.Fprintln(out, "\nIntensity:")
	for i, tag := range logtags.Intensities {
		fmt.Fprintf(out, "  %-18s %d\n", tag, stats.Intensity[i])
	}
	fmt.Fprintf(out, "  %-18s %d\n", "(none)", stats.NoIntensity)

	if stats.Total > 0 {
		fmt.Fprintln(out)
	}
	printDominant(out, "primary", stats.DominantPrimary)
	printDominant(out, "process", stats.DominantProcess)
	return nil
}

func printDominant[T ~string](out io.Writer, name string, tag *T) {
	if tag == nil {
		return
	}
	fmt.Fprintf(out, "Dominant %s: %s\n", name, *tag)
}
