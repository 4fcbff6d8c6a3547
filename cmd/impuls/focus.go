package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"impuls/internal/focus"
	"impuls/internal/impulse"
)

func focusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus",
		Short: "Recommend where to put attention next",
		Args:  cobra.NoArgs,
		RunE:  runFocus,
	}
}

func runFocus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	j, db, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	summary := focus.Evaluate(j.Snapshot(), j.Current())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Impulses: %d\n", summary.Total)
	if summary.Total > 0 {
		for i, room := range impulse.Rooms {
			fmt.Fprintf(out, "  %-24s %d\n", focus.Label(room), summary.Counts[i])
		}
	}
	fmt.Fprintf(out, "\n%s\n", summary.Recommendation)
	return nil
}
