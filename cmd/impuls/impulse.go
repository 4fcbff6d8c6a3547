package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"impuls/internal/impulse"
)

var (
	impulseListLimit int
	impulseListJSON  bool
)

func impulseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "impulse",
		Aliases: []string{"impulses"},
		Short:   "Register and inspect impulses",
	}
	cmd.AddCommand(impulseAddCmd())
	cmd.AddCommand(impulseListCmd())
	cmd.AddCommand(impulseStatsCmd())
	cmd.AddCommand(impulseImportCmd())
	cmd.AddCommand(impulseExportCmd())
	return cmd
}

func impulseAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <room> [note...]",
		Short: "Register an impulse in a room",
		Long: `Register an impulse in one of the rooms impulse-center, earth, water,
fire, wind or aether. The zone and the derived meta are computed from the
room and the note.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImpulseAdd,
	}
}

func runImpulseAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	room, err := impulse.ParseRoom(args[0])
	if err != nil {
		return err
	}
	note := strings.Join(args[1:], " ")

	j, db, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	e, err := j.Register(ctx, room, note)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Registered %s\n", e.ID)
	fmt.Fprintf(out, "  Room:    %s (%s)\n", e.Room, e.Zone)
	fmt.Fprintf(out, "  ΔF:      %.2f\n", e.Meta.DeltaF)
	fmt.Fprintf(out, "  Archive: %s\n", e.Meta.ArchivRoom)
	fmt.Fprintf(out, "  Level:   %s\n", e.Meta.Chronik.Level)
	return nil
}

func impulseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered impulses, oldest first",
		Args:  cobra.NoArgs,
		RunE:  runImpulseList,
	}
	cmd.Flags().IntVarP(&impulseListLimit, "limit", "n", 0, "Only show the most recent n impulses")
	cmd.Flags().BoolVar(&impulseListJSON, "json", false, "Print impulses as JSON")
	return cmd
}

func runImpulseList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	j, db, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	impulses := j.Snapshot()
	if impulseListLimit > 0 && len(impulses) > impulseListLimit {
		impulses = impulses[len(impulses)-impulseListLimit:]
	}

	out := cmd.OutOrStdout()
	if impulseListJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(impulses)
	}

	if len(impulses) == 0 {
		fmt.Fprintln(out, "No impulses registered.")
		return nil
	}
	for _, e := range impulses {
		line := fmt.Sprintf("%s  %-14s %-9s ΔF=%.2f  %-22s %-5s",
			e.Timestamp.Local().Format(time.DateTime),
			e.Room,
			e.Zone,
			e.Meta.DeltaF,
			e.Meta.ArchivRoom,
			e.Meta.Chronik.Level,
		)
		if e.Note != "" {
			line += "  " + e.Note
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	return nil
}
