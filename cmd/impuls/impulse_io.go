package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"impuls/internal/impulse"
)

var impulseExportOut string

func impulseImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Append impulses from a JSON export, skipping known IDs",
		Args:  cobra.ExactArgs(1),
		RunE:  runImpulseImport,
	}
}

func runImpulseImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	var records []impulse.Record
	if err := json.NewDecoder(in).Decode(&records); err != nil {
		return fmt.Errorf("decoding impulses: %w", err)
	}

	j, db, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	n, err := j.Import(ctx, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d impulses.\n", n, len(records))
	return nil
}

func impulseExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all impulses as a JSON array",
		Args:  cobra.NoArgs,
		RunE:  runImpulseExport,
	}
	cmd.Flags().StringVarP(&impulseExportOut, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func runImpulseExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	j, db, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	snapshot := j.Snapshot()
	records := make([]impulse.Record, 0, len(snapshot))
	for _, e := range snapshot {
		records = append(records, e.Record())
	}

	out := cmd.OutOrStdout()
	if impulseExportOut != "" {
		f, err := os.Create(impulseExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", impulseExportOut, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding impulses: %w", err)
	}
	return nil
}
