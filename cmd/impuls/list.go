package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all valid log documents with primary tag and cycle",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := loadCorpus(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found logs: %d\n\n", len(result.Entries))
	for _, entry := range result.Entries {
		fmt.Fprintf(out, "- [%s]  %s  (ID: %s)\n", entry.Header.Label(), filepath.Base(entry.FilePath), entry.ID)
	}
	return nil
}
