package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"impuls/internal/cluster"
	"impuls/internal/logarchive"
)

var watchDebounce time.Duration

func logsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Work with the log corpus",
	}
	cmd.AddCommand(logsWatchCmd())
	return cmd
}

func logsWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the cluster index whenever the log directory changes",
		Args:  cobra.NoArgs,
		RunE:  runLogsWatch,
	}
	cmd.Flags().DurationVar(&watchDebounce, "debounce", logarchive.DefaultDebounce, "Quiet period before a rebuild")
	return cmd
}

func runLogsWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	watcher := logarchive.NewWatcher(newLoader(), cfg.Logs.Dir, watchDebounce)
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", cfg.Logs.Dir)

	return watcher.Run(ctx, func(result *logarchive.Result) {
		idx := cluster.Build(result.Entries)
		fmt.Fprintf(out, "[%s] logs: %d, skipped: %d, errors: %d, primary tags: %d, cycles: %d\n",
			time.Now().Format(time.TimeOnly),
			len(result.Entries),
			result.Skipped,
			len(result.Errors),
			len(idx.PrimaryKeys),
			len(idx.CycleKeys),
		)
	})
}
