package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"impuls/internal/config"
	"impuls/internal/logging"
)

// Commands carrying this annotation run on the default configuration.
const annotationNoConfig = "impuls/no-config"

var (
	configPath string
	logsDir    string
	verbose    bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

func main() {
	if err := execute(rootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs root and follows an unknown-command error with the usage
// text, which cobra leaves out for that case.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprint(root.ErrOrStderr(), root.UsageString())
	}
	return err
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "impuls",
		Short:             "Impulse journal and log archive for the Mastersphere",
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Project config file")
	root.PersistentFlags().StringVar(&logsDir, "dir", "", "Log directory (overrides logs.dir)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(listCmd())
	root.AddCommand(summaryCmd())
	root.AddCommand(indexCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(logsCmd())
	root.AddCommand(impulseCmd())
	root.AddCommand(focusCmd())
	root.AddCommand(diagnoseCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	return root
}

func setup(cmd *cobra.Command, args []string) error {
	loaded := config.Default()
	if cmd.Annotations[annotationNoConfig] == "" {
		var err error
		if cmd.Flag("config").Changed {
			loaded, err = config.LoadProjectConfig(configPath)
		} else {
			loaded, err = config.LoadOptional(configPath)
		}
		if err != nil {
			return err
		}
	}
	if logsDir != "" {
		loaded.Logs.Dir = logsDir
	}
	cfg = loaded

	l, err := logging.New(cfg.Log.Level, verbose)
	if err != nil {
		return err
	}
	logger = l
	logger.Debug("configuration loaded", zap.String("config", configPath), zap.String("logs", cfg.Logs.Dir))
	return nil
}
