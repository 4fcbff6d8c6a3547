package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"impuls/internal/config"
)

var (
	initName string
	initDSN  string
)

const exampleLog = `#IMPULS #Zyklus-1 #Analyse #Mittel

Ⅰ. LOG-ID
IMPULS-0001

Ⅱ. Context
First entry of the archive.
`

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Scaffold impuls.yaml and a log directory",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(initName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(cmd, initName, initDSN)
		},
	}
	cmd.Flags().StringVar(&initName, "name", "impuls", "Project name")
	cmd.Flags().StringVar(&initDSN, "dsn", config.DefaultDSN, "Database DSN (memory, sqlite://path or postgres://...)")
	return cmd
}

func runInit(cmd *cobra.Command, projectName, dsn string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	project := config.Default()
	project.Project = projectName
	project.Database.DSN = dsn
	if logsDir != "" {
		project.Logs.Dir = logsDir
	}

	contents, err := project.Marshal()
	if err != nil {
		return err
	}
	if _, err := config.Parse(contents); err != nil {
		return err
	}
	if err := os.WriteFile(configPath, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	dir := project.Logs.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	example := filepath.Join(dir, "IMPULS-0001.md")
	if _, err := os.Stat(example); os.IsNotExist(err) {
		if err := os.WriteFile(example, []byte(exampleLog), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", example, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s and %s\n", configPath, dir)
	return nil
}
