package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"impuls/internal/logarchive"
	"impuls/internal/store"
)

const (
	DefaultPath      = "impuls.yaml"
	DefaultDSN       = "sqlite://impuls.db"
	DefaultLogsDir   = "logs"
	DefaultLogLevel  = "warn"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
)

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Logs     LogsConfig     `yaml:"logs"`
	Diagnose DiagnoseConfig `yaml:"diagnose"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	DSN       string `yaml:"dsn"`
	Namespace string `yaml:"namespace"`
}

type LogsConfig struct {
	Dir                   string   `yaml:"dir"`
	Patterns              []string `yaml:"patterns"`
	Exclude               []string `yaml:"exclude,omitempty"`
	RequireCompleteSchema bool     `yaml:"require_complete_schema"`
}

type DiagnoseConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float32 `yaml:"temperature"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default is the configuration used when no project file exists.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Project: "impuls",
		Version: 1,
		Database: DatabaseConfig{
			DSN:       DefaultDSN,
			Namespace: store.DefaultNamespace,
		},
		Logs: LogsConfig{
			Dir:      DefaultLogsDir,
			Patterns: append([]string(nil), logarchive.DefaultPatterns...),
		},
		Diagnose: DiagnoseConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			APIKeyEnv:   DefaultAPIKeyEnv,
			Temperature: 0.4,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// LoadProjectConfig reads path on top of Default. Keys missing from the file
// keep their default values.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return cfg, nil
}

func Parse(data []byte) (*ProjectConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := validateProjectConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional behaves like LoadProjectConfig but returns Default when path
// does not exist.
func LoadOptional(path string) (*ProjectConfig, error) {
	cfg, err := LoadProjectConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// APIKey reads the diagnosis API key from the configured environment variable.
func (c *ProjectConfig) APIKey() string {
	return os.Getenv(c.Diagnose.APIKeyEnv)
}

func (c *ProjectConfig) Kernel() logarchive.Kernel {
	return logarchive.Kernel{RequireCompleteSchema: c.Logs.RequireCompleteSchema}
}

func (c *ProjectConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding project config: %w", err)
	}
	return data, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if err := validateDSN(cfg.Database.DSN); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Database.Namespace) == "" {
		return fmt.Errorf("database namespace is required")
	}
	if strings.TrimSpace(cfg.Logs.Dir) == "" {
		return fmt.Errorf("logs dir is required")
	}
	if len(cfg.Logs.Patterns) == 0 {
		return fmt.Errorf("at least one logs pattern is required")
	}
	for _, pattern := range append(append([]string(nil), cfg.Logs.Patterns...), cfg.Logs.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid logs pattern: %s", pattern)
		}
	}
	if cfg.Diagnose.Provider != "gemini" {
		return fmt.Errorf("unsupported diagnose provider: %s", cfg.Diagnose.Provider)
	}
	if strings.TrimSpace(cfg.Diagnose.APIKeyEnv) == "" {
		return fmt.Errorf("diagnose api_key_env is required")
	}
	if cfg.Diagnose.Temperature < 0 || cfg.Diagnose.Temperature > 2 {
		return fmt.Errorf("diagnose temperature out of range: %v", cfg.Diagnose.Temperature)
	}

	return nil
}

func validateDSN(dsn string) error {
	if dsn == "memory" {
		return nil
	}
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return fmt.Errorf("database dsn must be memory or carry a scheme: %s", dsn)
	}
	switch scheme {
	case "sqlite", "postgres", "postgresql":
		return nil
	}
	return fmt.Errorf("unsupported database scheme: %s", scheme)
}
