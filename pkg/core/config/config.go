// Package config loads the application settings from config/report.yaml
// with environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"peer_valuation/pkg/core/agent"
	"peer_valuation/pkg/core/chart"
	"peer_valuation/pkg/core/prompt"
)

// DefaultPath is where the binaries look for the config file.
const DefaultPath = "config/report.yaml"

// Config is the merged file and environment configuration.
type Config struct {
	Port        string       `yaml:"port"`
	SnapshotDir string       `yaml:"snapshot_dir"`
	OutputDir   string       `yaml:"output_dir"`
	Chart       ChartConfig  `yaml:"chart"`
	Agent       agent.Config `yaml:"agent"`

	// DatasetPath selects a dataset file; empty renders the built-in one.
	DatasetPath string `yaml:"dataset"`
	// DatabaseURL enables Postgres snapshots; empty keeps them on disk.
	DatabaseURL string `yaml:"database_url"`
	// PromptDir overrides the embedded drafting prompts when set.
	PromptDir string `yaml:"prompt_dir"`
}

// ChartConfig overrides the chart canvas size. Zero values keep defaults.
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Port:        "8080",
		SnapshotDir: ".cache/snapshots",
		OutputDir:   "out",
		Agent:       agent.Config{ActiveProvider: agent.ProviderNone},
	}
}

// Load reads path over Default and then applies PORT, DATASET_PATH,
// DATABASE_URL and LLM_PROVIDER from the environment. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("DATASET_PATH"); v != "" {
		c.DatasetPath = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("LLM_PROVIDER"); v != "" {
		c.Agent.ActiveProvider = v
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// ChartOptions applies the configured canvas size to the chart defaults.
func (c Config) ChartOptions() chart.Config {
	opts := chart.DefaultConfig()
	if c.Chart.Width > 0 {
		opts.Width = c.Chart.Width
	}
	if c.Chart.Height > 0 {
		opts.Height = c.Chart.Height
	}
	return opts
}

// Prompts returns the embedded prompts overlaid with PromptDir. A broken
// override directory is logged and ignored.
func (c Config) Prompts() *prompt.Registry {
	r := prompt.Defaults()
	if c.PromptDir != "" {
		if err := prompt.LoadFromDirectory(r, c.PromptDir); err != nil {
			fmt.Printf("[WARNING] Failed to load prompt overrides: %v\n", err)
			fmt.Println("  Falling back to embedded prompts")
		}
	}
	return r
}
