// Command render writes the valuation report and its charts (valuation.svg,
// multiples.svg, market.svg) to a directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"peer_valuation/pkg/core/agent"
	"peer_valuation/pkg/core/config"
	"peer_valuation/pkg/core/pipeline"
	"peer_valuation/pkg/core/report"
	"peer_valuation/pkg/core/store"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to report.yaml")
	datasetPath := flag.String("dataset", "", "dataset file (.yaml, .json, .hjson); overrides config")
	outDir := flag.String("out", "", "output directory; overrides config")
	check := flag.Bool("check", false, "exit 1 when the report has data notes or inconsistent figures")
	snapshot := flag.Bool("snapshot", false, "save a snapshot of the run")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *datasetPath != "" {
		cfg.DatasetPath = *datasetPath
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	ds, err := pipeline.LoadDataset(cfg.DatasetPath)
	if err != nil {
		fatal(err)
	}

	chartCfg := cfg.ChartOptions()

	drafter := &report.Drafter{Manager: agent.NewManager(cfg.Agent), Prompts: cfg.Prompts(), Timeout: 30 * time.Second}
	orch := pipeline.NewOrchestrator(drafter, chartCfg)
	orch.SetValidationConfig(pipeline.ValidationConfig{
		EnableStrictValidation: *check,
		FailOnFindings:         *check,
	})

	ctx := context.Background()
	if *snapshot {
		if cfg.DatabaseURL != "" {
			if err := store.InitDB(ctx, cfg.DatabaseURL); err != nil {
				fmt.Printf("[WARNING] Database unavailable, using file snapshots: %v\n", err)
			}
			defer store.Close()
		}
		orch.SetRepository(store.NewSnapshotStore(store.GetPool(), cfg.SnapshotDir))
	}

	res, runErr := orch.Run(ctx, ds)
	if res == nil {
		fatal(runErr)
	}
	if err := write(cfg.OutputDir, res); err != nil {
		fatal(err)
	}
	if res.SnapshotID != "" {
		fmt.Printf("[STORE] Snapshot %s\n", res.SnapshotID)
	}

	if errors.Is(runErr, pipeline.ErrValidation) {
		fmt.Printf("[CHECK] %v\n", runErr)
		os.Exit(1)
	}
	if runErr != nil {
		fatal(runErr)
	}
}

func write(dir string, res *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	files := map[string][]byte{
		"report.html":   res.HTML,
		"valuation.svg": res.ChartSVG,
		"multiples.svg": res.MultiplesSVG,
	}
	if res.MarketSVG != nil {
		files["market.svg"] = res.MarketSVG
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("[RENDER] Wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}

func fatal(err error) {
	fmt.Printf("[FATAL] %v\n", err)
	os.Exit(1)
}
