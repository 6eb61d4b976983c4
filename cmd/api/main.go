package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"peer_valuation/pkg/api/config"
	apiValuation "peer_valuation/pkg/api/valuation"
	"peer_valuation/pkg/core/agent"
	coreConfig "peer_valuation/pkg/core/config"
	"peer_valuation/pkg/core/pipeline"
	"peer_valuation/pkg/core/report"
	"peer_valuation/pkg/core/store"
	"peer_valuation/pkg/core/valuation"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg, err := coreConfig.Load(coreConfig.DefaultPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	ds, err := pipeline.LoadDataset(cfg.DatasetPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	metrics, err := valuation.Derive(ds)
	if err != nil {
		fmt.Printf("[FATAL] Invalid dataset: %v\n", err)
		os.Exit(1)
	}
	for _, f := range valuation.Reconcile(metrics) {
		fmt.Printf("[API] Data note: %s\n", f.Message)
	}

	agentMgr := agent.NewManager(cfg.Agent)
	drafter := &report.Drafter{Manager: agentMgr, Prompts: cfg.Prompts(), Timeout: 30 * time.Second}

	// Snapshots go to Postgres when DATABASE_URL is set, otherwise to disk.
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := store.InitDB(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			fmt.Printf("[WARNING] Database unavailable, using file snapshots: %v\n", err)
		}
		defer store.Close()
	}
	snapshots := store.NewSnapshotStore(store.GetPool(), cfg.SnapshotDir)
	fmt.Printf("[STORE] Snapshots backed by %s\n", snapshots.Backend())

	chartCfg := cfg.ChartOptions()

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Valuation endpoints
	apiValuation.NewHandler(metrics, drafter, chartCfg, snapshots).Register(http.DefaultServeMux)

	fmt.Printf("API server starting on %s...\n", cfg.Addr())
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - GET  /api/valuation/report")
	fmt.Println("  - GET  /api/valuation/chart.svg")
	fmt.Println("  - GET  /api/valuation/multiples.svg")
	fmt.Println("  - GET  /api/valuation/market.svg")
	fmt.Println("  - GET  /api/valuation/metrics")
	fmt.Println("  - GET  /api/valuation/check")
	fmt.Println("  - GET  /api/valuation/snapshots[?id=]")
	fmt.Println("  - POST /api/valuation/snapshots")

	if err := http.ListenAndServe(cfg.Addr(), nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
