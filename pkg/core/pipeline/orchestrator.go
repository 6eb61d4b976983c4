// Package pipeline wires the stages of one report run: load the dataset,
// derive metrics, render the report and charts, check the output and
// optionally snapshot it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peer_valuation/pkg/core/chart"
	"peer_valuation/pkg/core/dataset"
	"peer_valuation/pkg/core/market"
	"peer_valuation/pkg/core/report"
	"peer_valuation/pkg/core/store"
	"peer_valuation/pkg/core/validate"
	"peer_valuation/pkg/core/valuation"
)

// SnapshotRepository persists finished runs.
type SnapshotRepository interface {
	Save(ctx context.Context, snap *store.Snapshot) error
}

// ValidationConfig decides whether inconsistencies stop the run.
type ValidationConfig struct {
	EnableStrictValidation bool // consistency issues fail the run
	FailOnFindings         bool // reconciliation findings fail the run
}

// ErrValidation is returned when strict validation rejects a run. The
// Result is still returned alongside it.
var ErrValidation = errors.New("report failed validation")

// Result is everything a run produced.
type Result struct {
	Metrics      *valuation.Metrics
	HTML         []byte
	ChartSVG     []byte
	MultiplesSVG []byte
	MarketSVG    []byte // nil without a market block or when it cannot be drawn
	Findings     []valuation.Finding
	Consistency  *validate.Report
	SnapshotID   string
	Duration     time.Duration
}

// Orchestrator runs the report stages.
type Orchestrator struct {
	drafter          *report.Drafter
	chart            chart.Config
	repo             SnapshotRepository
	validationConfig ValidationConfig
}

// NewOrchestrator creates an orchestrator. drafter may be nil.
func NewOrchestrator(drafter *report.Drafter, cfg chart.Config) *Orchestrator {
	return &Orchestrator{drafter: drafter, chart: cfg}
}

// SetRepository enables snapshots of every successful run.
func (o *Orchestrator) SetRepository(repo SnapshotRepository) {
	o.repo = repo
}

func (o *Orchestrator) SetValidationConfig(config ValidationConfig) {
	o.validationConfig = config
}

// LoadDataset reads path, or returns the built-in dataset when path is
// empty.
func LoadDataset(path string) (valuation.Dataset, error) {
	if path == "" {
		fmt.Println("[DATASET] Using built-in dataset")
		return dataset.Default(), nil
	}
	return dataset.Load(path)
}

func marketChart(spec market.Spec, cfg chart.Config) ([]byte, error) {
	points, err := market.Project(spec)
	if err != nil {
		return nil, err
	}
	return chart.Market(spec.Name, points, cfg)
}

// Run derives and renders ds.
func (o *Orchestrator) Run(ctx context.Context, ds valuation.Dataset) (*Result, error) {
	start := time.Now()
	fmt.Printf("[RENDER] Starting report for %s (%d scenarios)\n", ds.Company, len(ds.Scenarios))

	m, err := valuation.Derive(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metrics: %w", err)
	}
	res := &Result{Metrics: m, Findings: valuation.Reconcile(m)}

	res.HTML, err = report.Generate(ctx, m, report.Options{Drafter: o.drafter, Chart: o.chart})
	if err != nil {
		return nil, err
	}
	res.ChartSVG, err = chart.Scenarios(m, o.chart)
	if err != nil {
		return nil, err
	}
	res.MultiplesSVG, err = chart.Multiples(m, o.chart)
	if err != nil {
		return nil, err
	}
	if spec := m.Dataset.Market; spec != nil {
		res.MarketSVG, err = marketChart(*spec, o.chart)
		if err != nil {
			// the report already omits the section
			fmt.Printf("[WARNING] Market chart skipped: %v\n", err)
			res.MarketSVG = nil
		}
	}

	res.Consistency, err = validate.Check(res.HTML, m)
	if err != nil {
		return nil, err
	}
	for _, f := range res.Findings {
		fmt.Printf("[RENDER] Data note: %s\n", f.Message)
	}
	for _, issue := range res.Consistency.Issues {
		fmt.Printf("[WARNING] Inconsistent figure: %s\n", issue)
	}

	res.Duration = time.Since(start)
	if o.validationConfig.EnableStrictValidation && !res.Consistency.AllPassed {
		return res, fmt.Errorf("%d inconsistent figures: %w", len(res.Consistency.Issues), ErrValidation)
	}
	if o.validationConfig.FailOnFindings && len(res.Findings) > 0 {
		return res, fmt.Errorf("%d data notes: %w", len(res.Findings), ErrValidation)
	}

	if o.repo != nil {
		snap := store.NewSnapshot(m, res.HTML)
		if err := o.repo.Save(ctx, &snap); err != nil {
			return res, fmt.Errorf("failed to save snapshot: %w", err)
		}
		res.SnapshotID = snap.ID
	}

	fmt.Printf("[RENDER] Report for %s completed in %v\n", ds.Company, res.Duration)
	return res, nil
}
