package pipeline

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"peer_valuation/pkg/core/chart"
	"peer_valuation/pkg/core/dataset"
	"peer_valuation/pkg/core/market"
	"peer_valuation/pkg/core/store"
	"peer_valuation/pkg/core/valuation"
)

// --- Mocks ---

type MockRepo struct {
	Saved []*store.Snapshot
	Err   error
}

func (m *MockRepo) Save(ctx context.Context, snap *store.Snapshot) error {
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, snap)
	return nil
}

func TestRun_DefaultDataset(t *testing.T) {
	o := NewOrchestrator(nil, chart.DefaultConfig())
	repo := &MockRepo{}
	o.SetRepository(repo)

	res, err := o.Run(context.Background(), dataset.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(string(res.HTML), "Investment Thesis") {
		t.Errorf("report HTML missing thesis")
	}
	if len(res.ChartSVG) == 0 || len(res.MultiplesSVG) == 0 || len(res.MarketSVG) == 0 {
		t.Errorf("expected all three charts")
	}
	if len(res.Findings) != 2 {
		t.Errorf("expected 2 findings, got %d", len(res.Findings))
	}
	if !res.Consistency.AllPassed {
		t.Errorf("consistency issues: %+v", res.Consistency.Issues)
	}
	if len(repo.Saved) != 1 || res.SnapshotID != repo.Saved[0].ID {
		t.Errorf("snapshot not saved: %+v", repo.Saved)
	}
}

func TestRun_FailOnFindings(t *testing.T) {
	o := NewOrchestrator(nil, chart.DefaultConfig())
	repo := &MockRepo{}
	o.SetRepository(repo)
	o.SetValidationConfig(ValidationConfig{FailOnFindings: true})

	res, err := o.Run(context.Background(), dataset.Default())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if res == nil || len(res.HTML) == 0 {
		t.Errorf("result should still be returned")
	}
	if len(repo.Saved) != 0 {
		t.Errorf("rejected runs must not be snapshotted")
	}
}

func TestRun_Errors(t *testing.T) {
	o := NewOrchestrator(nil, chart.DefaultConfig())

	ds := dataset.Default()
	ds.BaseRevenue = 0
	if _, err := o.Run(context.Background(), ds); err == nil {
		t.Errorf("expected derive error")
	}

	o.SetRepository(&MockRepo{Err: errors.New("disk full")})
	if _, err := o.Run(context.Background(), dataset.Default()); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected snapshot error, got %v", err)
	}
}

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset("")
	if err != nil || ds.Company != "Voyant" {
		t.Errorf("built-in dataset: %+v, %v", ds.Company, err)
	}
	ds, err = LoadDataset(filepath.Join("..", "dataset", "testdata", "dataset.yaml"))
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Comps) != 9 {
		t.Errorf("expected comps from CSV, got %d", len(ds.Comps))
	}
}

func TestRun_NonFiniteInputs(t *testing.T) {
	comps, err := dataset.ParseComps(strings.NewReader("Company,Group,EV/Revenue\nA,Lidar,inf\nB,Lidar,9\nC,Lidar,inf\n"))
	if err != nil {
		t.Fatalf("ParseComps: %v", err)
	}
	ds := dataset.Default()
	ds.Comps = comps
	ds.Scenarios[3].Multiple = 0
	ds.Scenarios[3].Group = "Lidar"

	o := NewOrchestrator(nil, chart.DefaultConfig())
	res, err := o.Run(context.Background(), ds)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sm, _ := res.Metrics.Lookup("Lidar Companies Multiple"); sm.Scenario.Multiple != 9 {
		t.Errorf("Lidar multiple = %v, want 9", sm.Scenario.Multiple)
	}

	ds = dataset.Default()
	ds.Scenarios[2].Multiple = math.NaN()
	if _, err := o.Run(context.Background(), ds); !errors.Is(err, valuation.ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", err)
	}
}

func TestRun_SingleYearMarketRejected(t *testing.T) {
	ds := dataset.Default()
	ds.Market = &market.Spec{Name: "LiDAR", BaseYear: 2030, EndYear: 2030, BaseSize: 12.8, CAGR: 0.313}

	o := NewOrchestrator(nil, chart.DefaultConfig())
	res, err := o.Run(context.Background(), ds)
	if err == nil || !strings.Contains(err.Error(), "end year") {
		t.Errorf("expected the dataset to be rejected up front, got %v", err)
	}
	if res != nil {
		t.Errorf("no result expected for an invalid dataset")
	}
}
