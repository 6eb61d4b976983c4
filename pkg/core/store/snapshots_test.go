package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"peer_valuation/pkg/core/dataset"
	"peer_valuation/pkg/core/valuation"
)

func TestSnapshotStore_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewSnapshotStore(nil, dir)
	if s.Backend() != "file:"+dir {
		t.Errorf("backend = %q", s.Backend())
	}

	m, err := valuation.Derive(dataset.Default())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	snap := NewSnapshot(m, []byte("<html></html>"))
	ctx := context.Background()
	if err := s.Save(ctx, &snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, snap.ID+".json")); err != nil {
		t.Fatalf("snapshot file not written: %v", err)
	}

	got, err := s.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Company != "Voyant" || got.HTML != "<html></html>" {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.Summary.PeerValuationHigh != m.Summary.PeerValuationHigh {
		t.Errorf("summary not preserved: %+v", got.Summary)
	}
	if len(got.Findings) != 2 {
		t.Errorf("expected 2 findings, got %d", len(got.Findings))
	}
	if len(got.Dataset.Scenarios) != 4 || got.Dataset.Scenarios[0].Kind != valuation.KindBaseline {
		t.Errorf("dataset not preserved: %+v", got.Dataset.Scenarios)
	}
}

func TestSnapshotStore_NotFound(t *testing.T) {
	s := NewSnapshotStore(nil, t.TempDir())
	ctx := context.Background()
	if _, err := s.Get(ctx, "2b0f7a43-9a4e-4c53-9f4e-3c1c8b1f0e11"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, "../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("non-uuid ids must not touch the filesystem, got %v", err)
	}
	bad := &Snapshot{ID: "not-a-uuid"}
	if err := s.Save(ctx, bad); err == nil {
		t.Errorf("expected error for invalid id")
	}
}

func TestSnapshotStore_List(t *testing.T) {
	s := NewSnapshotStore(nil, t.TempDir())
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, company := range []string{"A", "B", "C"} {
		snap := &Snapshot{Company: company, HTML: "<p>x</p>", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Company != "C" || list[1].Company != "B" {
		t.Errorf("expected newest two, got %+v", list)
	}
	if list[0].HTML != "" {
		t.Errorf("List should omit HTML")
	}
}

func TestInitDB_RequiresURL(t *testing.T) {
	if err := InitDB(context.Background(), ""); err == nil {
		t.Errorf("expected error without a database url")
	}
	if GetPool() != nil {
		t.Errorf("pool should stay nil")
	}
}
