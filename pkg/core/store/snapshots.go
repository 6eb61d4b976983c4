package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peer_valuation/pkg/core/valuation"
)

// ErrNotFound is returned when no snapshot has the requested id.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot freezes one rendering: the resolved dataset, the headline
// figures, any reconciliation notes and optionally the HTML itself.
type Snapshot struct {
	ID        string              `json:"id"`
	Company   string              `json:"company"`
	Dataset   valuation.Dataset   `json:"dataset"`
	Summary   valuation.Summary   `json:"summary"`
	Findings  []valuation.Finding `json:"findings,omitempty"`
	HTML      string              `json:"html,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewSnapshot captures m. html may be nil.
func NewSnapshot(m *valuation.Metrics, html []byte) Snapshot {
	return Snapshot{
		ID:        uuid.New().String(),
		Company:   m.Dataset.Company,
		Dataset:   m.Dataset,
		Summary:   m.Summary,
		Findings:  valuation.Reconcile(m),
		HTML:      string(html),
		CreatedAt: time.Now().UTC(),
	}
}

// SnapshotStore keeps snapshots in Postgres when a pool is configured and
// in one JSON file per snapshot otherwise.
type SnapshotStore struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewSnapshotStore returns a store backed by pool, or by dir when pool is
// nil. An empty dir defaults to .cache/snapshots.
func NewSnapshotStore(pool *pgxpool.Pool, dir string) *SnapshotStore {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "snapshots")
	}
	if pool == nil {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check snapshot dir: %v\n", err)
		}
	}
	return &SnapshotStore{pool: pool, fileDir: dir}
}

// Backend names where snapshots are written.
func (s *SnapshotStore) Backend() string {
	if s.pool != nil {
		return "postgres"
	}
	return "file:" + s.fileDir
}

// Save persists snap, assigning an id and timestamp when missing.
func (s *SnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if _, err := uuid.Parse(snap.ID); err != nil {
		return fmt.Errorf("invalid snapshot id %q: %w", snap.ID, err)
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if s.pool != nil {
		query := `
			INSERT INTO valuation_snapshots (id, company, data, html, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id)
			DO UPDATE SET
				company = EXCLUDED.company,
				data = EXCLUDED.data,
				html = EXCLUDED.html
		`
		if _, err := s.pool.Exec(ctx, query, snap.ID, snap.Company, data, snap.HTML, snap.CreatedAt); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		fmt.Printf("[STORE] Saved snapshot %s (%s) to postgres\n", snap.ID, snap.Company)
		return nil
	}

	if err := os.WriteFile(s.path(snap.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	fmt.Printf("[STORE] Saved snapshot %s (%s) to %s\n", snap.ID, snap.Company, s.fileDir)
	return nil
}

// Get loads the snapshot with id.
func (s *SnapshotStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid snapshot id %q: %w", id, ErrNotFound)
	}

	var data []byte
	if s.pool != nil {
		err := s.pool.QueryRow(ctx, `SELECT data FROM valuation_snapshots WHERE id = $1`, id).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(s.path(id))
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot file: %w", err)
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// List returns up to limit snapshots, newest first, without their HTML.
func (s *SnapshotStore) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	if s.pool != nil {
		rows, err := s.pool.Query(ctx,
			`SELECT data FROM valuation_snapshots ORDER BY created_at DESC LIMIT $1`, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}
		defer rows.Close()

		var out []Snapshot
		for rows.Next() {
			var data []byte
			if err := rows.Scan(&data); err != nil {
				return nil, err
			}
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
			}
			snap.HTML = ""
			out = append(out, snap)
		}
		return out, rows.Err()
	}

	entries, err := os.ReadDir(s.fileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot dir: %w", err)
	}
	var out []Snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		snap, err := s.Get(ctx, strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			fmt.Printf("[WARNING] Skipping snapshot %s: %v\n", e.Name(), err)
			continue
		}
		snap.HTML = ""
		out = append(out, *snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *SnapshotStore) path(id string) string {
	return filepath.Join(s.fileDir, id+".json")
}
