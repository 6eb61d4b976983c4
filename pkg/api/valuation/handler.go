package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"peer_valuation/pkg/core/chart"
	"peer_valuation/pkg/core/market"
	"peer_valuation/pkg/core/report"
	"peer_valuation/pkg/core/store"
	"peer_valuation/pkg/core/validate"
	"peer_valuation/pkg/core/valuation"
)

// Handler serves the report and its parts for one derived dataset.
type Handler struct {
	Metrics *valuation.Metrics
	Drafter *report.Drafter
	Chart   chart.Config
	Store   *store.SnapshotStore
}

// NewHandler creates a valuation handler. snapshots may be nil, which
// disables the snapshot endpoints.
func NewHandler(m *valuation.Metrics, drafter *report.Drafter, cfg chart.Config, snapshots *store.SnapshotStore) *Handler {
	return &Handler{Metrics: m, Drafter: drafter, Chart: cfg, Store: snapshots}
}

// CheckResponse combines literal-figure reconciliation with the rendered
// report's consistency check.
type CheckResponse struct {
	Reconciliation []valuation.Finding `json:"reconciliation"`
	Consistency    *validate.Report    `json:"consistency"`
}

// SnapshotResponse is returned after saving a snapshot.
type SnapshotResponse struct {
	ID      string `json:"id"`
	Backend string `json:"backend"`
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/valuation/report", h.HandleReport)
	mux.HandleFunc("/api/valuation/chart.svg", h.HandleChart)
	mux.HandleFunc("/api/valuation/multiples.svg", h.HandleMultiplesChart)
	mux.HandleFunc("/api/valuation/market.svg", h.HandleMarketChart)
	mux.HandleFunc("/api/valuation/metrics", h.HandleMetrics)
	mux.HandleFunc("/api/valuation/check", h.HandleCheck)
	mux.HandleFunc("/api/valuation/snapshots", h.HandleSnapshots)
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// readOnly handles CORS preflight and rejects everything but GET. It
// reports whether the request has been answered.
func readOnly(w http.ResponseWriter, r *http.Request) bool {
	if cors(w, r, "GET") {
		return true
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return true
	}
	return false
}

func (h *Handler) options() report.Options {
	return report.Options{Drafter: h.Drafter, Chart: h.Chart}
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if readOnly(w, r) {
		return
	}
	html, err := report.Generate(r.Context(), h.Metrics, h.options())
	if err != nil {
		fmt.Printf("[API] Report failed: %v\n", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if readOnly(w, r) {
		return
	}
	svg, err := chart.Scenarios(h.Metrics, h.Chart)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeSVG(w, svg)
}

func (h *Handler) HandleMultiplesChart(w http.ResponseWriter, r *http.Request) {
	if readOnly(w, r) {
		return
	}
	svg, err := chart.Multiples(h.Metrics, h.Chart)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeSVG(w, svg)
}

func (h *Handler) HandleMarketChart(w http.ResponseWriter, r *http.Request) {
	if readOnly(w, r) {
		return
	}
	spec := h.Metrics.Dataset.Market
	if spec == nil {
		http.Error(w, "dataset has no market projection", http.StatusNotFound)
		return
	}
	points, err := market.Project(*spec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	svg, err := chart.Market(spec.Name, points, h.Chart)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeSVG(w, svg)
}

func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if readOnly(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, h.Metrics)
}

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if readOnly(w, r) {
		return
	}
	html, err := report.Generate(r.Context(), h.Metrics, h.options())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	consistency, err := validate.Check(html, h.Metrics)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{
		Reconciliation: valuation.Reconcile(h.Metrics),
		Consistency:    consistency,
	})
}

// HandleSnapshots saves a snapshot on POST. GET returns the snapshot named
// by ?id= (its HTML with format=html) or the most recent ones.
func (h *Handler) HandleSnapshots(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET, POST") {
		return
	}
	if h.Store == nil {
		http.Error(w, "snapshots are not configured", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodPost:
		html, err := report.Generate(r.Context(), h.Metrics, h.options())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		snap := store.NewSnapshot(h.Metrics, html)
		if err := h.Store.Save(r.Context(), &snap); err != nil {
			fmt.Printf("[API] Snapshot save failed: %v\n", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, SnapshotResponse{ID: snap.ID, Backend: h.Store.Backend()})

	case http.MethodGet:
		id := r.URL.Query().Get("id")
		if id == "" {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			list, err := h.Store.List(r.Context(), limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, list)
			return
		}
		snap, err := h.Store.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("format") == "html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(snap.HTML))
			return
		}
		writeJSON(w, http.StatusOK, snap)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[API] Failed to encode response: %v\n", err)
	}
}
