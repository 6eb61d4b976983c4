package valuation

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonPositiveBaseline = errors.New("baseline valuation must be positive")
	ErrNonPositiveRevenue  = errors.New("base revenue must be positive")
	ErrNonPositiveMultiple = errors.New("multiple must be positive")
	ErrBaselineCount       = errors.New("dataset must contain exactly one baseline scenario")
	ErrUnknownGroup        = errors.New("no comparable companies for peer group")
	ErrNonFinite           = errors.New("value must be a finite number")
)

// Kind tags a scenario as the reference valuation or a peer comparison.
type Kind string

const (
	KindBaseline Kind = "baseline"
	KindPeer     Kind = "peer"
)

// Scenario is one bar of the comparison. Monetary values are in $M.
type Scenario struct {
	Label      string  `json:"label" yaml:"label"`
	ShortLabel string  `json:"short_label,omitempty" yaml:"short_label"`
	Kind       Kind    `json:"kind" yaml:"kind"`
	Multiple   float64 `json:"multiple" yaml:"multiple"`
	Group      string  `json:"group,omitempty" yaml:"group"` // Resolves Multiple from comps when Multiple is 0
	Color      string  `json:"color,omitempty" yaml:"color"`
	Note       string  `json:"note,omitempty" yaml:"note"`

	// ReportedValuation is an independently sourced EV (e.g. the DCF output).
	// When set it overrides the derived figure for display and upside.
	ReportedValuation float64 `json:"reported_valuation,omitempty" yaml:"reported_valuation"`
}

// finite rejects NaN and the infinities, which parse from "NaN" or ".inf".
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsBaseline reports whether upside is measured against this scenario.
func (s Scenario) IsBaseline() bool {
	return s.Kind == KindBaseline
}

// Name returns the short label, falling back to the full label.
func (s Scenario) Name() string {
	if s.ShortLabel != "" {
		return s.ShortLabel
	}
	return s.Label
}

// ImpliedValuation is revenue x multiple, unrounded.
func ImpliedValuation(revenue, multiple float64) float64 {
	return revenue * multiple
}

// Upside returns the percentage increase of valuation over baseline.
func Upside(valuation, baseline float64) (float64, error) {
	if baseline <= 0 {
		return 0, fmt.Errorf("upside of %.2f: %w", valuation, ErrNonPositiveBaseline)
	}
	return (valuation/baseline - 1) * 100, nil
}

// UpsideMultiple returns valuation as a multiple of baseline (e.g. 4.5x).
func UpsideMultiple(valuation, baseline float64) (float64, error) {
	if baseline <= 0 {
		return 0, fmt.Errorf("upside multiple of %.2f: %w", valuation, ErrNonPositiveBaseline)
	}
	return valuation / baseline, nil
}
