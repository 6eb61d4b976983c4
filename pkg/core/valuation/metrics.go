package valuation

import (
	"fmt"
	"sort"
)

// ScenarioMetrics holds the derived figures for one scenario.
type ScenarioMetrics struct {
	Scenario         Scenario `json:"scenario"`
	DerivedValuation float64  `json:"derived_valuation"` // revenue x multiple
	Valuation        float64  `json:"valuation"`         // displayed EV
	Upside           *float64 `json:"upside,omitempty"`  // percent, peers only
	UpsideMultiple   *float64 `json:"upside_multiple,omitempty"`
}

// Summary aggregates the peer scenarios into the ranges quoted in the
// narrative and the assumptions panel.
type Summary struct {
	Baseline           float64 `json:"baseline"`
	BaselineMultiple   float64 `json:"baseline_multiple"`
	PeerMultipleLow    float64 `json:"peer_multiple_low"`
	PeerMultipleMid    float64 `json:"peer_multiple_mid"`
	PeerMultipleHigh   float64 `json:"peer_multiple_high"`
	PeerValuationLow   float64 `json:"peer_valuation_low"`
	PeerValuationMid   float64 `json:"peer_valuation_mid"`
	PeerValuationHigh  float64 `json:"peer_valuation_high"`
	PeerLabelLow       string  `json:"peer_label_low,omitempty"`
	PeerLabelMid       string  `json:"peer_label_mid,omitempty"`
	PeerLabelHigh      string  `json:"peer_label_high,omitempty"`
	UpsideMultipleLow  float64 `json:"upside_multiple_low"`
	UpsideMultipleHigh float64 `json:"upside_multiple_high"`
	Peers              int     `json:"peers"`
}

// Metrics is the full derivation of a dataset.
type Metrics struct {
	Dataset   Dataset               `json:"dataset"`
	Scenarios []ScenarioMetrics     `json:"scenarios"`
	Summary   Summary               `json:"summary"`
	Groups    map[string]GroupStats `json:"groups,omitempty"`
}

// Derive resolves the dataset and computes every displayed figure.
// The baseline's ReportedValuation, when set, is the reference for upside.
func Derive(d Dataset) (*Metrics, error) {
	ds, err := d.Resolve()
	if err != nil {
		return nil, err
	}

	base, err := ds.Baseline()
	if err != nil {
		return nil, err
	}
	baseline := displayedValuation(ds.BaseRevenue, base)
	if baseline <= 0 {
		return nil, fmt.Errorf("baseline %q: %w", base.Label, ErrNonPositiveBaseline)
	}

	m := &Metrics{Dataset: ds}
	if len(ds.Comps) > 0 {
		m.Groups = GroupMedians(ds.Comps)
	}

	var peers []ScenarioMetrics
	for _, s := range ds.Scenarios {
		sm := ScenarioMetrics{
			Scenario:         s,
			DerivedValuation: ImpliedValuation(ds.BaseRevenue, s.Multiple),
			Valuation:        displayedValuation(ds.BaseRevenue, s),
		}
		if !s.IsBaseline() {
			up, err := Upside(sm.Valuation, baseline)
			if err != nil {
				return nil, err
			}
			mult, err := UpsideMultiple(sm.Valuation, baseline)
			if err != nil {
				return nil, err
			}
			sm.Upside = &up
			sm.UpsideMultiple = &mult
			peers = append(peers, sm)
		}
		m.Scenarios = append(m.Scenarios, sm)
	}

	impl, err := ImpliedMultiple(baseline, ds.BaseRevenue)
	if err != nil {
		return nil, err
	}
	m.Summary = summarize(baseline, impl, peers)
	return m, nil
}

// Peers returns the non-baseline scenarios in dataset order.
func (m *Metrics) Peers() []ScenarioMetrics {
	var out []ScenarioMetrics
	for _, s := range m.Scenarios {
		if !s.Scenario.IsBaseline() {
			out = append(out, s)
		}
	}
	return out
}

// PeersByMultiple returns the peers sorted from highest to lowest multiple.
func (m *Metrics) PeersByMultiple() []ScenarioMetrics {
	out := m.Peers()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Scenario.Multiple > out[j].Scenario.Multiple
	})
	return out
}

// Lookup finds a scenario by label.
func (m *Metrics) Lookup(label string) (ScenarioMetrics, bool) {
	for _, s := range m.Scenarios {
		if s.Scenario.Label == label {
			return s, true
		}
	}
	return ScenarioMetrics{}, false
}

func displayedValuation(revenue float64, s Scenario) float64 {
	if s.ReportedValuation > 0 {
		return s.ReportedValuation
	}
	return ImpliedValuation(revenue, s.Multiple)
}

func summarize(baseline, baselineMultiple float64, peers []ScenarioMetrics) Summary {
	sum := Summary{
		Baseline:         baseline,
		BaselineMultiple: baselineMultiple,
		Peers:            len(peers),
	}
	if len(peers) == 0 {
		return sum
	}

	sorted := append([]ScenarioMetrics(nil), peers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Scenario.Multiple < sorted[j].Scenario.Multiple
	})
	lo, hi := sorted[0], sorted[len(sorted)-1]
	mid := sorted[len(sorted)/2]

	sum.PeerMultipleLow = lo.Scenario.Multiple
	sum.PeerMultipleMid = mid.Scenario.Multiple
	sum.PeerMultipleHigh = hi.Scenario.Multiple
	sum.PeerValuationLow = lo.Valuation
	sum.PeerValuationMid = mid.Valuation
	sum.PeerValuationHigh = hi.Valuation
	sum.PeerLabelLow = lo.Scenario.Label
	sum.PeerLabelMid = mid.Scenario.Label
	sum.PeerLabelHigh = hi.Scenario.Label
	sum.UpsideMultipleLow = *lo.UpsideMultiple
	sum.UpsideMultipleHigh = *hi.UpsideMultiple
	return sum
}
