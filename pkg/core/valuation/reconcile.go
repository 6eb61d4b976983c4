package valuation

import (
	"fmt"
	"sort"

	"peer_valuation/pkg/core/format"
)

// Finding is a literal figure that disagrees with its derived counterpart
// once both are formatted for display.
type Finding struct {
	Scenario string  `json:"scenario"`
	Metric   string  `json:"metric"` // "valuation" or "upside"
	Reported float64 `json:"reported"`
	Derived  float64 `json:"derived"`
	Message  string  `json:"message"`
}

// Reconcile compares every literal figure in the dataset with the value the
// model derives for it. The literal still wins for display; the findings
// are surfaced next to the report.
func Reconcile(m *Metrics) []Finding {
	var out []Finding
	for _, sm := range m.Scenarios {
		s := sm.Scenario
		if s.ReportedValuation > 0 {
			rep, der := format.Value(s.ReportedValuation), format.Value(sm.DerivedValuation)
			if rep != der {
				out = append(out, Finding{
					Scenario: s.Label,
					Metric:   "valuation",
					Reported: s.ReportedValuation,
					Derived:  sm.DerivedValuation,
					Message: fmt.Sprintf("%s: reported EV %s differs from %s x %s = %s",
						s.Name(), rep, format.Value(m.Dataset.BaseRevenue), format.Multiple(s.Multiple), der),
				})
			}
		}
	}

	labels := make([]string, 0, len(m.Dataset.ReportedUpside))
	for l := range m.Dataset.ReportedUpside {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	for _, label := range labels {
		reported := m.Dataset.ReportedUpside[label]
		sm, ok := m.Lookup(label)
		if !ok {
			out = append(out, Finding{
				Scenario: label,
				Metric:   "upside",
				Reported: reported,
				Message:  fmt.Sprintf("%s: reported upside %s has no matching scenario", label, format.Percent(reported)),
			})
			continue
		}
		if sm.Upside == nil {
			out = append(out, Finding{
				Scenario: label,
				Metric:   "upside",
				Reported: reported,
				Message:  fmt.Sprintf("%s: baseline scenario cannot carry an upside", sm.Scenario.Name()),
			})
			continue
		}
		if format.Percent(reported) != format.Percent(*sm.Upside) {
			out = append(out, Finding{
				Scenario: label,
				Metric:   "upside",
				Reported: reported,
				Derived:  *sm.Upside,
				Message: fmt.Sprintf("%s: reported upside %s differs from derived %s",
					sm.Scenario.Name(), format.Percent(reported), format.Percent(*sm.Upside)),
			})
		}
	}
	return out
}
