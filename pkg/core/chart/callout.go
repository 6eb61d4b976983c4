package chart

import (
	"strings"

	"peer_valuation/pkg/core/format"
	"peer_valuation/pkg/core/valuation"
)

// Callout is the hover detail shown for one bar.
type Callout struct {
	Title       string
	Description string
	Value       string
	Color       string
	Upside      string // empty for the baseline
}

// Callouts builds the hover detail for every scenario in dataset order.
func Callouts(m *valuation.Metrics) []Callout {
	out := make([]Callout, 0, len(m.Scenarios))
	for i, sm := range m.Scenarios {
		c := Callout{
			Title:       strings.ReplaceAll(sm.Scenario.Label, "\n", " "),
			Description: format.Multiple(sm.Scenario.Multiple) + " multiple",
			Value:       format.Value(sm.Valuation),
			Color:       ScenarioColor(sm.Scenario, i),
		}
		if sm.Upside != nil {
			c.Upside = format.Percent(*sm.Upside)
		}
		out = append(out, c)
	}
	return out
}
