package valuation

import (
	"fmt"
	"sort"
)

// PeerComparable is one trading comp with its forward EV/Revenue multiple.
type PeerComparable struct {
	Name      string  `json:"name" yaml:"name"`
	Group     string  `json:"group" yaml:"group"`
	EVRevenue float64 `json:"ev_revenue" yaml:"ev_revenue"`
}

// GroupStats summarizes the EV/Revenue multiples of one peer group.
type GroupStats struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Median float64 `json:"median"`
	Low    float64 `json:"low"`  // 25th percentile
	High   float64 `json:"high"` // 75th percentile
}

// ImpliedMultiple back-solves the multiple a valuation implies on revenue.
func ImpliedMultiple(ev, revenue float64) (float64, error) {
	if revenue <= 0 {
		return 0, fmt.Errorf("implied multiple: %w", ErrNonPositiveRevenue)
	}
	return ev / revenue, nil
}

// MedianMultiple returns the median of the positive finite multiples, or 0
// if none.
func MedianMultiple(mults []float64) float64 {
	vals := positive(mults)
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}

// GroupMedians groups comps by peer group and computes median and
// interquartile range per group. Non-positive and non-finite multiples are
// ignored.
func GroupMedians(comps []PeerComparable) map[string]GroupStats {
	byGroup := make(map[string][]float64)
	for _, c := range comps {
		if c.Group == "" || c.EVRevenue <= 0 || !finite(c.EVRevenue) {
			continue
		}
		byGroup[c.Group] = append(byGroup[c.Group], c.EVRevenue)
	}

	res := make(map[string]GroupStats, len(byGroup))
	for g, mults := range byGroup {
		lo, hi := quartileRange(mults)
		res[g] = GroupStats{
			Group:  g,
			Count:  len(mults),
			Median: MedianMultiple(mults),
			Low:    lo,
			High:   hi,
		}
	}
	return res
}

// quartileRange returns the 25th and 75th percentile entries.
func quartileRange(mults []float64) (float64, float64) {
	if len(mults) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), mults...)
	sort.Float64s(sorted)
	lowIdx := int(float64(len(sorted)) * 0.25)
	highIdx := int(float64(len(sorted)) * 0.75)
	if highIdx >= len(sorted) {
		highIdx = len(sorted) - 1
	}
	return sorted[lowIdx], sorted[highIdx]
}

func positive(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v > 0 && finite(v) {
			out = append(out, v)
		}
	}
	return out
}
