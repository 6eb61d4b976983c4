package chart

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	gochart "github.com/wcharczuk/go-chart/v2"

	"peer_valuation/pkg/core/format"
	"peer_valuation/pkg/core/valuation"
)

const (
	peerBarColor    = "#1f77b4"
	companyBarColor = "#ff7f0e"
)

// MultipleBar is one bar of the multiples ranking.
type MultipleBar struct {
	Label    string
	Multiple float64
	Company  bool
}

// MultipleBars ranks the peer group medians against the company's implied
// EV/revenue multiple, highest first. Groups come from the comps when the
// dataset has them, otherwise from the peer scenarios.
func MultipleBars(m *valuation.Metrics) []MultipleBar {
	var bars []MultipleBar
	if len(m.Groups) > 0 {
		for _, g := range m.Groups {
			bars = append(bars, MultipleBar{Label: g.Group, Multiple: g.Median})
		}
	} else {
		for _, p := range m.Peers() {
			bars = append(bars, MultipleBar{Label: p.Scenario.Name(), Multiple: p.Scenario.Multiple})
		}
	}
	bars = append(bars, MultipleBar{
		Label:    fmt.Sprintf("%s (EV/%d Revenue)", m.Dataset.Company, m.Dataset.RevenueYear),
		Multiple: m.Summary.BaselineMultiple,
		Company:  true,
	})
	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Multiple != bars[j].Multiple {
			return bars[i].Multiple > bars[j].Multiple
		}
		return bars[i].Label < bars[j].Label
	})
	return bars
}

// Multiples renders the ranking as a bar chart. Each bar label carries its
// multiple ("Lidar Companies 9.0x") and the company bar is highlighted.
func Multiples(m *valuation.Metrics, cfg Config) ([]byte, error) {
	if len(m.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios to chart")
	}
	if cfg.Width == 0 {
		cfg = DefaultConfig()
	}

	ranked := MultipleBars(m)
	top := 0.0
	bars := make([]gochart.Value, 0, len(ranked))
	for _, b := range ranked {
		color := hexColor(peerBarColor)
		if b.Company {
			color = hexColor(companyBarColor)
		}
		bars = append(bars, gochart.Value{
			Label: b.Label + " " + format.Multiple(b.Multiple),
			Value: b.Multiple,
			Style: gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		})
		top = math.Max(top, b.Multiple)
	}

	ceiling := math.Ceil(top) + 1
	var ticks []gochart.Tick
	for v := 0.0; v <= ceiling; v++ {
		ticks = append(ticks, gochart.Tick{Value: v, Label: format.Multiple(v)})
	}

	graph := gochart.BarChart{
		Title:    cfg.Title,
		Width:    cfg.Width,
		Height:   cfg.Height,
		BarWidth: cfg.BarWidth,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.Style{FontSize: 10},
		YAxis: gochart.YAxis{
			Name:  "EV / Revenue Multiple",
			Range: &gochart.ContinuousRange{Min: 0, Max: ceiling},
			Ticks: ticks,
			Style: gochart.Style{FontSize: 10},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render multiples chart: %w", err)
	}
	return buf.Bytes(), nil
}
