package chart

import (
	"bytes"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"

	"peer_valuation/pkg/core/format"
	"peer_valuation/pkg/core/market"
)

// Market renders the market-size projection as a filled line chart.
func Market(name string, points []market.Point, cfg Config) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("market chart needs at least two years, got %d", len(points))
	}
	if cfg.Width == 0 {
		cfg = DefaultConfig()
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := make([]gochart.Tick, len(points))
	for i, p := range points {
		xs[i] = float64(p.Year)
		ys[i] = p.Size
		ticks[i] = gochart.Tick{Value: float64(p.Year), Label: fmt.Sprintf("%d", p.Year)}
	}

	line := hexColor("#6a5acd")
	graph := gochart.Chart{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name: "Market Size ($B)",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format.Billions(f)
				}
				return fmt.Sprintf("%v", v)
			},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    name,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					FillColor:   hexColor("#87ceeb").WithAlpha(100),
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render market chart: %w", err)
	}
	return buf.Bytes(), nil
}
