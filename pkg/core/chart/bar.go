// Package chart renders the valuation scenarios and the market projection
// as SVG with go-chart. The package owns layout constants only; every
// number it draws comes from valuation.Metrics and every label from the
// format package.
package chart

import (
	"bytes"
	"fmt"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"peer_valuation/pkg/core/format"
	"peer_valuation/pkg/core/valuation"
)

// Config holds rendering parameters for the scenario bar chart.
type Config struct {
	Width     int
	Height    int
	BarWidth  int
	GridColor string
	Title     string
}

// DefaultConfig mirrors the on-page chart: 450px tall, 120px bars.
func DefaultConfig() Config {
	return Config{
		Width:     1000,
		Height:    450,
		BarWidth:  120,
		GridColor: "#e5e7eb",
	}
}

var fallbackPalette = []string{"#3b82f6", "#8b5cf6", "#10b981", "#f59e0b", "#ef4444", "#14b8a6"}

// Ticks returns the value-axis ticks 0, step, ... up to axis.Max labelled
// with format.AxisTick.
func Ticks(axis valuation.Axis) []gochart.Tick {
	if axis.Step <= 0 || axis.Max <= 0 {
		axis = valuation.DefaultAxis
	}
	var ticks []gochart.Tick
	for v := 0.0; v <= axis.Max+axis.Step/1e6; v += axis.Step {
		ticks = append(ticks, gochart.Tick{Value: v, Label: format.AxisTick(v)})
	}
	return ticks
}

// ScenarioColor returns the scenario's colour or a palette colour by index.
func ScenarioColor(s valuation.Scenario, idx int) string {
	if s.Color != "" {
		return s.Color
	}
	return fallbackPalette[idx%len(fallbackPalette)]
}

// Scenarios renders one bar per scenario over a fixed 0..axis.Max domain.
// Bars are clamped to the domain so an outsized scenario cannot rescale
// the axis.
func Scenarios(m *valuation.Metrics, cfg Config) ([]byte, error) {
	if len(m.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios to chart")
	}
	if cfg.Width == 0 {
		cfg = DefaultConfig()
	}
	axis := m.Dataset.Axis
	if axis.Max <= 0 {
		axis = valuation.DefaultAxis
	}

	bars := make([]gochart.Value, 0, len(m.Scenarios))
	for i, sm := range m.Scenarios {
		v := sm.Valuation
		if v > axis.Max {
			fmt.Printf("[WARNING] %s: %s exceeds the axis ceiling %s, clamping bar\n",
				sm.Scenario.Name(), format.Value(v), format.AxisTick(axis.Max))
			v = axis.Max
		}
		color := hexColor(ScenarioColor(sm.Scenario, i))
		bars = append(bars, gochart.Value{
			Label: sm.Scenario.Name(),
			Value: v,
			Style: gochart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 1,
			},
		})
	}

	grid := hexColor(cfg.GridColor)
	ticks := Ticks(axis)

	graph := gochart.BarChart{
		Title:    cfg.Title,
		Width:    cfg.Width,
		Height:   cfg.Height,
		BarWidth: cfg.BarWidth,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.Style{FontSize: 11},
		YAxis: gochart.YAxis{
			Name:           "Enterprise Value ($M)",
			Range:          &gochart.ContinuousRange{Min: 0, Max: axis.Max},
			Ticks:          ticks,
			ValueFormatter: axisFormatter,
			Style:          gochart.Style{FontSize: 10},
		},
		Bars: bars,
	}
	graph.Elements = []gochart.Renderable{gridLines(ticks, axis.Max, grid)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render scenario chart: %w", err)
	}
	return buf.Bytes(), nil
}

// gridLines draws dashed horizontal lines at every non-zero tick.
func gridLines(ticks []gochart.Tick, max float64, color drawing.Color) gochart.Renderable {
	return func(r gochart.Renderer, cb gochart.Box, defaults gochart.Style) {
		r.SetStrokeColor(color)
		r.SetStrokeWidth(1)
		r.SetStrokeDashArray([]float64{3, 3})
		for _, t := range ticks {
			if t.Value <= 0 || t.Value > max {
				continue
			}
			y := cb.Bottom - int(float64(cb.Height())*t.Value/max)
			r.MoveTo(cb.Left, y)
			r.LineTo(cb.Right, y)
			r.Stroke()
		}
		r.SetStrokeDashArray(nil)
	}
}

func axisFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return format.AxisTick(f)
	}
	return fmt.Sprintf("%v", v)
}

func hexColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}
