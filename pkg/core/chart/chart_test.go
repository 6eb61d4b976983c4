package chart

import (
	"strings"
	"testing"

	"peer_valuation/pkg/core/market"
	"peer_valuation/pkg/core/valuation"
)

func testMetrics(t *testing.T) *valuation.Metrics {
	t.Helper()
	m, err := valuation.Derive(valuation.Dataset{
		Company:     "Voyant",
		RevenueYear: 2030,
		BaseRevenue: 608.1,
		Scenarios: []valuation.Scenario{
			{Label: "Current DCF\nValuation", ShortLabel: "Current DCF", Kind: valuation.KindBaseline, Multiple: 1.28, ReportedValuation: 776, Color: "#3b82f6"},
			{Label: "At Silicon\nPhotonics Multiple", ShortLabel: "Silicon Photonics", Kind: valuation.KindPeer, Multiple: 5.77},
			{Label: "At Lidar\nMultiple", ShortLabel: "Lidar", Kind: valuation.KindPeer, Multiple: 8.99, Color: "#f59e0b"},
		},
	})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	return m
}

func TestTicks(t *testing.T) {
	ticks := Ticks(valuation.DefaultAxis)
	if len(ticks) != 7 {
		t.Fatalf("expected 7 ticks, got %d", len(ticks))
	}
	want := []string{"$0M", "$1B", "$2B", "$3B", "$4B", "$5B", "$6B"}
	for i, tk := range ticks {
		if tk.Label != want[i] {
			t.Errorf("tick %d label = %q, want %q", i, tk.Label, want[i])
		}
	}

	half := Ticks(valuation.Axis{Max: 1000, Step: 250})
	if half[1].Label != "$250M" || half[4].Label != "$1B" {
		t.Errorf("unexpected ticks: %+v", half)
	}
}

func TestCallouts(t *testing.T) {
	callouts := Callouts(testMetrics(t))
	if len(callouts) != 3 {
		t.Fatalf("expected 3 callouts, got %d", len(callouts))
	}

	base := callouts[0]
	if base.Title != "Current DCF Valuation" || base.Value != "$776M" || base.Upside != "" {
		t.Errorf("baseline callout = %+v", base)
	}
	if base.Description != "1.3x multiple" {
		t.Errorf("baseline description = %q", base.Description)
	}

	photonics := callouts[1]
	if photonics.Value != "$3.51B" || photonics.Upside != "352%" {
		t.Errorf("photonics callout = %+v", photonics)
	}
	if photonics.Color != fallbackPalette[1] {
		t.Errorf("photonics should fall back to palette colour, got %q", photonics.Color)
	}

	lidar := callouts[2]
	if lidar.Value != "$5.47B" || lidar.Upside != "604%" || lidar.Color != "#f59e0b" {
		t.Errorf("lidar callout = %+v", lidar)
	}
}

func TestScenarios_RendersSVG(t *testing.T) {
	svg, err := Scenarios(testMetrics(t), DefaultConfig())
	if err != nil {
		t.Fatalf("Scenarios: %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Errorf("expected SVG output, got %.40q", out)
	}
	for _, label := range []string{"Current", "Photonics", "Lidar", "$6B", "$3B"} {
		if !strings.Contains(out, label) {
			t.Errorf("SVG missing %q", label)
		}
	}
}

func TestScenarios_Empty(t *testing.T) {
	if _, err := Scenarios(&valuation.Metrics{}, DefaultConfig()); err == nil {
		t.Errorf("expected error for empty metrics")
	}
}

func TestMarket(t *testing.T) {
	points, err := market.Project(market.Spec{Name: "LiDAR", BaseYear: 2025, EndYear: 2030, BaseSize: 3.27, CAGR: 0.313})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	svg, err := Market("LiDAR", points, DefaultConfig())
	if err != nil {
		t.Fatalf("Market: %v", err)
	}
	if !strings.Contains(string(svg), "2030") {
		t.Errorf("market chart missing year tick")
	}

	if _, err := Market("LiDAR", points[:1], DefaultConfig()); err == nil {
		t.Errorf("expected error for a single point")
	}
}

func TestMultipleBars(t *testing.T) {
	bars := MultipleBars(testMetrics(t))
	if len(bars) != 3 {
		t.Fatalf("expected 2 peers and the company, got %+v", bars)
	}
	if bars[0].Label != "Lidar" || bars[2].Label != "Voyant (EV/2030 Revenue)" || !bars[2].Company {
		t.Errorf("unexpected ranking: %+v", bars)
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Multiple > bars[i-1].Multiple {
			t.Errorf("bars must be sorted highest first: %+v", bars)
		}
	}

	m := testMetrics(t)
	m.Groups = map[string]valuation.GroupStats{
		"Lidar Companies": {Group: "Lidar Companies", Median: 8.99},
		"AI/Vision":       {Group: "AI/Vision", Median: 7.58},
	}
	bars = MultipleBars(m)
	if len(bars) != 3 || bars[0].Label != "Lidar Companies" || bars[1].Label != "AI/Vision" {
		t.Errorf("comps groups should replace peer scenarios: %+v", bars)
	}
}

func TestMultiples_RendersSVG(t *testing.T) {
	svg, err := Multiples(testMetrics(t), DefaultConfig())
	if err != nil {
		t.Fatalf("Multiples: %v", err)
	}
	out := string(svg)
	for _, want := range []string{"<svg", "9.0x", "1.3x"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if _, err := Multiples(&valuation.Metrics{}, DefaultConfig()); err == nil {
		t.Errorf("expected error for empty metrics")
	}
}
