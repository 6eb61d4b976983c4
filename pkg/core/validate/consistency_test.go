package validate

import (
	"context"
	"strings"
	"testing"

	"peer_valuation/pkg/core/dataset"
	"peer_valuation/pkg/core/report"
	"peer_valuation/pkg/core/valuation"
)

func renderDefault(t *testing.T) (*valuation.Metrics, string) {
	t.Helper()
	m, err := valuation.Derive(dataset.Default())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	html, err := report.Generate(context.Background(), m, report.Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return m, string(html)
}

func TestCheck_RenderedReportIsConsistent(t *testing.T) {
	m, html := renderDefault(t)
	rep, err := Check([]byte(html), m)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !rep.AllPassed {
		for _, i := range rep.Issues {
			t.Errorf("unexpected issue: %s", i)
		}
	}
	// callouts, cards, table, assumptions and legend
	if rep.Checked < 30 {
		t.Errorf("expected every figure to be checked, got %d", rep.Checked)
	}
}

func TestCheck_FlagsTamperedFigure(t *testing.T) {
	m, html := renderDefault(t)
	tampered := strings.Replace(html, `valuation">$5.47B</td>`, `valuation">$5.48B</td>`, 1)
	if tampered == html {
		t.Fatal("fixture did not contain the Lidar table cell")
	}

	rep, err := Check([]byte(tampered), m)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if rep.AllPassed || len(rep.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %+v", rep.Issues)
	}
	got := rep.Issues[0]
	if got.Section != "analysis" || got.Scenario != "Lidar Companies Multiple" || got.Expected != "$5.47B" || got.Rendered != "$5.48B" {
		t.Errorf("unexpected issue: %+v", got)
	}
}

func TestCheck_FlagsStructure(t *testing.T) {
	m, html := renderDefault(t)

	// Drop the Lidar row from the table entirely.
	start := strings.Index(html, `<tr data-row="Lidar Companies Multiple">`)
	end := strings.Index(html[start:], "</tr>")
	if start < 0 || end < 0 {
		t.Fatal("fixture did not contain the Lidar row")
	}
	cut := html[:start] + html[start+end+len("</tr>"):]

	rep, err := Check([]byte(cut), m)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	var rows bool
	for _, i := range rep.Issues {
		if i.Metric == "rows" && i.Rendered == "3" && i.Expected == "4" {
			rows = true
		}
	}
	if !rows {
		t.Errorf("missing row count issue: %+v", rep.Issues)
	}
}

func TestCheck_UnknownScenarioAndBaselineUpside(t *testing.T) {
	m, err := valuation.Derive(dataset.Default())
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	html := `<section id="scenarios">
<span data-scenario="Robotics Multiple" data-metric="valuation">$1B</span>
<span data-scenario="Current DCF Valuation" data-metric="upside">0%</span>
</section>`
	rep, err := Check([]byte(html), m)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	var unknown, baseline bool
	for _, i := range rep.Issues {
		switch {
		case i.Scenario == "Robotics Multiple" && i.Expected == "known scenario":
			unknown = true
		case i.Scenario == "Current DCF Valuation" && i.Metric == "upside":
			baseline = true
		}
	}
	if !unknown || !baseline {
		t.Errorf("expected unknown scenario and baseline upside issues, got %+v", rep.Issues)
	}
}
