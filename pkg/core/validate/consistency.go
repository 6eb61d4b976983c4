// Package validate checks a rendered report against the metrics it was
// generated from. Every figure the report prints is tagged with
// data-metric (and data-scenario where it belongs to one); Check re-derives
// the expected text for each tag and reports any disagreement.
package validate

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"peer_valuation/pkg/core/format"
	"peer_valuation/pkg/core/valuation"
)

// =============================================================================
// CONSISTENCY REPORT
// =============================================================================

// Issue is one figure (or structural element) that disagrees with the
// metrics.
type Issue struct {
	Section  string `json:"section"`
	Scenario string `json:"scenario,omitempty"`
	Metric   string `json:"metric"`
	Rendered string `json:"rendered"`
	Expected string `json:"expected"`
}

func (i Issue) String() string {
	where := i.Section
	if i.Scenario != "" {
		where += "/" + i.Scenario
	}
	return fmt.Sprintf("%s %s: rendered %q, expected %q", where, i.Metric, i.Rendered, i.Expected)
}

// Report summarises a consistency check.
type Report struct {
	Checked   int     `json:"checked"`
	AllPassed bool    `json:"all_passed"`
	Issues    []Issue `json:"issues,omitempty"`
}

func (r *Report) add(i Issue) {
	r.Issues = append(r.Issues, i)
}

// =============================================================================
// CHECK
// =============================================================================

// Check parses html and compares every tagged figure with m.
func Check(html []byte, m *valuation.Metrics) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	byLabel := make(map[string]valuation.ScenarioMetrics, len(m.Scenarios))
	for _, sm := range m.Scenarios {
		byLabel[normalize(sm.Scenario.Label)] = sm
	}

	rep := &Report{}
	seen := make(map[string]bool)

	doc.Find("[data-metric]").Each(func(_ int, s *goquery.Selection) {
		rep.Checked++
		metric := strings.TrimPrefix(s.AttrOr("data-metric", ""), "callout-")
		scenario := normalize(s.AttrOr("data-scenario", ""))
		rendered := strings.TrimSpace(s.Text())
		issue := Issue{
			Section:  sectionOf(s),
			Scenario: scenario,
			Metric:   metric,
			Rendered: rendered,
		}

		if metric == "revenue" {
			if want := format.Value(m.Dataset.BaseRevenue); rendered != want {
				issue.Expected = want
				rep.add(issue)
			}
			return
		}

		sm, ok := byLabel[scenario]
		if !ok {
			issue.Expected = "known scenario"
			rep.add(issue)
			return
		}
		if metric == "valuation" {
			seen[scenario] = true
		}

		want, ok := expected(sm, metric)
		if !ok {
			issue.Expected = "no " + metric
			rep.add(issue)
			return
		}
		if strings.TrimPrefix(rendered, "+") != want {
			issue.Expected = want
			rep.add(issue)
		}
	})

	for _, sm := range m.Scenarios {
		if label := normalize(sm.Scenario.Label); !seen[label] {
			rep.add(Issue{Section: "report", Scenario: label, Metric: "valuation", Expected: format.Value(sm.Valuation)})
		}
	}

	checkCount(rep, doc, "#analysis tbody tr", "analysis", "rows", len(m.Scenarios))
	checkCount(rep, doc, "#scenarios .card", "scenarios", "cards", len(m.Scenarios))
	checkPeerOrder(rep, doc, m)

	rep.AllPassed = len(rep.Issues) == 0
	if !rep.AllPassed {
		fmt.Printf("[VALIDATE] %d of %d figures inconsistent\n", len(rep.Issues), rep.Checked)
	}
	return rep, nil
}

// expected returns the text a scenario figure must render as. Upside is
// compared without its sign.
func expected(sm valuation.ScenarioMetrics, metric string) (string, bool) {
	switch metric {
	case "valuation":
		return format.Value(sm.Valuation), true
	case "multiple":
		return format.Multiple(sm.Scenario.Multiple), true
	case "upside":
		if sm.Upside == nil {
			return "", false
		}
		return format.Percent(*sm.Upside), true
	}
	return "", false
}

func checkCount(rep *Report, doc *goquery.Document, selector, section, what string, want int) {
	got := doc.Find(selector).Length()
	if got != want {
		rep.add(Issue{
			Section:  section,
			Metric:   what,
			Rendered: fmt.Sprintf("%d", got),
			Expected: fmt.Sprintf("%d", want),
		})
	}
}

// checkPeerOrder verifies the assumptions panel lists peers highest
// multiple first.
func checkPeerOrder(rep *Report, doc *goquery.Document, m *valuation.Metrics) {
	var got []string
	doc.Find("#assumptions .kv [data-metric=multiple]").Each(func(_ int, s *goquery.Selection) {
		got = append(got, normalize(s.AttrOr("data-scenario", "")))
	})
	var want []string
	for _, p := range m.PeersByMultiple() {
		want = append(want, normalize(p.Scenario.Label))
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		rep.add(Issue{
			Section:  "assumptions",
			Metric:   "peer order",
			Rendered: strings.Join(got, ", "),
			Expected: strings.Join(want, ", "),
		})
	}
}

func sectionOf(s *goquery.Selection) string {
	if id, ok := s.Closest("[id]").Attr("id"); ok {
		return id
	}
	return "report"
}

// normalize collapses the line breaks chart labels carry.
func normalize(label string) string {
	return strings.Join(strings.Fields(label), " ")
}
