// Package report assembles the valuation comparison page: derived
// figures, charts, narrative and data notes, rendered with html/template.
package report

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"peer_valuation/pkg/core/chart"
	"peer_valuation/pkg/core/format"
	"peer_valuation/pkg/core/market"
	"peer_valuation/pkg/core/utils"
	"peer_valuation/pkg/core/valuation"
)

// Card is one scenario in the "Valuation Scenarios" panel.
type Card struct {
	Label    string
	Name     string
	Multiple string
	Value    string
	Upside   string
	Note     string
	Color    string
	Baseline bool
}

// Row is one line of the detailed multiple analysis table.
type Row struct {
	Label    string
	Multiple string
	Revenue  string
	Value    string
	Upside   string // empty for the baseline
	Color    string
	Baseline bool
}

// RangeItem is one of the conservative / mid-point / optimistic lines.
type RangeItem struct {
	Caption string
	Label   string
	Value   string
}

// PeerMultiple lists a peer group's multiple in the assumptions panel.
type PeerMultiple struct {
	Label    string
	Name     string
	Multiple string
	Color    string
}

// MultipleLine is one bar of the multiples ranking, as printed under it.
type MultipleLine struct {
	Label    string
	Multiple string
	Company  bool
}

// MarketSection is rendered when the dataset carries a market projection.
// Share is empty when the revenue year falls outside the projection.
type MarketSection struct {
	Name       string
	SVG        template.HTML
	Start      string
	End        string
	CAGR       string
	Points     []market.Point
	Company    string
	Year       int
	Revenue    string
	MarketSize string
	Share      string
}

// Page is the complete view model handed to the template.
type Page struct {
	Title       string
	Subtitle    string
	ChartTitle  string
	KeyMessage  template.HTML
	Thesis      template.HTML
	Drafted     bool
	ChartSVG    template.HTML
	Callouts    []chart.Callout

	MultiplesTitle string
	MultiplesSVG   template.HTML
	Multiples      []MultipleLine

	Cards       []Card
	Revenue     string
	RevenueYear int
	Peers       []PeerMultiple
	Range       []RangeItem
	Rows        []Row
	Market      *MarketSection
	Notes       []valuation.Finding
	GeneratedAt string
}

// Options tune Build. A nil Drafter renders the template narrative.
type Options struct {
	Drafter     *Drafter
	Chart       chart.Config
	GeneratedAt time.Time
}

// Build derives every section of the page from m.
func Build(ctx context.Context, m *valuation.Metrics, opts Options) (*Page, error) {
	ds := m.Dataset
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	if opts.Chart.Width == 0 {
		opts.Chart = chart.DefaultConfig()
	}

	narrative, err := opts.Drafter.Draft(ctx, m)
	if err != nil {
		return nil, err
	}
	keyHTML, err := utils.RenderMarkdown(narrative.KeyMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to render key message: %w", err)
	}
	thesisHTML, err := utils.RenderMarkdown(narrative.Thesis)
	if err != nil {
		return nil, fmt.Errorf("failed to render thesis: %w", err)
	}

	svg, err := chart.Scenarios(m, opts.Chart)
	if err != nil {
		return nil, err
	}
	multiplesSVG, err := chart.Multiples(m, opts.Chart)
	if err != nil {
		return nil, err
	}

	revenue := format.Value(ds.BaseRevenue)
	page := &Page{
		Title:       fmt.Sprintf("%s Valuation at Peer Multiples", ds.Company),
		Subtitle:    fmt.Sprintf("Applying Industry Multiples to %s's %d Revenue (%s)", ds.Company, ds.RevenueYear, revenue),
		ChartTitle:  fmt.Sprintf("%s Enterprise Value Under Different Multiple Scenarios", ds.Company),
		KeyMessage:  template.HTML(keyHTML),
		Thesis:      template.HTML(thesisHTML),
		Drafted:     narrative.Drafted,
		ChartSVG:    template.HTML(svg),
		Callouts:    chart.Callouts(m),

		MultiplesTitle: fmt.Sprintf("%s's Forward Revenue Multiple vs. Peers", ds.Company),
		MultiplesSVG:   template.HTML(multiplesSVG),

		Revenue:     revenue,
		RevenueYear: ds.RevenueYear,
		Notes:       valuation.Reconcile(m),
		GeneratedAt: opts.GeneratedAt.Format("2006-01-02 15:04 MST"),
	}

	for i, sm := range m.Scenarios {
		s := sm.Scenario
		color := chart.ScenarioColor(s, i)
		card := Card{
			Label:    s.Label,
			Name:     s.Name(),
			Multiple: format.Multiple(s.Multiple),
			Value:    format.Value(sm.Valuation),
			Note:     s.Note,
			Color:    color,
			Baseline: s.IsBaseline(),
		}
		row := Row{
			Label:    s.Label,
			Multiple: card.Multiple,
			Revenue:  revenue,
			Value:    card.Value,
			Color:    color,
			Baseline: card.Baseline,
		}
		if sm.Upside != nil {
			card.Upside = format.Percent(*sm.Upside)
			row.Upside = format.SignedPercent(*sm.Upside)
		}
		page.Cards = append(page.Cards, card)
		page.Rows = append(page.Rows, row)
	}

	for _, p := range m.PeersByMultiple() {
		page.Peers = append(page.Peers, PeerMultiple{
			Label:    p.Scenario.Label,
			Name:     p.Scenario.Name(),
			Multiple: format.Multiple(p.Scenario.Multiple),
			Color:    colorOf(m, p.Scenario.Label),
		})
	}
	for _, b := range chart.MultipleBars(m) {
		page.Multiples = append(page.Multiples, MultipleLine{
			Label:    b.Label,
			Multiple: format.Multiple(b.Multiple),
			Company:  b.Company,
		})
	}
	page.Range = rangeItems(m)

	if ds.Market != nil {
		sec, err := marketSection(ds, opts.Chart)
		if err != nil {
			fmt.Printf("[WARNING] Market section skipped: %v\n", err)
		} else {
			page.Market = sec
		}
	}
	return page, nil
}

func rangeItems(m *valuation.Metrics) []RangeItem {
	s := m.Summary
	if s.Peers == 0 {
		return nil
	}
	return []RangeItem{
		{Caption: fmt.Sprintf("Conservative (%s)", format.Multiple(s.PeerMultipleLow)), Label: s.PeerLabelLow, Value: format.Value(s.PeerValuationLow)},
		{Caption: fmt.Sprintf("Mid-point (%s)", format.Multiple(s.PeerMultipleMid)), Label: s.PeerLabelMid, Value: format.Value(s.PeerValuationMid)},
		{Caption: fmt.Sprintf("Optimistic (%s)", format.Multiple(s.PeerMultipleHigh)), Label: s.PeerLabelHigh, Value: format.Value(s.PeerValuationHigh)},
	}
}

func colorOf(m *valuation.Metrics, label string) string {
	for i, sm := range m.Scenarios {
		if sm.Scenario.Label == label {
			return chart.ScenarioColor(sm.Scenario, i)
		}
	}
	return ""
}

func marketSection(ds valuation.Dataset, cfg chart.Config) (*MarketSection, error) {
	spec := *ds.Market
	points, err := market.Project(spec)
	if err != nil {
		return nil, err
	}
	svg, err := chart.Market(spec.Name, points, cfg)
	if err != nil {
		return nil, err
	}
	sec := &MarketSection{
		Name:    spec.Name,
		SVG:     template.HTML(svg),
		Start:   format.Billions(points[0].Size),
		End:     format.Billions(points[len(points)-1].Size),
		CAGR:    fmt.Sprintf("%.1f%%", spec.CAGR*100),
		Points:  points,
		Company: ds.Company,
		Year:    ds.RevenueYear,
		Revenue: format.Value(ds.BaseRevenue),
	}
	if size, ok := market.SizeIn(points, ds.RevenueYear); ok {
		sec.MarketSize = format.Billions(size)
		sec.Share = format.PercentTenths(market.Share(ds.BaseRevenue, size))
	}
	return sec, nil
}
