package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"peer_valuation/pkg/core/agent"
	"peer_valuation/pkg/core/format"
	"peer_valuation/pkg/core/prompt"
	"peer_valuation/pkg/core/utils"
	"peer_valuation/pkg/core/valuation"
)

// Narrative is the Markdown source of the two prose blocks.
type Narrative struct {
	KeyMessage string
	Thesis     string
	Drafted    bool // Thesis came from a model rather than the template
}

// narrativeFacts are the formatted figures the prose quotes.
type narrativeFacts struct {
	Company          string
	Year             int
	Revenue          string
	Baseline         string
	BaselineMultiple string
	PeerRange        string
	ValueLow         string
	ValueHigh        string
	UpsideLow        string
	UpsideHigh       string
	PeerNames        string
}

const keyMessageTmpl = `{{.Company}} is currently valued at **{{.BaselineMultiple}} revenue** based on DCF analysis. ` +
	`However, applying **peer group multiples** of {{.PeerRange}} to {{.Company}}'s projected {{.Year}} revenue of ` +
	`**{{.Revenue}}** implies enterprise values ranging from **{{.ValueLow}} to {{.ValueHigh}}**, representing ` +
	`**{{.UpsideLow}} to {{.UpsideHigh}} upside**.`

const thesisTmpl = `This analysis demonstrates that {{.Company}}'s current DCF valuation of **{{.Baseline}}** ` +
	`({{.BaselineMultiple}} revenue) is **significantly below industry standards**. Comparable companies across ` +
	`{{.PeerNames}} trade at **{{.PeerRange}} revenue multiples**. As {{.Company}} executes its growth strategy and ` +
	`achieves the projected **{{.Revenue}} revenue by {{.Year}}**, the company should command similar multiples, ` +
	`implying a valuation range of **{{.ValueLow}} - {{.ValueHigh}}** and representing ` +
	`**{{.UpsideLow}} - {{.UpsideHigh}} return potential** for investors.`

var (
	keyMessage = template.Must(template.New("key_message").Parse(keyMessageTmpl))
	thesis     = template.Must(template.New("thesis").Parse(thesisTmpl))
)

func factsFor(m *valuation.Metrics) narrativeFacts {
	s := m.Summary
	var names []string
	for _, p := range m.PeersByMultiple() {
		names = append(names, p.Scenario.Name())
	}
	return narrativeFacts{
		Company:          m.Dataset.Company,
		Year:             m.Dataset.RevenueYear,
		Revenue:          format.Value(m.Dataset.BaseRevenue),
		Baseline:         format.Value(s.Baseline),
		BaselineMultiple: format.Multiple(s.BaselineMultiple),
		PeerRange:        format.MultipleRange(s.PeerMultipleLow, s.PeerMultipleHigh),
		ValueLow:         format.Compact(s.PeerValuationLow),
		ValueHigh:        format.Compact(s.PeerValuationHigh),
		UpsideLow:        format.Multiple(s.UpsideMultipleLow),
		UpsideHigh:       format.Multiple(s.UpsideMultipleHigh),
		PeerNames:        joinNames(names),
	}
}

// joinNames renders "A, B, and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "its peer groups"
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}

// TemplateNarrative fills the deterministic prose from the metrics.
func TemplateNarrative(m *valuation.Metrics) (Narrative, error) {
	facts := factsFor(m)
	var km, th bytes.Buffer
	if err := keyMessage.Execute(&km, facts); err != nil {
		return Narrative{}, fmt.Errorf("key message: %w", err)
	}
	if err := thesis.Execute(&th, facts); err != nil {
		return Narrative{}, fmt.Errorf("thesis: %w", err)
	}
	return Narrative{KeyMessage: km.String(), Thesis: th.String()}, nil
}

// Drafter asks a model to rewrite the investment thesis. Any failure keeps
// the template text. A nil Prompts uses the embedded prompts.
type Drafter struct {
	Manager *agent.Manager
	Prompts *prompt.Registry
	Timeout time.Duration
}

// Draft returns the template narrative with the thesis replaced by a model
// draft when one is configured and succeeds.
func (d *Drafter) Draft(ctx context.Context, m *valuation.Metrics) (Narrative, error) {
	n, err := TemplateNarrative(m)
	if err != nil {
		return Narrative{}, err
	}
	if d == nil || d.Manager == nil || d.Manager.GetProvider("thesis") == nil {
		return n, nil
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompts := d.Prompts
	if prompts == nil {
		prompts = prompt.Defaults()
	}
	pt, err := prompts.GetPrompt(prompt.ThesisID)
	if err != nil {
		fmt.Printf("[NARRATIVE] %v, using template\n", err)
		return n, nil
	}
	user, err := prompt.RenderUserPrompt(pt, prompt.NewContext().
		Set("Company", m.Dataset.Company).
		Set("Thesis", n.Thesis))
	if err != nil {
		fmt.Printf("[NARRATIVE] %v, using template\n", err)
		return n, nil
	}

	out, err := d.Manager.ExecutePrompt(ctx, "thesis", user, pt.SystemPrompt, nil)
	if err != nil {
		fmt.Printf("[NARRATIVE] Draft failed, using template: %v\n", err)
		return n, nil
	}
	drafted := utils.CleanMarkdown(out)
	if !utils.ValidateMarkdown(drafted) {
		fmt.Println("[NARRATIVE] Draft was empty, using template")
		return n, nil
	}
	n.Thesis = drafted
	n.Drafted = true
	fmt.Printf("[NARRATIVE] Thesis drafted by model (%d chars)\n", len(drafted))
	return n, nil
}
