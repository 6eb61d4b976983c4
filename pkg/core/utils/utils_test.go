package utils

import (
	"strings"
	"testing"
)

func TestCleanMarkdown(t *testing.T) {
	tests := map[string]string{
		"```markdown\n# Thesis\n```": "# Thesis",
		"```\nplain\n```":            "plain",
		"  **bold**  ":               "**bold**",
	}
	for in, want := range tests {
		if got := CleanMarkdown(in); got != want {
			t.Errorf("CleanMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("Valued at **1.3x revenue**.\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(html, "<strong>1.3x revenue</strong>") {
		t.Errorf("expected strong tag, got %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw HTML must not pass through: %s", html)
	}
	if !ValidateMarkdown("# heading") {
		t.Errorf("ValidateMarkdown rejected a heading")
	}
	if ValidateMarkdown("") {
		t.Errorf("ValidateMarkdown accepted empty input")
	}
}

func TestSmartParse(t *testing.T) {
	type payload struct {
		Company  string  `json:"company"`
		Multiple float64 `json:"multiple"`
	}

	inputs := []string{
		`{"company": "Voyant", "multiple": 5.77}`,
		`{company: 'Voyant', multiple: 5.77,}`,
		"{\n  # comment\n  company: Voyant\n  multiple: 5.77\n}",
	}
	for _, in := range inputs {
		var p payload
		if _, err := SmartParse(in, &p); err != nil {
			t.Errorf("SmartParse(%q): %v", in, err)
			continue
		}
		if p.Company != "Voyant" || p.Multiple != 5.77 {
			t.Errorf("SmartParse(%q) = %+v", in, p)
		}
	}
}

func TestParseHJSON(t *testing.T) {
	out, err := ParseHJSON("{\n  # peer group\n  group: Lidar\n  ev_revenue: 8.99\n}")
	if err != nil {
		t.Fatalf("ParseHJSON: %v", err)
	}
	if !strings.Contains(out, `"group":"Lidar"`) {
		t.Errorf("ParseHJSON = %s", out)
	}
}
