package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"peer_valuation/pkg/core/valuation"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// Render writes the page as a standalone HTML document.
func Render(w io.Writer, p *Page) error {
	if err := pageTemplate.ExecuteTemplate(w, "report.html.tmpl", p); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// Generate builds and renders the report for m in one step.
func Generate(ctx context.Context, m *valuation.Metrics, opts Options) ([]byte, error) {
	page, err := Build(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Render(&buf, page); err != nil {
		return nil, err
	}
	fmt.Printf("[REPORT] Rendered %s report (%d bytes, %d notes)\n", m.Dataset.Company, buf.Len(), len(page.Notes))
	return buf.Bytes(), nil
}
