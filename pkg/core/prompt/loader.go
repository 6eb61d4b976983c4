package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"peer_valuation/pkg/core/utils"
)

//go:embed prompts
var defaultFS embed.FS

// ThesisID is the prompt used to redraft the investment thesis.
const ThesisID = "narrative.thesis"

// Defaults returns a registry holding the embedded prompts.
func Defaults() *Registry {
	r := NewRegistry()
	if err := load(r, defaultFS, "prompts"); err != nil {
		panic(fmt.Sprintf("embedded prompts are invalid: %v", err))
	}
	return r
}

// LoadFromDirectory overlays every .json prompt under dir onto r.
// Expected structure:
//
//	dir/
//	  narrative/
//	    thesis.json
func LoadFromDirectory(r *Registry, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}
	before := r.Count()
	if err := load(r, os.DirFS(dir), "."); err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}
	fmt.Printf("[PROMPT] Loaded prompts from %s (%d -> %d)\n", dir, before, r.Count())
	return nil
}

func load(r *Registry, fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		// Hand-edited prompt files often carry trailing commas.
		var pt PromptTemplate
		if _, err := utils.SmartParse(string(data), &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", p, err)
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if pt.ID == "" {
			pt.ID = generateIDFromPath(rel)
		}
		if pt.Category == "" {
			pt.Category = detectCategory(rel)
		}

		if err := r.Register(&pt); err != nil {
			return fmt.Errorf("failed to register %s: %w", pt.ID, err)
		}
		return nil
	})
}

// generateIDFromPath creates a prompt ID from the file path
// e.g., "narrative/thesis.json" -> "narrative.thesis"
func generateIDFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, ".json")
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}

// detectCategory extracts the category from the folder structure
func detectCategory(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}

// RenderUserPrompt executes the user prompt template with the given
// context. Declared defaults fill missing variables; a missing required
// variable is an error.
func RenderUserPrompt(pt *PromptTemplate, ctx *PromptExecutionContext) (string, error) {
	if pt.UserPromptTmpl == "" {
		return "", nil
	}

	vars := make(map[string]interface{}, len(ctx.Variables)+len(pt.Variables))
	for _, v := range pt.Variables {
		if v.Default != "" {
			vars[v.Name] = v.Default
		}
	}
	for k, v := range ctx.Variables {
		vars[k] = v
	}
	for _, v := range pt.Variables {
		if _, ok := vars[v.Name]; v.Required && !ok {
			return "", fmt.Errorf("prompt %s: missing required variable %s", pt.ID, v.Name)
		}
	}

	tmpl, err := template.New(pt.ID).Option("missingkey=error").Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
