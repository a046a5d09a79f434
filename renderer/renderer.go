// Package renderer turns account reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderStatement renders the Statement struct to a markdown string.
func RenderStatement(s *Statement) string {
	partials := map[string]string{
		"statement_title":     "statement_title.md",
		"statement_summary":   "statement_summary.md",
		"statement_positions": "statement_positions.md",
		"statement_orders":    "statement_orders.md",
		"statement_trades":    "statement_trades.md",
	}
	return renderTemplate("statement", "statement.md", partials, s)
}

// RenderMovingAverages renders the MovingAverages struct to a markdown string.
func RenderMovingAverages(m *MovingAverages) string {
	return renderTemplate("movingAverages", "moving_averages.md", nil, m)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
