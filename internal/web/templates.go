// Package web renders the portfolio's HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"portfolio/internal/i18n"
)

//go:embed templates/*.html templates/pages/*.html
var templatesFS embed.FS

// Templates holds one parsed template set per page, each sharing the layout.
type Templates struct {
	pages map[string]*template.Template
}

var funcMap = template.FuncMap{
	"t":      i18n.T,
	"toggle": i18n.Toggle,
	"upper":  strings.ToUpper,
	// safeHTML marks trusted, compiled-in content
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
}

// NewTemplates parses the layout together with every embedded page.
func NewTemplates() (*Templates, error) {
	pages, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	t := &Templates{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		t.pages[path.Base(page)] = tmpl
	}

	return t, nil
}

// Render renders a page inside the layout with the given status.
// Nothing is written if execution fails.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
