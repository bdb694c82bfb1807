package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/fraktkalkulator/internal/receipt"
)

//go:embed templates/*.html
var templateFiles embed.FS

// pages maps a page file name to its template set (layout plus page).
type pages map[string]*template.Template

var pageNames = []string{"calculator.html", "login.html", "estimates.html"}

var templateFuncs = template.FuncMap{
	"kroner": receipt.FormatKroner,
	"meters": receipt.FormatLoadingMeters,
	"qty":    receipt.FormatQuantity,
	"date":   receipt.FormatDate,
}

func loadPages() (pages, error) {
	p := make(pages, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p[name] = t
	}
	return p, nil
}

// renderTemplate executes page into a buffer first so a failed render never
// leaves a half-written response.
func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.pages[page]
	if !ok {
		s.logger.Error("unknown template", zap.String("page", page))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
