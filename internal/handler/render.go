package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/taskmaster-app/taskmaster/web"
)

// parseTemplates parses the embedded view templates once per handler set.
func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"deref": func(p *int64) int64 {
			if p == nil {
				return 0
			}
			return *p
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html"))
}

func render(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("render template", "template", name, "error", err)
	}
}
