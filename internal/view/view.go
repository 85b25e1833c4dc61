// Package view renders the server-side HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/fourloop/sourceflow/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render
const (
	PageList   = "list"
	PageNew    = "new"
	PageEdit   = "edit"
	PageDetail = "detail"
	PageError  = "error"
)

var pages = []string{PageList, PageNew, PageEdit, PageDetail, PageError}

// ListData is the model of the list page
type ListData struct {
	Requests []domain.RequestView
}

// FormData is the model of the new and edit pages. RequestID is zero on the new page.
type FormData struct {
	RequestID int64
	Form      domain.RequestForm
	Errors    domain.FieldErrors
	Statuses  []domain.StatusOption
}

// DetailData is the model of the detail page
type DetailData struct {
	Detail    *domain.RequestDetail
	NoteText  string
	NoteError string
}

// ErrorData is the model of the error page
type ErrorData struct {
	Heading string
	Message string
	BackURL string
}

type layoutData struct {
	AppName string
	Title   string
	Data    any
}

// Renderer executes a page inside the shared layout
type Renderer struct {
	appName   string
	templates map[string]*template.Template
}

// NewRenderer parses every page with the layout and partials
func NewRenderer(appName string) (*Renderer, error) {
	funcMap := template.FuncMap{
		"fieldError": func(errs domain.FieldErrors, field string) string {
			return errs[field]
		},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("layout").Funcs(funcMap).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{appName: appName, templates: templates}, nil
}

// Render writes the page with the given status. Nothing is written if execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page, title string, data any) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", layoutData{AppName: r.appName, Title: title, Data: data}); err != nil {
		return fmt.Errorf("failed to render %s page: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and script. Mount it with the /static/ prefix stripped.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
