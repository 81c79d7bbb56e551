// Package view renders the HTML pages from templates embedded in the binary.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/gometeo/cityweather/internal/controller"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one template set each.
const (
	PageIndex   = controller.ViewIndex
	PageFreedom = controller.ViewFreedom
	PageResults = controller.ViewResults
	PageAbout   = "about"
	PageError   = "error"
)

var pages = []string{PageIndex, PageFreedom, PageResults, PageAbout, PageError}

// Data is everything a page template can reach.
type Data struct {
	Title      string
	MapsAPIKey string
	Weather    *controller.Page
	Results    *controller.Results
	Error      *ErrorInfo
}

type ErrorInfo struct {
	Status  int
	Message string
}

var funcs = template.FuncMap{
	"round":   func(v float64) int { return int(math.Round(v)) },
	"safeCSS": func(s string) template.CSS { return template.CSS(s) },
	"clock": func(unix int64, offset int) string {
		if unix == 0 {
			return ""
		}
		return time.Unix(unix, 0).In(time.FixedZone("", offset)).Format("15:04")
	},
}

type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page together with the shared layout and partials.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/weather.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render executes the named page into a buffer first so a template failure
// never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data Data) error {
	var buf bytes.Buffer
	if err := r.Execute(&buf, name, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) Execute(w io.Writer, name string, data Data) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
