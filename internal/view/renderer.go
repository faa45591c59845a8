// Package view renders the seat-selection page through echo's Renderer hook.
package view

import (
    "embed"
    "html/template"
    "io"

    "github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
    tmpl *template.Template
}

// NewRenderer parses the embedded templates.  A parse error is a build
// defect, so it panics.
func NewRenderer() *Renderer {
    return &Renderer{tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
    return r.tmpl.ExecuteTemplate(w, name, data)
}
