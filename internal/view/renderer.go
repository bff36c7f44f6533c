package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Toast levels, used as CSS classes
const (
	ToastInfo    = "info"
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a transient message shown once after an action
// TotalEntries, when set, is the geo service record count right after it.
type Toast struct {
	Level        string
	Message      string
	TotalEntries *uint64 `json:",omitempty"`
}

// Page is the data handed to the console template
type Page struct {
	View  PageView
	Toast *Toast
}

// Renderer draws the console page from the embedded template
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("console.html").ParseFS(templateFS, "templates/console.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse console template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full HTML page
// Output is buffered: on a template error nothing is written to w.
func (r *Renderer) Render(w io.Writer, page Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, page); err != nil {
		return fmt.Errorf("failed to render console: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
