package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// baseFuncs are replaced per request in Render.
var baseFuncs = template.FuncMap{
	"csrfField": func() template.HTML { return "" },
}

// Renderer executes one page template inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates. Every file except layout.html
// becomes a page named after the file.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS, "templates")
}

func newRenderer(fsys fs.FS, dir string) (*Renderer, error) {
	layout := path.Join(dir, "layout.html")
	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layout {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(baseFuncs).ParseFS(fsys, layout, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render implements echo.Renderer. Pages are executed on a clone so each
// request gets its own CSRF field.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	t, err := page.Clone()
	if err != nil {
		return fmt.Errorf("clone template %s: %w", name, err)
	}
	field := csrfInput(csrfToken(c))
	t.Funcs(template.FuncMap{"csrfField": func() template.HTML { return field }})
	return t.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page template named name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
