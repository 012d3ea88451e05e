package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hugh/raid-finder/internal/database/models"
)

//go:embed templates
var TemplatesFS embed.FS

//go:embed static
var StaticFS embed.FS

// Templates holds one template set per page so every page can define its
// own "content" block.
type Templates struct {
	pages map[string]*template.Template
}

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
	"races":          func() []string { return models.Races },
	"roles":          func() []string { return models.Roles },
	"eventStatuses":  func() []models.EventStatus { return models.EventStatuses },
	"playerStatuses": func() []models.PlayerStatus { return models.PlayerStatuses },
}

// LoadTemplates parses all templates from the embedded filesystem
// Each page gets its own template set with the base layout and partials
func LoadTemplates() (*Templates, error) {
	shared, err := readDir("templates/layouts", "templates/partials")
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(TemplatesFS, "templates/pages")
	if err != nil {
		return nil, err
	}

	t := &Templates{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		pageContent, err := fs.ReadFile(TemplatesFS, "templates/pages/"+entry.Name())
		if err != nil {
			return nil, err
		}

		pageTmpl := template.New(entry.Name()).Funcs(Funcs)
		for _, src := range shared {
			if _, err := pageTmpl.Parse(src); err != nil {
				return nil, fmt.Errorf("parsing layout for %s: %w", entry.Name(), err)
			}
		}
		if _, err := pageTmpl.Parse(string(pageContent)); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		t.pages[entry.Name()] = pageTmpl
	}

	return t, nil
}

func readDir(dirs ...string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		entries, err := fs.ReadDir(TemplatesFS, dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			b, err := fs.ReadFile(TemplatesFS, path.Join(dir, entry.Name()))
			if err != nil {
				return nil, err
			}
			out = append(out, string(b))
		}
	}
	return out, nil
}

// Has reports whether a page template exists.
func (t *Templates) Has(name string) bool {
	_, ok := t.pages[name]
	return ok
}

// Render executes a page into w. Nothing is written when execution fails.
func (t *Templates) Render(w io.Writer, name string, data interface{}) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// GetStaticFS returns the static file system for serving static files
func GetStaticFS() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
