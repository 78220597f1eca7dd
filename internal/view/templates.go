package view

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/laporan-latin/laporan-latin/internal/shared"
	"github.com/laporan-latin/laporan-latin/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	User        string
	Data        any
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"rupiah": shared.FormatRupiah,
		"number": shared.FormatNumber,
		"count":  func(v int) string { return shared.FormatNumber(int64(v)) },
		"add":    func(a, b int) int { return a + b },
		"active": func(current, prefix string) bool {
			return len(current) >= len(prefix) && current[:len(prefix)] == prefix
		},
		"query": func(pairs ...any) (template.URL, error) {
			if len(pairs)%2 != 0 {
				return "", fmt.Errorf("query: odd number of arguments")
			}
			values := url.Values{}
			for i := 0; i < len(pairs); i += 2 {
				key := fmt.Sprint(pairs[i])
				switch v := pairs[i+1].(type) {
				case int:
					values.Set(key, strconv.Itoa(v))
				default:
					values.Set(key, fmt.Sprint(v))
				}
			}
			return template.URL(values.Encode()), nil
		},
	}
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(Funcs()).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
