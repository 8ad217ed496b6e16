package pages

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templatesFS embed.FS

// tmpl — набор шаблонов страницы; корневой шаблон "layout".
var tmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Page возвращает компонент страницы отчёта.
func Page(v *View) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("layout"), v)
}
