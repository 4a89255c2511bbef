// Package web holds the storefront page templates.
package web

import (
	"embed"
	"html/template"
	"strings"

	"pizza-storefront/models"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// IndexTemplate is the name of the storefront page.
const IndexTemplate = "index.tmpl"

// PageData is everything the storefront page renders.
type PageData struct {
	Loading        bool
	Menu           []models.MenuItem
	Cart           models.CartSummary
	Notice         string
	IdempotencyKey string
	Sizes          []models.Size
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"sizeLabel": func(s models.Size) string {
		if s == "" {
			return ""
		}
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	},
}

// Templates parses the embedded templates. It panics on a malformed template
// since they are compiled into the binary.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}
