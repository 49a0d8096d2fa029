package documents

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/adeka83-arch/systemklinik-sub003/pkg/terbilang"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer turns documents into printable HTML with one template per Kind.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("documents").Funcs(funcMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateParse, "failed to parse document templates", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// MustRenderer panics when the embedded templates do not parse.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// RenderReport renders a report table.
func (r *Renderer) RenderReport(doc *Document) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeEmptyDocument, "document is nil", nil)
	}
	return r.execute("report.tmpl", doc)
}

// RenderInvoice renders an invoice or receipt depending on inv.Kind.
func (r *Renderer) RenderInvoice(inv *Invoice) (string, error) {
	if inv == nil {
		return "", NewRenderError(ErrCodeEmptyDocument, "invoice is nil", nil)
	}
	name := "invoice.tmpl"
	if inv.Kind == KindReceipt {
		name = "receipt.tmpl"
	}
	return r.execute(name, inv)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateExecute, "failed to render "+name, err)
	}
	return buf.String(), nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"rupiah":    terbilang.Rupiah,
		"terbilang": terbilang.Words,
		"number":    func(d decimal.Decimal) string { return terbilang.FormatThousands(d) },
		"date":      longDate,
		"shortDate": shortDate,
		"fullDate":  fullDate,
		"add":       func(a, b int) int { return a + b },
		"positive":  func(d decimal.Decimal) bool { return d.IsPositive() },
	}
}
