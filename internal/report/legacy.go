package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// LegacyFilename is the attachment name of the template-based report.
const LegacyFilename = "sales_report.pdf"

// LegacyTemplate is the template behind GET /admin/reports/legacy.
const LegacyTemplate = "sale_report.html"

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates  = template.Must(template.ParseFS(templateFS, "templates/*.html"))
	whitespace = regexp.MustCompile(`\s+`)
)

// RenderTemplate renders the named HTML template with data and converts the
// result to PDF with fpdf's basic HTML writer. It returns nil on any failure.
//
// Deprecated: use PDF, which lays out the full sales document.
func (r *Renderer) RenderTemplate(name string, data map[string]any) []byte {
	body, err := r.renderTemplate(name, data)
	if err != nil {
		r.logger.Error("legacy pdf failed", zap.String("template", name), zap.Error(err))
		return nil
	}
	return body
}

func (r *Renderer) renderTemplate(name string, data map[string]any) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["brand"]; !ok {
		data["brand"] = r.system
	}

	var html bytes.Buffer
	if err := templates.ExecuteTemplate(&html, name, data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// El writer basico no entiende saltos de linea, solo <br>.
	src := strings.TrimSpace(whitespace.ReplaceAllString(html.String(), " "))
	hb := pdf.HTMLBasicNew()
	hb.Write(14, tr(src))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
