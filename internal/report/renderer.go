package report

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"api_reports/internal/sales"
)

// Report formats.
const (
	FormatCSV   = "csv"
	FormatPDF   = "pdf"
	FormatExcel = "excel"
)

// Attachment names.
const (
	CSVFilename = "reporte_ventas_filtrado.csv"
	PDFFilename = "reporte_ventas_moderno.pdf"
)

// ErrUnsupportedFormat is returned by Render for anything outside csv, pdf and excel.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Result is a rendered report ready to be written to an HTTP response.
// Filename is empty when the result is not an attachment.
type Result struct {
	Status      int
	ContentType string
	Filename    string
	Body        []byte
	Message     string
}

// Renderer turns sale lists into report documents.
type Renderer struct {
	styles   Stylesheet
	system   string
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithClock overrides the time source used for generation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithLocation sets the zone dates are printed in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.location = loc }
}

// WithSystemName sets the brand printed on the cover and page header.
func WithSystemName(name string) Option {
	return func(r *Renderer) { r.system = name }
}

// NewRenderer creates a Renderer bound to an immutable stylesheet.
func NewRenderer(styles Stylesheet, logger *zap.Logger, opts ...Option) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{
		styles:   styles,
		system:   "SmartSales365",
		location: time.UTC,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsSupported reports whether Render knows format. Case-insensitive.
func IsSupported(format string) bool {
	switch strings.ToLower(format) {
	case FormatCSV, FormatPDF, FormatExcel:
		return true
	}
	return false
}

// Render dispatches to the renderer for format.
func (r *Renderer) Render(format string, list []*sales.Sale) (Result, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return r.CSV(list), nil
	case FormatPDF:
		return r.PDF(list), nil
	case FormatExcel:
		return r.Excel(list), nil
	default:
		return Result{}, ErrUnsupportedFormat
	}
}

// Excel is not implemented and always answers 501 without a document.
func (r *Renderer) Excel(_ []*sales.Sale) Result {
	r.logger.Warn("excel report requested but not implemented")
	return Result{
		Status:  http.StatusNotImplemented,
		Message: "Formato Excel aún no implementado.",
	}
}
