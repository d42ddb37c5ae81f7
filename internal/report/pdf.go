package report

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_reports/internal/sales"
)

const inch = 72.0

// NoResultsMessage fills the table when no sale matched.
const NoResultsMessage = "No se encontraron ventas que coincidan con los filtros."

// PDF builds the sales document and lays it out. Failures never escape,
// panics included: they come back as a 500 plain-text result.
func (r *Renderer) PDF(list []*sales.Sale) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = r.pdfFailure(fmt.Errorf("%v", rec))
		}
	}()

	r.logger.Info("generating pdf report", zap.Int("records", len(list)))

	doc := r.SalesDocument(list)

	var buf bytes.Buffer
	if err := writePDF(&buf, doc, r.styles); err != nil {
		return r.pdfFailure(err)
	}

	r.logger.Info("pdf report generated",
		zap.Int("records", doc.Records),
		zap.String("total", doc.Total.StringFixed(2)),
		zap.Int("bytes", buf.Len()))
	return Result{
		Status:      http.StatusOK,
		ContentType: "application/pdf",
		Filename:    PDFFilename,
		Body:        buf.Bytes(),
	}
}

func (r *Renderer) pdfFailure(err error) Result {
	r.logger.Error("failed to build pdf report", zap.Error(err))
	return Result{
		Status:      http.StatusInternalServerError,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte("Error generando PDF: " + err.Error()),
	}
}

// SalesDocument describes the sales report as an element flow.
func (r *Renderer) SalesDocument(list []*sales.Sale) *Document {
	st := r.styles
	now := r.now().In(r.location)

	doc := &Document{
		PageSize: "Letter",
		Margins:  Margins{Left: 0.75 * inch, Top: 1.3 * inch, Right: 0.75 * inch, Bottom: 0.75 * inch},
		Decorator: &PageDecorator{
			Brand: r.system,
			Label: "Reporte Confidencial",
			Date:  now.Format("02/01/2006"),
		},
		Records: len(list),
	}

	// Portada
	doc.Elements = append(doc.Elements,
		Spacer{Height: 0.5 * inch},
		text(st.Title, "REPORTE DE VENTAS"),
		text(st.Subtitle, "Análisis Detallado de Transacciones"),
		r.infoTable(now, len(list)),
		Spacer{Height: 0.3 * inch},
		text(st.SectionHeader, "Detalle de Transacciones"),
		Spacer{Height: 0.15 * inch},
	)

	table, total := r.salesTable(list)
	doc.Total = total
	doc.Elements = append(doc.Elements,
		table,
		Spacer{Height: 0.3 * inch},
		r.summaryTable(total),
	)
	return doc
}

func text(style TextStyle, s string) Paragraph {
	return Paragraph{Style: style, Lines: []Line{{Text: s}}}
}

func cell(paragraphs ...Paragraph) Cell {
	return Cell{Paragraphs: paragraphs}
}

func (r *Renderer) infoTable(now time.Time, records int) *Table {
	st := r.styles
	label := st.InfoBox
	label.Bold = true
	label.Color = st.Colors.Primary
	label.SpaceAfter = 0
	value := st.InfoBox
	value.SpaceAfter = 0

	row := func(k, v string) []Cell {
		return []Cell{cell(text(label, k)), cell(text(value, v))}
	}

	return &Table{
		Widths: []float64{2 * inch, 4 * inch},
		Rows: [][]Cell{
			row("Fecha de Generación:", longDateES(now)),
			row("Total de Registros:", strconv.Itoa(records)),
			row("Sistema:", r.system),
		},
		Style: TableStyle{
			ColumnFills: map[int]Color{0: st.Colors.RowAlt},
			GridWidth:   1,
			GridColor:   st.Colors.Border,
			Padding:     Padding{Top: 8, Bottom: 8, Left: 12, Right: 6},
			VAlign:      VAlignMiddle,
		},
	}
}

// salesTable builds the six-column table and the running total. The total
// adds every sale regardless of how its row renders.
func (r *Renderer) salesTable(list []*sales.Sale) (*Table, decimal.Decimal) {
	st := r.styles
	total := decimal.Zero

	if len(list) == 0 {
		return &Table{
			Widths: []float64{7 * inch},
			Rows:   [][]Cell{{cell(text(st.TableCell, NoResultsMessage))}},
			Style:  TableStyle{Padding: Padding{Top: 6, Bottom: 6, Left: 6, Right: 6}},
		}, total
	}

	header := make([]Cell, 0, 6)
	for _, h := range []string{"ID", "Fecha", "Cliente", "Monto\n(Bs.)", "Estado", "Productos"} {
		p := Paragraph{Style: st.TableHeader}
		for _, l := range strings.Split(h, "\n") {
			p.Lines = append(p.Lines, Line{Text: l})
		}
		header = append(header, cell(p))
	}

	rows := [][]Cell{header}
	for _, sale := range list {
		total = total.Add(sale.TotalAmount)
		rows = append(rows, r.saleRow(sale))
	}

	headerFill := st.Colors.Header
	return &Table{
		Widths: []float64{0.5 * inch, 0.9 * inch, 1.8 * inch, 0.8 * inch, 0.9 * inch, 2.1 * inch},
		Rows:   rows,
		Style: TableStyle{
			HeaderRows:      1,
			HeaderFill:      &headerFill,
			HeaderPadding:   &Padding{Top: 10, Bottom: 10, Left: 6, Right: 6},
			HeaderLineBelow: 2,
			HeaderLineColor: st.Colors.Primary,
			RowBackgrounds:  []Color{White, st.Colors.RowAlt},
			ColumnAlign:     map[int]Align{0: AlignCenter, 1: AlignCenter, 3: AlignRight, 4: AlignCenter},
			GridWidth:       0.5,
			GridColor:       st.Colors.Border,
			BoxWidth:        1.5,
			BoxColor:        st.Colors.Primary,
			Padding:         Padding{Top: 8, Bottom: 8, Left: 6, Right: 6},
			VAlign:          VAlignTop,
		},
	}, total
}

func (r *Renderer) saleRow(sale *sales.Sale) []Cell {
	st := r.styles
	created := sale.CreatedAt.In(r.location)

	customer := cell(text(st.TableCell, notAvailable))
	if sale.User != nil {
		customer = cell(Paragraph{Style: st.TableCell, Lines: []Line{
			{Text: sale.User.FullName(), Bold: true},
			{Text: sale.User.Email, Size: 7},
		}})
	}

	statusColor := r.StatusColor(sale.Status)
	status := cell(Paragraph{Style: st.TableCell, Lines: []Line{
		{Text: string(sale.Status), Bold: true, Color: &statusColor},
	}})

	var products Cell
	for _, d := range sale.Details {
		if d == nil {
			products.Paragraphs = append(products.Paragraphs, text(st.TableCellSmall, "• "+notAvailable))
			continue
		}
		name := notAvailable
		if d.Product != nil {
			name = d.Product.Name
		}
		products.Paragraphs = append(products.Paragraphs, Paragraph{Style: st.TableCellSmall, Lines: []Line{
			{Text: fmt.Sprintf("• %dx %s", d.Quantity, name)},
			{Text: fmt.Sprintf("Bs. %s c/u", formatAmount(d.PriceAtPurchase)), Size: 6},
		}})
	}

	return []Cell{
		cell(Paragraph{Style: st.TableCell, Lines: []Line{{Text: "#" + strconv.FormatInt(sale.ID, 10), Bold: true}}}),
		cell(Paragraph{Style: st.TableCell, Lines: []Line{
			{Text: created.Format("02/01/2006")},
			{Text: created.Format("15:04")},
		}}),
		customer,
		cell(Paragraph{Style: st.TableCell, Lines: []Line{{Text: formatAmount(sale.TotalAmount), Bold: true}}}),
		status,
		products,
	}
}

// StatusColor is the success color for completed sales and the attention color otherwise.
func (r *Renderer) StatusColor(status sales.Status) Color {
	if status == sales.StatusCompleted {
		return r.styles.Colors.Success
	}
	return r.styles.Colors.Attention
}

func (r *Renderer) summaryTable(total decimal.Decimal) *Table {
	st := r.styles
	fill := st.Colors.Primary
	return &Table{
		Widths: []float64{5 * inch, 2 * inch},
		Rows: [][]Cell{{
			cell(text(st.Summary, "TOTAL GENERAL:")),
			cell(text(st.Summary, "Bs. "+formatAmount(total))),
		}},
		Style: TableStyle{
			Fill:        &fill,
			ColumnAlign: map[int]Align{0: AlignRight, 1: AlignRight},
			Padding:     Padding{Top: 12, Bottom: 12, Left: 15, Right: 15},
			VAlign:      VAlignMiddle,
		},
	}
}
