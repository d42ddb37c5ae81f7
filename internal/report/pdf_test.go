package report

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_reports/internal/sales"
)

func TestSalesDocument_TotalSumsEverySale(t *testing.T) {
	r := newTestRenderer(t)

	a := widgetSale()
	b := widgetSale()
	b.ID = 1002
	b.TotalAmount = decimal.RequireFromString("1000.25")
	b.User = nil
	b.Details = nil

	doc := r.SalesDocument([]*sales.Sale{a, b})

	assert.Equal(t, 2, doc.Records)
	assert.True(t, decimal.RequireFromString("1150.75").Equal(doc.Total), "got %s", doc.Total)

	tables := tablesOf(doc)
	require.Len(t, tables, 3, "info, detail and summary tables")

	summary := tables[2]
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, []string{"TOTAL GENERAL:"}, cellText(summary.Rows[0][0]))
	assert.Equal(t, []string{"Bs. 1,150.75"}, cellText(summary.Rows[0][1]))
}

func TestSalesDocument_InfoTable(t *testing.T) {
	doc := newTestRenderer(t).SalesDocument([]*sales.Sale{widgetSale()})

	info := tablesOf(doc)[0]
	require.Len(t, info.Rows, 3)
	assert.Equal(t, []string{"10 de marzo de 2025, 14:05"}, cellText(info.Rows[0][1]))
	assert.Equal(t, []string{"1"}, cellText(info.Rows[1][1]))
	assert.Equal(t, []string{"SmartSales365"}, cellText(info.Rows[2][1]))

	require.NotNil(t, doc.Decorator)
	assert.Equal(t, "10/03/2025", doc.Decorator.Date)
	assert.Equal(t, "Reporte Confidencial", doc.Decorator.Label)
}

func TestSalesDocument_Rows(t *testing.T) {
	r := newTestRenderer(t)
	anon := widgetSale()
	anon.ID = 1002
	anon.Status = sales.StatusPending
	anon.User = nil

	detail := tablesOf(r.SalesDocument([]*sales.Sale{widgetSale(), anon}))[1]
	require.Len(t, detail.Rows, 3, "header plus two sales")
	assert.Equal(t, 1, detail.Style.HeaderRows)
	require.Len(t, detail.Widths, 6)

	row := detail.Rows[1]
	assert.Equal(t, []string{"#1001"}, cellText(row[0]))
	assert.Equal(t, []string{"09/03/2025", "18:30"}, cellText(row[1]))
	assert.Equal(t, []string{"Ana Pérez", "ana@example.com"}, cellText(row[2]))
	assert.Equal(t, []string{"150.50"}, cellText(row[3]))
	assert.Equal(t, []string{"COMPLETED"}, cellText(row[4]))
	assert.Equal(t, []string{"• 2x Widget", "Bs. 75.25 c/u"}, cellText(row[5]))

	completed := row[4].Paragraphs[0].Lines[0]
	require.NotNil(t, completed.Color)
	assert.Equal(t, Hex("#4caf50"), *completed.Color)

	pending := detail.Rows[2][4].Paragraphs[0].Lines[0]
	require.NotNil(t, pending.Color)
	assert.Equal(t, Hex("#ff9800"), *pending.Color)

	assert.Equal(t, []string{"N/A"}, cellText(detail.Rows[2][2]))
}

func TestSalesDocument_NoResults(t *testing.T) {
	doc := newTestRenderer(t).SalesDocument(nil)

	detail := tablesOf(doc)[1]
	require.Len(t, detail.Rows, 1)
	require.Len(t, detail.Rows[0], 1)
	assert.Equal(t, []string{NoResultsMessage}, cellText(detail.Rows[0][0]))
	assert.InDelta(t, 504.0, detail.Width(), 0.001, "full content width")
	assert.True(t, doc.Total.IsZero())
}

func TestPDF_Bytes(t *testing.T) {
	res := newTestRenderer(t).PDF([]*sales.Sale{widgetSale()})

	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, PDFFilename, res.Filename)
	assert.True(t, bytes.HasPrefix(res.Body, []byte("%PDF")), "body is a pdf")
}

func TestPDF_ManyPagesRepeatHeader(t *testing.T) {
	list := make([]*sales.Sale, 0, 120)
	for i := 0; i < 120; i++ {
		s := widgetSale()
		s.ID = int64(2000 + i)
		s.CreatedAt = s.CreatedAt.Add(-time.Duration(i) * time.Hour)
		list = append(list, s)
	}

	res := newTestRenderer(t).PDF(list)

	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.True(t, bytes.HasPrefix(res.Body, []byte("%PDF")))
	assert.Greater(t, bytes.Count(res.Body, []byte("/Type /Page\n")), 1, "long lists span pages")
}

func TestPDF_NilDetailIsNotAvailable(t *testing.T) {
	s := widgetSale()
	s.Details = append(s.Details, nil)

	doc := newTestRenderer(t).SalesDocument([]*sales.Sale{s})
	products := tablesOf(doc)[1].Rows[1][5]
	assert.Equal(t, []string{"• 2x Widget", "Bs. 75.25 c/u", "• N/A"}, cellText(products))

	res := newTestRenderer(t).PDF([]*sales.Sale{s})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.True(t, bytes.HasPrefix(res.Body, []byte("%PDF")))
}

func TestPDF_RowTallerThanPage(t *testing.T) {
	s := widgetSale()
	for i := 0; i < 150; i++ {
		s.Details = append(s.Details, &sales.Detail{
			ID:              int64(100 + i),
			Quantity:        1,
			PriceAtPurchase: decimal.NewFromInt(5),
			Product:         &sales.Product{Name: "Gadget"},
		})
	}

	res := newTestRenderer(t).PDF([]*sales.Sale{s})

	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, "text/plain; charset=utf-8", res.ContentType)
	assert.Empty(t, res.Filename)
	assert.True(t, strings.HasPrefix(string(res.Body), "Error generando PDF: "), string(res.Body))
	assert.Contains(t, string(res.Body), ErrRowTooTall.Error())
}

func TestWritePDF_RowTallerThanPage(t *testing.T) {
	tall := make([]Line, 80)
	for i := range tall {
		tall[i] = Line{Text: "línea"}
	}
	doc := &Document{
		PageSize: "Letter",
		Margins:  Margins{Left: inch, Top: inch, Right: inch, Bottom: inch},
		Elements: []Element{&Table{
			Widths: []float64{3 * inch},
			Rows:   [][]Cell{{{Paragraphs: []Paragraph{{Style: DefaultStylesheet().TableCell, Lines: tall}}}}},
		}},
	}

	var buf bytes.Buffer
	err := writePDF(&buf, doc, DefaultStylesheet())
	assert.ErrorIs(t, err, ErrRowTooTall)
}
