package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"api_reports/internal/sales"
)

var fixedNow = time.Date(2025, 3, 10, 14, 5, 0, 0, time.UTC)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(DefaultStylesheet(), zaptest.NewLogger(t), WithClock(func() time.Time { return fixedNow }))
}

func widgetSale() *sales.Sale {
	return &sales.Sale{
		ID:          1001,
		CreatedAt:   time.Date(2025, 3, 9, 18, 30, 15, 0, time.UTC),
		Status:      sales.StatusCompleted,
		TotalAmount: decimal.RequireFromString("150.50"),
		User:        &sales.User{ID: 7, FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com"},
		Details: []*sales.Detail{
			{ID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("75.25"), Product: &sales.Product{ID: 3, Name: "Widget"}},
		},
	}
}

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// tablesOf returns the tables of the flow in order.
func tablesOf(doc *Document) []*Table {
	var out []*Table
	for _, e := range doc.Elements {
		if t, ok := e.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// cellText returns the plain text of every line in c, one entry per line.
func cellText(c Cell) []string {
	var out []string
	for _, p := range c.Paragraphs {
		for _, l := range p.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}
