package report

import (
	"github.com/shopspring/decimal"
)

// Element is one block in a document flow.
type Element interface {
	element()
}

// Spacer is vertical blank space.
type Spacer struct {
	Height float64
}

// Line is a single run of uniformly styled text. Zero fields fall back to the
// paragraph style.
type Line struct {
	Text  string
	Bold  bool
	Size  float64
	Color *Color
}

// Paragraph is a block of lines sharing a base style. Long lines wrap.
type Paragraph struct {
	Style TextStyle
	Lines []Line
}

// Cell holds the paragraphs stacked inside a table cell.
type Cell struct {
	Paragraphs []Paragraph
}

// Padding is the inner spacing of table cells.
type Padding struct {
	Top, Bottom, Left, Right float64
}

// VAlign is vertical alignment inside a table row.
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
)

// TableStyle configures fills, borders and spacing of a table.
type TableStyle struct {
	HeaderRows      int
	HeaderFill      *Color
	HeaderPadding   *Padding
	HeaderLineBelow float64
	HeaderLineColor Color
	Fill            *Color
	RowBackgrounds  []Color
	ColumnFills     map[int]Color
	ColumnAlign     map[int]Align
	GridWidth       float64
	GridColor       Color
	BoxWidth        float64
	BoxColor        Color
	Padding         Padding
	VAlign          VAlign
}

// Table is a grid of cells with fixed column widths in points.
type Table struct {
	Widths []float64
	Rows   [][]Cell
	Style  TableStyle
}

// Width is the sum of the column widths.
func (t *Table) Width() float64 {
	var w float64
	for _, c := range t.Widths {
		w += c
	}
	return w
}

func (Spacer) element()    {}
func (Paragraph) element() {}
func (*Table) element()    {}

// Margins are page margins in points.
type Margins struct {
	Left, Top, Right, Bottom float64
}

// PageDecorator is drawn on every page: a brand line and label in the
// header, page number and date in the footer.
type PageDecorator struct {
	Brand string
	Label string
	Date  string
}

// Document is a laid-out-later description of a PDF.
type Document struct {
	PageSize  string
	Margins   Margins
	Elements  []Element
	Decorator *PageDecorator

	// Records and Total summarise the sales that went into the document.
	Records int
	Total   decimal.Decimal
}
