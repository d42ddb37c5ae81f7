package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ErrRowTooTall is returned when a single table row does not fit on an empty
// page. Rows are never split.
var ErrRowTooTall = errors.New("table row taller than the page")

// layout walks a Document and draws it with fpdf. Page breaks are handled
// here rather than by fpdf so table header rows can be repeated.
type layout struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	doc    *Document
	styles Stylesheet

	pageW, pageH float64
	y            float64
}

type laidLine struct {
	text    string
	font    string
	style   string
	size    float64
	color   Color
	leading float64
	indent  float64
}

type laidParagraph struct {
	before, after float64
	align         Align
	lines         []laidLine
}

func (p laidParagraph) height() float64 {
	h := p.before + p.after
	for _, l := range p.lines {
		h += l.leading
	}
	return h
}

// writePDF lays doc out and writes the PDF bytes to w.
func writePDF(w io.Writer, doc *Document, styles Stylesheet) error {
	pdf := fpdf.New("P", "pt", doc.PageSize, "")
	pdf.SetMargins(doc.Margins.Left, doc.Margins.Top, doc.Margins.Right)
	pdf.SetAutoPageBreak(false, doc.Margins.Bottom)
	pdf.SetCellMargin(0)

	l := &layout{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		doc:    doc,
		styles: styles,
	}
	l.pageW, l.pageH = pdf.GetPageSize()

	if doc.Decorator != nil {
		pdf.SetHeaderFunc(l.header)
		pdf.SetFooterFunc(l.footer)
	}

	l.newPage()
	for _, e := range doc.Elements {
		switch el := e.(type) {
		case Spacer:
			l.spacer(el)
		case Paragraph:
			l.paragraph(el)
		case *Table:
			if err := l.table(el); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown element %T", e)
		}
		if pdf.Err() {
			return pdf.Error()
		}
	}

	return pdf.Output(w)
}

func (l *layout) contentWidth() float64 {
	return l.pageW - l.doc.Margins.Left - l.doc.Margins.Right
}

func (l *layout) limit() float64 {
	return l.pageH - l.doc.Margins.Bottom
}

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = l.doc.Margins.Top
}

func (l *layout) header() {
	d := l.doc.Decorator
	c := l.styles.Colors
	left := l.doc.Margins.Left
	right := l.pageW - l.doc.Margins.Right
	top := 0.5 * inch

	l.pdf.SetFont("Helvetica", "B", 10)
	l.pdf.SetTextColor(c.Primary.R, c.Primary.G, c.Primary.B)
	l.pdf.Text(left, top, l.tr(d.Brand))

	l.pdf.SetFont("Helvetica", "", 8)
	l.pdf.SetTextColor(c.Muted.R, c.Muted.G, c.Muted.B)
	label := l.tr(d.Label)
	l.pdf.Text(right-l.pdf.GetStringWidth(label), top, label)

	l.pdf.SetDrawColor(c.Primary.R, c.Primary.G, c.Primary.B)
	l.pdf.SetLineWidth(2)
	l.pdf.Line(left, top+0.1*inch, right, top+0.1*inch)
}

func (l *layout) footer() {
	d := l.doc.Decorator
	c := l.styles.Colors
	left := l.doc.Margins.Left
	right := l.pageW - l.doc.Margins.Right
	base := l.pageH - 0.5*inch

	l.pdf.SetDrawColor(c.Border.R, c.Border.G, c.Border.B)
	l.pdf.SetLineWidth(1)
	l.pdf.Line(left, base-0.15*inch, right, base-0.15*inch)

	fs := l.styles.Footer
	style := ""
	if fs.Italic {
		style = "I"
	}
	l.pdf.SetFont(fs.Font, style, fs.Size)
	l.pdf.SetTextColor(fs.Color.R, fs.Color.G, fs.Color.B)
	page := l.tr("Página " + strconv.Itoa(l.pdf.PageNo()))
	l.pdf.Text(l.pageW/2-l.pdf.GetStringWidth(page)/2, base, page)
	l.pdf.Text(right-l.pdf.GetStringWidth(d.Date), base, d.Date)
}

func (l *layout) spacer(s Spacer) {
	l.y += s.Height
	if l.y > l.limit() {
		l.newPage()
	}
}

func (l *layout) paragraph(p Paragraph) {
	lp := l.wrap(p, l.contentWidth())
	l.y += lp.before
	for _, ln := range lp.lines {
		if l.y+ln.leading > l.limit() {
			l.newPage()
		}
		l.drawLine(ln, l.doc.Margins.Left, l.y, l.contentWidth(), lp.align)
		l.y += ln.leading
	}
	l.y += lp.after
}

func (l *layout) setFont(ln laidLine) {
	l.pdf.SetFont(ln.font, ln.style, ln.size)
	l.pdf.SetTextColor(ln.color.R, ln.color.G, ln.color.B)
}

func (l *layout) drawLine(ln laidLine, x, y, width float64, align Align) {
	l.setFont(ln)
	l.pdf.SetXY(x+ln.indent, y)
	l.pdf.CellFormat(width-ln.indent, ln.leading, l.tr(ln.text), "", 0, alignString(align), false, 0, "")
}

func alignString(a Align) string {
	switch a {
	case AlignCenter:
		return "CM"
	case AlignRight:
		return "RM"
	default:
		return "LM"
	}
}

// wrap splits the paragraph's lines to fit width, greedy by words.
func (l *layout) wrap(p Paragraph, width float64) laidParagraph {
	st := p.Style
	out := laidParagraph{before: st.SpaceBefore, after: st.SpaceAfter, align: st.Align}

	for _, line := range p.Lines {
		base := laidLine{
			font:   st.Font,
			size:   st.Size,
			color:  st.Color,
			indent: st.LeftIndent,
		}
		if line.Size > 0 {
			base.size = line.Size
		}
		if line.Color != nil {
			base.color = *line.Color
		}
		if line.Bold || st.Bold {
			base.style += "B"
		}
		if st.Italic {
			base.style += "I"
		}
		base.leading = base.size * 1.2

		l.setFont(base)
		for _, txt := range l.breakText(line.Text, width-base.indent) {
			ln := base
			ln.text = txt
			out.lines = append(out.lines, ln)
		}
	}
	return out
}

// breakText expects the font to be set already.
func (l *layout) breakText(s string, width float64) []string {
	var lines []string
	for _, raw := range strings.Split(s, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			candidate := cur + " " + w
			if l.pdf.GetStringWidth(l.tr(candidate)) <= width {
				cur = candidate
				continue
			}
			lines = append(lines, cur)
			cur = w
		}
		lines = append(lines, cur)
	}
	return lines
}

type laidCell struct {
	paragraphs []laidParagraph
	height     float64
}

type laidRow struct {
	cells  []laidCell
	height float64
	header bool
	index  int
}

func (l *layout) table(t *Table) error {
	st := t.Style
	x0 := l.doc.Margins.Left + (l.contentWidth()-t.Width())/2

	rows := make([]laidRow, len(t.Rows))
	for i, cells := range t.Rows {
		header := i < st.HeaderRows
		pad := l.padding(st, header)
		row := laidRow{header: header, index: i}
		for c, cell := range cells {
			var lc laidCell
			for _, p := range cell.Paragraphs {
				lp := l.wrap(p, t.Widths[c]-pad.Left-pad.Right)
				if a, ok := st.ColumnAlign[c]; ok && !header {
					lp.align = a
				}
				lc.paragraphs = append(lc.paragraphs, lp)
				lc.height += lp.height()
			}
			lc.height += pad.Top + pad.Bottom
			if lc.height > row.height {
				row.height = lc.height
			}
			row.cells = append(row.cells, lc)
		}
		rows[i] = row
	}

	room := l.limit() - l.doc.Margins.Top
	for _, h := range rows[:st.HeaderRows] {
		room -= h.height
	}
	for _, row := range rows[st.HeaderRows:] {
		if row.height > room {
			return fmt.Errorf("%w: row %d needs %.0fpt, page has %.0fpt", ErrRowTooTall, row.index, row.height, room)
		}
	}

	segStart := l.y
	drawn := 0
	for _, row := range rows {
		if l.y+row.height > l.limit() && drawn > 0 {
			l.box(t, x0, segStart)
			l.newPage()
			segStart = l.y
			drawn = 0
			if !row.header {
				for _, h := range rows[:st.HeaderRows] {
					l.drawRow(t, x0, h)
					drawn++
				}
			}
		}
		l.drawRow(t, x0, row)
		drawn++
	}
	l.box(t, x0, segStart)
	return nil
}

func (l *layout) padding(st TableStyle, header bool) Padding {
	if header && st.HeaderPadding != nil {
		return *st.HeaderPadding
	}
	return st.Padding
}

func (l *layout) background(st TableStyle, row laidRow, col int) (Color, bool) {
	if row.header && st.HeaderFill != nil {
		return *st.HeaderFill, true
	}
	if c, ok := st.ColumnFills[col]; ok {
		return c, true
	}
	if !row.header && len(st.RowBackgrounds) > 0 {
		return st.RowBackgrounds[(row.index-st.HeaderRows)%len(st.RowBackgrounds)], true
	}
	if st.Fill != nil {
		return *st.Fill, true
	}
	return Color{}, false
}

func (l *layout) drawRow(t *Table, x0 float64, row laidRow) {
	st := t.Style
	pad := l.padding(st, row.header)

	x := x0
	for c, cell := range row.cells {
		w := t.Widths[c]
		if bg, ok := l.background(st, row, c); ok {
			l.pdf.SetFillColor(bg.R, bg.G, bg.B)
			l.pdf.Rect(x, l.y, w, row.height, "F")
		}
		if st.GridWidth > 0 {
			l.pdf.SetDrawColor(st.GridColor.R, st.GridColor.G, st.GridColor.B)
			l.pdf.SetLineWidth(st.GridWidth)
			l.pdf.Rect(x, l.y, w, row.height, "D")
		}

		cy := l.y + pad.Top
		if st.VAlign == VAlignMiddle {
			cy = l.y + (row.height-cell.height)/2 + pad.Top
		}
		for _, p := range cell.paragraphs {
			cy += p.before
			for _, ln := range p.lines {
				l.drawLine(ln, x+pad.Left, cy, w-pad.Left-pad.Right, p.align)
				cy += ln.leading
			}
			cy += p.after
		}
		x += w
	}

	l.y += row.height

	if row.header && row.index == st.HeaderRows-1 && st.HeaderLineBelow > 0 {
		lc := st.HeaderLineColor
		l.pdf.SetDrawColor(lc.R, lc.G, lc.B)
		l.pdf.SetLineWidth(st.HeaderLineBelow)
		l.pdf.Line(x0, l.y, x0+t.Width(), l.y)
	}
}

func (l *layout) box(t *Table, x0, top float64) {
	st := t.Style
	if st.BoxWidth <= 0 || l.y <= top {
		return
	}
	l.pdf.SetDrawColor(st.BoxColor.R, st.BoxColor.G, st.BoxColor.B)
	l.pdf.SetLineWidth(st.BoxWidth)
	l.pdf.Rect(x0, top, t.Width(), l.y-top, "D")
}
