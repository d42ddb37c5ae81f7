package report

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple in the 0-255 range.
type Color struct {
	R, G, B int
}

// Hex parses "#rrggbb". It panics on malformed input, so only use it with constants.
func Hex(s string) Color {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(s, "#")) != 6 {
		panic(fmt.Sprintf("report: bad hex color %q", s))
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// String renders the color back as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
)

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how a paragraph is drawn. Sizes are in points.
type TextStyle struct {
	Font        string
	Bold        bool
	Italic      bool
	Size        float64
	Color       Color
	Align       Align
	SpaceBefore float64
	SpaceAfter  float64
	LeftIndent  float64
}

// Leading is the line height for the style.
func (s TextStyle) Leading() float64 {
	return s.Size * 1.2
}

// Palette holds the report colors.
type Palette struct {
	Primary   Color
	Secondary Color
	Accent    Color
	Header    Color
	RowAlt    Color
	Border    Color
	Muted     Color
	Success   Color
	Attention Color
}

// Stylesheet is the full set of named presentation styles. It is built once
// and handed to the renderer by value; nothing mutates it afterwards.
type Stylesheet struct {
	Title          TextStyle
	Subtitle       TextStyle
	SectionHeader  TextStyle
	TableHeader    TextStyle
	TableCell      TextStyle
	TableCellSmall TextStyle
	InfoBox        TextStyle
	Summary        TextStyle
	Footer         TextStyle
	Colors         Palette
}

// DefaultStylesheet returns the SmartSales365 report look.
func DefaultStylesheet() Stylesheet {
	colors := Palette{
		Primary:   Hex("#1a237e"),
		Secondary: Hex("#3949ab"),
		Accent:    Hex("#00acc1"),
		Header:    Hex("#3949ab"),
		RowAlt:    Hex("#f5f5f5"),
		Border:    Hex("#e0e0e0"),
		Muted:     Hex("#666666"),
		Success:   Hex("#4caf50"),
		Attention: Hex("#ff9800"),
	}

	return Stylesheet{
		Title: TextStyle{
			Font: "Helvetica", Bold: true, Size: 28, Color: colors.Primary,
			Align: AlignCenter, SpaceBefore: 10, SpaceAfter: 20,
		},
		Subtitle: TextStyle{
			Font: "Helvetica", Size: 12, Color: colors.Muted,
			Align: AlignCenter, SpaceAfter: 30,
		},
		SectionHeader: TextStyle{
			Font: "Helvetica", Bold: true, Size: 14, Color: colors.Primary,
			SpaceBefore: 20, SpaceAfter: 12,
		},
		TableHeader: TextStyle{
			Font: "Helvetica", Bold: true, Size: 9, Color: White, Align: AlignCenter,
		},
		TableCell: TextStyle{
			Font: "Helvetica", Size: 8, Color: Hex("#333333"),
		},
		TableCellSmall: TextStyle{
			Font: "Helvetica", Size: 7, Color: Hex("#555555"), LeftIndent: 5,
		},
		InfoBox: TextStyle{
			Font: "Helvetica", Size: 9, Color: Hex("#444444"), SpaceAfter: 8,
		},
		Summary: TextStyle{
			Font: "Helvetica", Bold: true, Size: 12, Color: White, Align: AlignRight,
		},
		Footer: TextStyle{
			Font: "Helvetica", Italic: true, Size: 8, Color: Hex("#999999"), Align: AlignCenter,
		},
		Colors: colors,
	}
}
