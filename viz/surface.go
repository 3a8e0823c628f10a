package viz

import (
	"image/color"
	"io"
	"strings"
)

// Surface is a device that primitives are drawn onto. All coordinates and
// sizes are in device pixels with y growing downward. Angles are degrees
// counterclockwise from 3 o'clock as seen on screen.
type Surface interface {
	Size() (w, h float64)
	Rect(r Rect, radius float64, st Style)
	Ellipse(c Point, rx, ry float64, st Style)
	Wedge(c Point, rx, ry, start, end float64, st Style)
	Arrow(from, to Point, st ArrowStyle)
	Text(at Point, text string, st TextStyle)
	MeasureText(line string, st TextStyle) float64
}

// Encoder is a surface that can serialize what was drawn on it.
type Encoder interface {
	Surface
	Encode(w io.Writer) error
}

// Style is the fill and outline of a closed shape. A zero alpha fill or a
// zero stroke width disables that part.
type Style struct {
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

func (s Style) hasFill() bool   { return s.Fill.A > 0 }
func (s Style) hasStroke() bool { return s.StrokeWidth > 0 && s.Stroke.A > 0 }

// ArrowStyle describes a connector. Widths, head and shrink are in points
// when handed to a Canvas and in pixels when handed to a Surface.
type ArrowStyle struct {
	Color      color.NRGBA
	Width      float64
	HeadLength float64
	HeadWidth  float64
	ShrinkA    float64
	ShrinkB    float64
	Curvature  float64
}

type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

type VAlign int

const (
	VAlignBaseline VAlign = iota
	VAlignCenter
	VAlignTop
	VAlignBottom
)

// TextBox is an optional rounded background drawn behind a text block.
// Pad is a multiple of the font size.
type TextBox struct {
	Fill   color.NRGBA
	Stroke color.NRGBA
	Pad    float64
}

// TextStyle sizes are in points for a Canvas and pixels for a Surface.
type TextStyle struct {
	Size        float64
	Bold        bool
	Color       color.NRGBA
	Align       HAlign
	VAlign      VAlign
	LineSpacing float64
	Background  *TextBox
}

func (t TextStyle) lineHeight() float64 {
	if t.LineSpacing > 0 {
		return t.Size * t.LineSpacing
	}
	return t.Size * 1.2
}

// textLine is one positioned line of a text block; Y is the baseline.
type textLine struct {
	Text string
	X, Y float64
}

const ascentRatio = 0.78

// layoutText splits text on newlines and positions each line relative to
// the anchor according to the alignment. It also returns the block bounds.
func layoutText(text string, at Point, st TextStyle, measure func(string) float64) ([]textLine, Rect) {
	parts := strings.Split(text, "\n")
	lh := st.lineHeight()
	blockH := lh * float64(len(parts))
	lead := (lh - st.Size) / 2

	var top float64
	switch st.VAlign {
	case VAlignTop:
		top = at.Y
	case VAlignCenter:
		top = at.Y - blockH/2
	case VAlignBottom:
		top = at.Y - blockH
	default:
		top = at.Y - lead - st.Size*ascentRatio
	}

	lines := make([]textLine, 0, len(parts))
	maxW := 0.0
	for i, s := range parts {
		w := measure(s)
		if w > maxW {
			maxW = w
		}
		x := at.X
		switch st.Align {
		case AlignCenter:
			x -= w / 2
		case AlignRight:
			x -= w
		}
		lines = append(lines, textLine{Text: s, X: x, Y: top + float64(i)*lh + lead + st.Size*ascentRatio})
	}

	left := at.X
	switch st.Align {
	case AlignCenter:
		left -= maxW / 2
	case AlignRight:
		left -= maxW
	}
	return lines, Rect{X: left, Y: top, W: maxW, H: blockH}
}
