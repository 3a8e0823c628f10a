package viz

import (
	"image/color"
	"strings"
)

// BoxStyle controls how a Box and its text are laid out. Offsets and
// spacing are in data units measured down from the top edge; sizes are
// in points.
type BoxStyle struct {
	Alpha     float64
	Pad       float64
	EdgeColor color.NRGBA
	EdgeWidth float64

	TitleSize   float64
	TitleOffset float64
	TitleColor  color.NRGBA

	DetailSize    float64
	DetailOffset  float64
	DetailSpacing float64
	DetailIndent  float64
	DetailColor   color.NRGBA

	HeadingSize  float64
	HeadingColor color.NRGBA

	// AutoText replaces the title and detail colors with black or white
	// depending on how dark the fill is.
	AutoText bool
}

func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		Alpha:         0.8,
		Pad:           0.3,
		EdgeColor:     Black,
		EdgeWidth:     2,
		TitleSize:     12,
		TitleOffset:   3,
		TitleColor:    White,
		DetailSize:    9,
		DetailOffset:  6,
		DetailSpacing: 2.5,
		DetailIndent:  1,
		DetailColor:   White,
		HeadingSize:   9,
		HeadingColor:  MustParseColor("yellow"),
	}
}

// Box is an annotated rounded rectangle: a bold title near the top and
// detail lines stacked below it. Details that do not fit overflow the box.
type Box struct {
	X, Y, W, H float64
	Title      string
	Fill       color.NRGBA
	Details    []string
	Style      BoxStyle
}

func (b *Box) Kind() string { return "box" }

// Bounds is the data rectangle of the box before padding.
func (b *Box) Bounds() Rect { return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H} }

// IsHeading reports whether a detail line is a section heading.
func IsHeading(line string) bool { return strings.HasSuffix(line, ":") }

func (b *Box) textColors() (title, detail color.NRGBA) {
	if b.Style.AutoText {
		c := ContrastText(b.Fill)
		return c, c
	}
	return b.Style.TitleColor, b.Style.DetailColor
}

func (b *Box) Draw(c *Canvas) {
	st := b.Style
	c.RoundedBox(b.X, b.Y, b.W, b.H, st.Pad, Style{
		Fill:        WithAlpha(b.Fill, st.Alpha),
		Stroke:      st.EdgeColor,
		StrokeWidth: st.EdgeWidth,
	})

	titleColor, detailColor := b.textColors()
	top := b.Y + b.H
	c.Text(Point{b.X + b.W/2, top - st.TitleOffset}, b.Title, TextStyle{
		Size:   st.TitleSize,
		Bold:   true,
		Color:  titleColor,
		Align:  AlignCenter,
		VAlign: VAlignCenter,
	})

	for i, line := range b.Details {
		if line == "" {
			continue
		}
		ts := TextStyle{Size: st.DetailSize, Color: detailColor, VAlign: VAlignCenter}
		if IsHeading(line) {
			ts.Bold = true
			ts.Color = st.HeadingColor
			if st.HeadingSize > 0 {
				ts.Size = st.HeadingSize
			}
		}
		at := Point{b.X + st.DetailIndent, top - st.DetailOffset - float64(i)*st.DetailSpacing}
		c.Text(at, line, ts)
	}
}
