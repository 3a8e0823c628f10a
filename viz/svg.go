package viz

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"io"
	"math"
	"strings"
)

// SVGSurface writes every primitive as an SVG element, in drawing order.
type SVGSurface struct {
	w, h  float64
	bg    color.NRGBA
	faces *faceCache
	body  bytes.Buffer
}

func NewSVGSurface(w, h float64, bg color.NRGBA, fonts *FontSet) *SVGSurface {
	return &SVGSurface{w: w, h: h, bg: bg, faces: newFaceCache(fonts)}
}

func (s *SVGSurface) Size() (float64, float64) { return s.w, s.h }

func (s *SVGSurface) Rect(r Rect, radius float64, st Style) {
	fmt.Fprintf(&s.body, "  <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\"", num(r.X), num(r.Y), num(r.W), num(r.H))
	if radius > 0 {
		fmt.Fprintf(&s.body, " rx=\"%s\" ry=\"%s\"", num(radius), num(radius))
	}
	s.body.WriteString(paint(st))
	s.body.WriteString(" />\n")
}

func (s *SVGSurface) Ellipse(c Point, rx, ry float64, st Style) {
	fmt.Fprintf(&s.body, "  <ellipse cx=\"%s\" cy=\"%s\" rx=\"%s\" ry=\"%s\"%s />\n",
		num(c.X), num(c.Y), num(rx), num(ry), paint(st))
}

func (s *SVGSurface) Wedge(c Point, rx, ry, start, end float64, st Style) {
	sweep := end - start
	if sweep <= 0 {
		return
	}
	if sweep >= 360 {
		s.Ellipse(c, rx, ry, st)
		return
	}
	p0 := ellipsePoint(c, rx, ry, start)
	p1 := ellipsePoint(c, rx, ry, end)
	large := 0
	if sweep > 180 {
		large = 1
	}
	// Counterclockwise on screen is the negative sweep direction in SVG.
	fmt.Fprintf(&s.body, "  <path d=\"M %s %s L %s %s A %s %s 0 %d 0 %s %s Z\"%s />\n",
		num(c.X), num(c.Y), num(p0.X), num(p0.Y), num(rx), num(ry), large, num(p1.X), num(p1.Y), paint(st))
}

func (s *SVGSurface) Arrow(from, to Point, st ArrowStyle) {
	shaft, head := ArrowGeometry(from, to, st)
	stroke := fmt.Sprintf(" fill=\"none\" stroke=\"%s\" stroke-width=\"%s\" stroke-linecap=\"round\" stroke-linejoin=\"round\"", Hex(st.Color), num(st.Width))
	if st.Color.A < 255 {
		stroke += fmt.Sprintf(" stroke-opacity=\"%s\"", num(Opacity(st.Color)))
	}
	s.body.WriteString("  <g class=\"arrow\">\n")
	fmt.Fprintf(&s.body, "    <path d=\"%s\"%s />\n", pathData(shaft), stroke)
	if len(head) > 0 {
		fmt.Fprintf(&s.body, "    <path d=\"%s\"%s />\n", pathData(head), stroke)
	}
	s.body.WriteString("  </g>\n")
}

func (s *SVGSurface) Text(at Point, text string, st TextStyle) {
	lines, _ := layoutText(text, at, st, func(line string) float64 {
		return s.faces.measure(line, st)
	})
	anchor, x := "start", at.X
	switch st.Align {
	case AlignCenter:
		anchor = "middle"
	case AlignRight:
		anchor = "end"
	}
	fmt.Fprintf(&s.body, "  <text font-family=\"Go, sans-serif\" font-size=\"%s\" text-anchor=\"%s\" fill=\"%s\"",
		num(st.Size), anchor, Hex(st.Color))
	if st.Color.A < 255 {
		fmt.Fprintf(&s.body, " fill-opacity=\"%s\"", num(Opacity(st.Color)))
	}
	if st.Bold {
		s.body.WriteString(" font-weight=\"bold\"")
	}
	s.body.WriteString(">")
	for _, l := range lines {
		fmt.Fprintf(&s.body, "<tspan x=\"%s\" y=\"%s\">%s</tspan>", num(x), num(l.Y), html.EscapeString(l.Text))
	}
	s.body.WriteString("</text>\n")
}

func (s *SVGSurface) MeasureText(line string, st TextStyle) float64 {
	return s.faces.measure(line, st)
}

func (s *SVGSurface) Encode(w io.Writer) error {
	var out bytes.Buffer
	fmt.Fprintf(&out, "<svg width=\"%s\" height=\"%s\" viewBox=\"0 0 %s %s\" xmlns=\"http://www.w3.org/2000/svg\">\n",
		num(s.w), num(s.h), num(s.w), num(s.h))
	if s.bg.A > 0 {
		fmt.Fprintf(&out, "  <rect class=\"background\" width=\"100%%\" height=\"100%%\" fill=\"%s\" />\n", Hex(s.bg))
	}
	out.Write(s.body.Bytes())
	out.WriteString("</svg>\n")
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func paint(st Style) string {
	var b strings.Builder
	if st.hasFill() {
		fmt.Fprintf(&b, " fill=\"%s\"", Hex(st.Fill))
		if st.Fill.A < 255 {
			fmt.Fprintf(&b, " fill-opacity=\"%s\"", num(Opacity(st.Fill)))
		}
	} else {
		b.WriteString(" fill=\"none\"")
	}
	if st.hasStroke() {
		fmt.Fprintf(&b, " stroke=\"%s\" stroke-width=\"%s\"", Hex(st.Stroke), num(st.StrokeWidth))
		if st.Stroke.A < 255 {
			fmt.Fprintf(&b, " stroke-opacity=\"%s\"", num(Opacity(st.Stroke)))
		}
	}
	return b.String()
}

func pathData(pts []Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(num(p.X) + " " + num(p.Y))
	}
	return b.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // no "-0"
	}
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
