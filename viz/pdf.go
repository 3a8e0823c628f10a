package viz

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-pdf/fpdf"
)

const pdfFamily = "go"

// PDFSurface draws onto a single PDF page sized to the figure. Callers
// work in device pixels at the given DPI; the page itself is in points.
type PDFSurface struct {
	w, h  float64
	k     float64 // points per pixel
	pdf   *fpdf.Fpdf
	faces *faceCache
}

func NewPDFSurface(w, h, dpi float64, bg color.NRGBA, fonts *FontSet) *PDFSurface {
	if dpi <= 0 {
		dpi = 72
	}
	if fonts == nil {
		fonts = GoFonts()
	}
	k := 72 / dpi
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w * k, Ht: h * k},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	pdf.AddUTF8FontFromBytes(pdfFamily, "", fonts.RegularTTF)
	pdf.AddUTF8FontFromBytes(pdfFamily, "B", fonts.BoldTTF)
	pdf.AddPage()

	s := &PDFSurface{w: w, h: h, k: k, pdf: pdf, faces: newFaceCache(fonts)}
	if bg.A > 0 {
		s.Rect(Rect{W: w, H: h}, 0, Style{Fill: bg})
	}
	return s
}

// SetTitle records the document title in the PDF metadata.
func (s *PDFSurface) SetTitle(title string) { s.pdf.SetTitle(title, true) }

func (s *PDFSurface) Size() (float64, float64) { return s.w, s.h }

func (s *PDFSurface) Rect(r Rect, radius float64, st Style) {
	s.polygon(roundedRectPoints(r, radius), st)
}

func (s *PDFSurface) Ellipse(c Point, rx, ry float64, st Style) {
	if st.hasFill() {
		s.setFill(st.Fill)
		s.pdf.Ellipse(c.X*s.k, c.Y*s.k, rx*s.k, ry*s.k, 0, "F")
	}
	if st.hasStroke() {
		s.setStroke(st.Stroke, st.StrokeWidth)
		s.pdf.Ellipse(c.X*s.k, c.Y*s.k, rx*s.k, ry*s.k, 0, "D")
	}
}

func (s *PDFSurface) Wedge(c Point, rx, ry, start, end float64, st Style) {
	if end-start <= 0 {
		return
	}
	s.polygon(wedgePoints(c, rx, ry, start, end), st)
}

func (s *PDFSurface) Arrow(from, to Point, st ArrowStyle) {
	shaft, head := ArrowGeometry(from, to, st)
	s.setStroke(st.Color, st.Width)
	s.pdf.SetLineCapStyle("round")
	s.pdf.SetLineJoinStyle("round")
	s.polyline(shaft)
	if len(head) > 0 {
		s.polyline(head)
	}
}

func (s *PDFSurface) Text(at Point, text string, st TextStyle) {
	lines, _ := layoutText(text, at, st, func(line string) float64 {
		return s.faces.measure(line, st)
	})
	style := ""
	if st.Bold {
		style = "B"
	}
	s.pdf.SetFont(pdfFamily, style, st.Size*s.k)
	s.pdf.SetTextColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	s.pdf.SetAlpha(Opacity(st.Color), "Normal")
	for _, l := range lines {
		s.pdf.Text(l.X*s.k, l.Y*s.k, l.Text)
	}
}

func (s *PDFSurface) MeasureText(line string, st TextStyle) float64 {
	return s.faces.measure(line, st)
}

func (s *PDFSurface) Encode(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (s *PDFSurface) polygon(pts []Point, st Style) {
	ps := make([]fpdf.PointType, len(pts))
	for i, p := range pts {
		ps[i] = fpdf.PointType{X: p.X * s.k, Y: p.Y * s.k}
	}
	if st.hasFill() {
		s.setFill(st.Fill)
		s.pdf.Polygon(ps, "F")
	}
	if st.hasStroke() {
		s.setStroke(st.Stroke, st.StrokeWidth)
		s.pdf.Polygon(ps, "D")
	}
}

func (s *PDFSurface) polyline(pts []Point) {
	for i, p := range pts {
		if i == 0 {
			s.pdf.MoveTo(p.X*s.k, p.Y*s.k)
		} else {
			s.pdf.LineTo(p.X*s.k, p.Y*s.k)
		}
	}
	s.pdf.DrawPath("D")
}

func (s *PDFSurface) setFill(c color.NRGBA) {
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetAlpha(Opacity(c), "Normal")
}

func (s *PDFSurface) setStroke(c color.NRGBA, width float64) {
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(width * s.k)
	s.pdf.SetAlpha(Opacity(c), "Normal")
}
