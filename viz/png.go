package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// PNGOptions configure a raster surface.
type PNGOptions struct {
	Background color.NRGBA
	Fonts      *FontSet
	DPI        float64 // used for the crop padding
	Crop       bool    // trim to the drawn content plus a 0.1in margin
}

// PNGSurface rasterizes primitives into an RGBA image with anti-aliasing.
type PNGSurface struct {
	img   *image.RGBA
	opts  PNGOptions
	faces *faceCache
	z     vector.Rasterizer
}

func NewPNGSurface(w, h int, opts PNGOptions) *PNGSurface {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if opts.Background.A > 0 {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	if opts.DPI <= 0 {
		opts.DPI = 100
	}
	return &PNGSurface{img: img, opts: opts, faces: newFaceCache(opts.Fonts)}
}

// Image exposes the raster drawn so far, without cropping.
func (s *PNGSurface) Image() *image.RGBA { return s.img }

func (s *PNGSurface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *PNGSurface) Rect(r Rect, radius float64, st Style) {
	s.shape(roundedRectPoints(r, radius), true, st)
}

func (s *PNGSurface) Ellipse(c Point, rx, ry float64, st Style) {
	s.shape(arcPoints(c, rx, ry, 0, 360), true, st)
}

func (s *PNGSurface) Wedge(c Point, rx, ry, start, end float64, st Style) {
	if end-start <= 0 {
		return
	}
	s.shape(wedgePoints(c, rx, ry, start, end), true, st)
}

func (s *PNGSurface) Arrow(from, to Point, st ArrowStyle) {
	shaft, head := ArrowGeometry(from, to, st)
	polys := strokePolygons(shaft, st.Width, false)
	if len(head) > 0 {
		polys = append(polys, strokePolygons(head, st.Width, false)...)
	}
	s.fill(polys, st.Color)
}

func (s *PNGSurface) Text(at Point, text string, st TextStyle) {
	lines, _ := layoutText(text, at, st, func(line string) float64 {
		return s.faces.measure(line, st)
	})
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(st.Color),
		Face: s.faces.face(st.Size, st.Bold),
	}
	for _, l := range lines {
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(l.X * 64), Y: fixed.Int26_6(l.Y * 64)}
		d.DrawString(l.Text)
	}
}

func (s *PNGSurface) MeasureText(line string, st TextStyle) float64 {
	return s.faces.measure(line, st)
}

// Encode writes the image as PNG, cropped to content if configured.
func (s *PNGSurface) Encode(w io.Writer) error {
	img := image.Image(s.img)
	if s.opts.Crop {
		img = s.cropped()
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (s *PNGSurface) shape(outline []Point, closed bool, st Style) {
	if st.hasFill() {
		s.fill([][]Point{outline}, st.Fill)
	}
	if st.hasStroke() {
		s.fill(strokePolygons(outline, st.StrokeWidth, closed), st.Stroke)
	}
}

// fill rasterizes the union of polys in a single pass. All polygons are
// brought to the same winding so overlaps saturate instead of cancelling.
func (s *PNGSurface) fill(polys [][]Point, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	b := s.img.Bounds()
	clip := Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), W: float64(b.Dx()), H: float64(b.Dy())}

	var (
		kept [][]Point
		box  Rect
	)
	for _, p := range polys {
		p = clipPolygon(p, clip)
		if len(p) < 3 {
			continue
		}
		if signedArea(p) < 0 {
			p = reversed(p)
		}
		if len(kept) == 0 {
			box = boundsOf(p)
		} else {
			box = box.Union(boundsOf(p))
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return
	}

	r := image.Rect(
		int(math.Floor(box.X)), int(math.Floor(box.Y)),
		int(math.Ceil(box.X+box.W)), int(math.Ceil(box.Y+box.H)),
	).Intersect(b)
	if r.Empty() {
		return
	}
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	s.z.Reset(r.Dx(), r.Dy())
	for _, p := range kept {
		s.z.MoveTo(float32(p[0].X)-ox, float32(p[0].Y)-oy)
		for _, q := range p[1:] {
			s.z.LineTo(float32(q.X)-ox, float32(q.Y)-oy)
		}
		s.z.ClosePath()
	}
	s.z.Draw(s.img, r, image.NewUniform(c), image.Point{})
}

func (s *PNGSurface) cropped() image.Image {
	b := s.img.Bounds()
	bg := s.opts.Background
	content := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := s.img.RGBAAt(x, y)
			if px.R == bg.R && px.G == bg.G && px.B == bg.B && px.A == bg.A {
				continue
			}
			content = content.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	if content.Empty() {
		return s.img
	}
	pad := int(math.Round(0.1 * s.opts.DPI))
	content = content.Inset(-pad).Intersect(b)

	out := image.NewRGBA(image.Rect(0, 0, content.Dx(), content.Dy()))
	draw.Copy(out, image.Point{}, s.img, content, draw.Src, nil)
	return out
}

// strokePolygons outlines a polyline of width w as one quad per segment
// plus a disc at every vertex for round joins and caps.
func strokePolygons(pts []Point, w float64, closed bool) [][]Point {
	if len(pts) < 2 || w <= 0 {
		return nil
	}
	hw := w / 2
	var out [][]Point
	seg := func(a, b Point) {
		n := Point{-(b.Y - a.Y), b.X - a.X}.Unit().Scale(hw)
		if n == (Point{}) {
			return
		}
		out = append(out, []Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
	}
	for i := 1; i < len(pts); i++ {
		seg(pts[i-1], pts[i])
	}
	if closed {
		seg(pts[len(pts)-1], pts[0])
	}
	if hw >= 0.75 {
		for _, p := range pts {
			out = append(out, discPoints(p, hw))
		}
	}
	return out
}

func discPoints(c Point, r float64) []Point {
	const n = 12
	pts := make([]Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		pts[i] = Point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}

// clipPolygon clips a polygon to r (Sutherland-Hodgman).
func clipPolygon(pts []Point, r Rect) []Point {
	inside := []func(Point) bool{
		func(p Point) bool { return p.X >= r.X },
		func(p Point) bool { return p.X <= r.X+r.W },
		func(p Point) bool { return p.Y >= r.Y },
		func(p Point) bool { return p.Y <= r.Y+r.H },
	}
	cross := []func(a, b Point) Point{
		func(a, b Point) Point { return a.Lerp(b, (r.X-a.X)/(b.X-a.X)) },
		func(a, b Point) Point { return a.Lerp(b, (r.X+r.W-a.X)/(b.X-a.X)) },
		func(a, b Point) Point { return a.Lerp(b, (r.Y-a.Y)/(b.Y-a.Y)) },
		func(a, b Point) Point { return a.Lerp(b, (r.Y+r.H-a.Y)/(b.Y-a.Y)) },
	}
	out := pts
	for e := range inside {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = make([]Point, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch ci, pi := inside[e](cur), inside[e](prev); {
			case ci && pi:
				out = append(out, cur)
			case ci && !pi:
				out = append(out, cross[e](prev, cur), cur)
			case !ci && pi:
				out = append(out, cross[e](prev, cur))
			}
			prev = cur
		}
	}
	return out
}
