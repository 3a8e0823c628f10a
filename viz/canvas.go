package viz

import (
	"image/color"
	"math"
	"math/rand/v2"
	"strings"
)

// Figure is one output image: a grid of panels on a fixed size page.
type Figure struct {
	Name       string
	Set        string
	Title      string
	Output     string  // output file basename without extension
	Width      float64 // inches
	Height     float64 // inches
	Rows, Cols int
	Background color.NRGBA
	Seed       uint64 // seeds placeholder data; 0 means "not chosen yet"
	Panels     []*Panel
}

// Panel is one axes area of a figure with its own coordinate extent.
type Panel struct {
	Row, Col  int
	Title     string
	TitleSize float64 // points
	Extent    Extent
	Elements  []Drawable
}

// PixelSize returns the device size of the figure at the given resolution.
func (f *Figure) PixelSize(dpi float64) (int, int) {
	return int(math.Round(f.Width * dpi)), int(math.Round(f.Height * dpi))
}

// ElementCount is the number of drawables across all panels.
func (f *Figure) ElementCount() int {
	n := 0
	for _, p := range f.Panels {
		n += len(p.Elements)
	}
	return n
}

func (f *Figure) grid() (int, int) {
	rows, cols := f.Rows, f.Cols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// panelArea computes the device rectangle of a panel's axes. scale is
// pixels per point.
func (f *Figure) panelArea(p *Panel, w, h, scale float64) Rect {
	rows, cols := f.grid()
	cw, ch := w/float64(cols), h/float64(rows)
	cell := Rect{X: float64(p.Col) * cw, Y: float64(p.Row) * ch, W: cw, H: ch}

	mx, my := cw*0.02, ch*0.02
	if rows*cols > 1 {
		mx, my = cw*0.04, ch*0.04
	}
	top := my
	if p.Title != "" {
		top += titleHeight(p) * scale
	}
	return Rect{X: cell.X + mx, Y: cell.Y + top, W: cell.W - 2*mx, H: cell.H - top - my}
}

const titlePad = 20 // points between a panel title and its axes

func titleSize(p *Panel) float64 {
	if p.TitleSize > 0 {
		return p.TitleSize
	}
	return 16
}

func titleHeight(p *Panel) float64 {
	lines := float64(strings.Count(p.Title, "\n") + 1)
	return lines*titleSize(p)*1.2 + titlePad
}

// Render draws every panel of the figure onto s. Rendering is
// deterministic for a given figure seed and surface size.
func Render(fig *Figure, s Surface) {
	w, h := s.Size()
	scale := 1.0
	if fig.Width > 0 {
		scale = w / fig.Width / 72
	}
	rng := rand.New(rand.NewPCG(fig.Seed, 0x50c))
	for _, p := range fig.Panels {
		c := &Canvas{
			surface: s,
			area:    fig.panelArea(p, w, h, scale),
			extent:  p.Extent,
			scale:   scale,
			rng:     rng,
		}
		if p.Title != "" {
			s.Text(Point{c.area.X + c.area.W/2, c.area.Y - titlePad*scale}, p.Title, TextStyle{
				Size:   titleSize(p) * scale,
				Bold:   true,
				Color:  Black,
				Align:  AlignCenter,
				VAlign: VAlignBottom,
			})
		}
		for _, d := range p.Elements {
			d.Draw(c)
		}
	}
}

// Canvas maps a panel's data coordinates onto a surface. Drawables only
// talk to the canvas; sizes passed to it are in points.
type Canvas struct {
	surface Surface
	area    Rect
	extent  Extent
	scale   float64
	rng     *rand.Rand
}

// NewCanvas builds a canvas covering area of s. scale is pixels per point.
func NewCanvas(s Surface, area Rect, extent Extent, scale float64, seed uint64) *Canvas {
	return &Canvas{surface: s, area: area, extent: extent, scale: scale, rng: rand.New(rand.NewPCG(seed, 0x50c))}
}

func (c *Canvas) Surface() Surface { return c.surface }
func (c *Canvas) Area() Rect       { return c.area }
func (c *Canvas) Rand() *rand.Rand { return c.rng }

// Map converts a data point to device pixels.
func (c *Canvas) Map(p Point) Point {
	e := c.extent
	x := c.area.X + (p.X-e.XMin)/e.Width()*c.area.W
	y := c.area.Y + (e.YMax-p.Y)/e.Height()*c.area.H
	return Point{x, y}
}

// DX and DY convert data lengths along each axis into pixels.
func (c *Canvas) DX(d float64) float64 { return d / c.extent.Width() * c.area.W }
func (c *Canvas) DY(d float64) float64 { return d / c.extent.Height() * c.area.H }

// Pt converts points to pixels.
func (c *Canvas) Pt(v float64) float64 { return v * c.scale }

// DeviceRect converts a data rectangle with lower-left corner (x, y).
func (c *Canvas) DeviceRect(x, y, w, h float64) Rect {
	tl := c.Map(Point{x, y + h})
	return Rect{X: tl.X, Y: tl.Y, W: c.DX(w), H: c.DY(h)}
}

// RoundedBox draws the rectangle (x, y, w, h) grown by pad on every side
// with corner radius pad, like a fancy box with round style.
func (c *Canvas) RoundedBox(x, y, w, h, pad float64, st Style) {
	r := c.DeviceRect(x-pad, y-pad, w+2*pad, h+2*pad)
	radius := math.Min(c.DX(pad), c.DY(pad))
	c.surface.Rect(r, radius, c.style(st))
}

// Rect draws a plain rectangle.
func (c *Canvas) Rect(x, y, w, h float64, st Style) {
	c.surface.Rect(c.DeviceRect(x, y, w, h), 0, c.style(st))
}

// Ellipse draws a circle of data radius r; unequal axis scales make it an ellipse.
func (c *Canvas) Ellipse(center Point, r float64, st Style) {
	c.surface.Ellipse(c.Map(center), c.DX(r), c.DY(r), c.style(st))
}

// Wedge draws a pie slice of data radius r between two angles.
func (c *Canvas) Wedge(center Point, r, start, end float64, st Style) {
	c.surface.Wedge(c.Map(center), c.DX(r), c.DY(r), start, end, c.style(st))
}

// Arrow draws a connector between two data points.
func (c *Canvas) Arrow(from, to Point, st ArrowStyle) {
	st.Width = c.Pt(st.Width)
	st.HeadLength = c.Pt(st.HeadLength)
	st.HeadWidth = c.Pt(st.HeadWidth)
	st.ShrinkA = c.Pt(st.ShrinkA)
	st.ShrinkB = c.Pt(st.ShrinkB)
	c.surface.Arrow(c.Map(from), c.Map(to), st)
}

// Text draws a (possibly multi-line) string anchored at a data point. A
// background box, if any, is drawn first as a separate rectangle.
func (c *Canvas) Text(at Point, text string, st TextStyle) {
	st.Size = c.Pt(st.Size)
	p := c.Map(at)
	if bg := st.Background; bg != nil {
		_, box := layoutText(text, p, st, func(line string) float64 {
			return c.surface.MeasureText(line, st)
		})
		pad := bg.Pad * st.Size
		r := box.Inset(-pad)
		c.surface.Rect(r, pad, Style{Fill: bg.Fill, Stroke: bg.Stroke, StrokeWidth: c.Pt(1)})
		st.Background = nil
	}
	c.surface.Text(p, text, st)
}

func (c *Canvas) style(st Style) Style {
	st.StrokeWidth = c.Pt(st.StrokeWidth)
	return st
}
