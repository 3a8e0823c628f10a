package viz

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// WedgeAngles splits a full turn proportionally to values. Spans start at
// 0 degrees and advance counterclockwise. Negative values count as zero
// and a zero total yields zero sweeps.
func WedgeAngles(values []float64) []Span {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	spans := make([]Span, len(values))
	start := 0.0
	for i, v := range values {
		sweep := 0.0
		if total > 0 && v > 0 {
			sweep = v / total * 360
		}
		spans[i] = Span{Start: start, Sweep: sweep}
		start += sweep
	}
	return spans
}

// BarLengths scales counts so that the largest one is maxLen long.
func BarLengths(counts []float64, maxLen float64) []float64 {
	hi := 0.0
	for _, v := range counts {
		hi = math.Max(hi, v)
	}
	out := make([]float64, len(counts))
	if hi <= 0 {
		return out
	}
	for i, v := range counts {
		out[i] = math.Max(v, 0) / hi * maxLen
	}
	return out
}

// PieChart draws labelled wedges around Center.
type PieChart struct {
	Center      Point
	Radius      float64
	Values      []float64
	Labels      []string
	Colors      []color.NRGBA
	Alpha       float64
	EdgeColor   color.NRGBA
	EdgeWidth   float64
	LabelOffset float64 // distance of labels outside the rim
	LabelSize   float64
	Suffix      string // appended to the value in labels
}

func DefaultPieChart() PieChart {
	return PieChart{
		Center: Point{2.5, 7.5}, Radius: 1.2, Alpha: 0.8,
		EdgeColor: White, EdgeWidth: 2, LabelOffset: 0.3, LabelSize: 8, Suffix: "%",
	}
}

func (p *PieChart) Kind() string { return "pie" }

func (p *PieChart) Draw(c *Canvas) {
	for i, s := range WedgeAngles(p.Values) {
		fill := Gray
		if i < len(p.Colors) {
			fill = p.Colors[i]
		}
		c.Wedge(p.Center, p.Radius, s.Start, s.End(), Style{
			Fill: WithAlpha(fill, p.Alpha), Stroke: p.EdgeColor, StrokeWidth: p.EdgeWidth,
		})

		label := ""
		if i < len(p.Labels) {
			label = p.Labels[i]
		}
		mid := s.Mid() * math.Pi / 180
		r := p.Radius + p.LabelOffset
		at := Point{p.Center.X + r*math.Cos(mid), p.Center.Y + r*math.Sin(mid)}
		text := fmt.Sprintf("%s\n%s%s", label, strconv.FormatFloat(p.Values[i], 'f', -1, 64), p.Suffix)
		c.Text(at, text, TextStyle{
			Size: p.LabelSize, Bold: true, Color: Black, Align: AlignCenter, VAlign: VAlignCenter,
		})
	}
}

// Bar is one labelled count of a bar chart.
type Bar struct {
	Label string
	Count float64
	Color color.NRGBA
}

// BarChart draws horizontal bars growing right from Origin.X, one row per
// item going down from Origin.Y.
type BarChart struct {
	Title     string
	TitleAt   Point
	TitleSize float64
	Items     []Bar
	Origin    Point
	Step      float64
	Height    float64
	MaxLength float64
	Alpha     float64
	LabelSize float64
}

func DefaultBarChart() BarChart {
	return BarChart{
		TitleAt: Point{6.5, 9}, TitleSize: 12,
		Origin: Point{6, 8}, Step: 1.2, Height: 0.8, MaxLength: 3, Alpha: 0.8, LabelSize: 10,
	}
}

func (b *BarChart) Kind() string { return "bars" }

func (b *BarChart) counts() []float64 {
	out := make([]float64, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.Count
	}
	return out
}

func (b *BarChart) Draw(c *Canvas) {
	if b.Title != "" {
		c.Text(b.TitleAt, b.Title, TextStyle{Size: b.TitleSize, Bold: true, Color: Black, Align: AlignCenter})
	}
	lengths := BarLengths(b.counts(), b.MaxLength)
	for i, it := range b.Items {
		y := b.Origin.Y - float64(i)*b.Step
		c.Rect(b.Origin.X, y, lengths[i], b.Height, Style{Fill: WithAlpha(it.Color, b.Alpha)})
		mid := y + b.Height/2
		ts := TextStyle{Size: b.LabelSize, Bold: true, Color: Black, VAlign: VAlignCenter}
		ts.Align = AlignRight
		c.Text(Point{b.Origin.X - 0.1, mid}, it.Label, ts)
		ts.Align = AlignLeft
		c.Text(Point{b.Origin.X + lengths[i] + 0.1, mid}, strconv.FormatFloat(it.Count, 'f', -1, 64), ts)
	}
}

// HeatMatrix is a grid of maturity levels colored on a diverging scale,
// with row and column labels and a level legend.
//
// Cells without an explicit value get a placeholder level drawn from the
// canvas random source, so output is reproducible for a fixed seed.
type HeatMatrix struct {
	Rows      []string
	Cols      []string
	Values    [][]int
	Levels    int
	Colormap  Colormap
	Origin    Point // lower-left corner of the top-left cell
	Cell      Point // cell width and height
	Step      Point // distance between cells; rows go down
	Alpha     float64
	ValueSize float64
	LabelSize float64

	ScaleLabel string
	ScaleAt    Point
}

func DefaultHeatMatrix() HeatMatrix {
	return HeatMatrix{
		Levels:     5,
		Colormap:   RdYlGn,
		Origin:     Point{1.5, 8.5},
		Cell:       Point{1.6, 1.2},
		Step:       Point{1.8, 1.5},
		Alpha:      0.8,
		ValueSize:  14,
		LabelSize:  10,
		ScaleLabel: "Maturity Scale:",
		ScaleAt:    Point{1, 2},
	}
}

func (h *HeatMatrix) Kind() string { return "matrix" }

// Level returns the level of cell (i, j), drawing a placeholder if the
// cell has no explicit value.
func (h *HeatMatrix) Level(c *Canvas, i, j int) int {
	if i < len(h.Values) && j < len(h.Values[i]) {
		return h.Values[i][j]
	}
	return c.Rand().IntN(h.levels()) + 1
}

func (h *HeatMatrix) levels() int {
	if h.Levels < 1 {
		return 1
	}
	return h.Levels
}

func (h *HeatMatrix) color(level int) color.NRGBA {
	cm := h.Colormap
	if cm == nil {
		cm = RdYlGn
	}
	return WithAlpha(cm(float64(level)/float64(h.levels())), h.Alpha)
}

func (h *HeatMatrix) Draw(c *Canvas) {
	edge := Style{Stroke: Black, StrokeWidth: 1}
	for i := range h.Rows {
		for j := range h.Cols {
			x := h.Origin.X + float64(j)*h.Step.X
			y := h.Origin.Y - float64(i)*h.Step.Y
			level := h.Level(c, i, j)
			st := edge
			st.Fill = h.color(level)
			c.Rect(x, y, h.Cell.X, h.Cell.Y, st)
			c.Text(Point{x + h.Cell.X/2, y + h.Cell.Y/2}, strconv.Itoa(level), TextStyle{
				Size: h.ValueSize, Bold: true, Color: Black, Align: AlignCenter, VAlign: VAlignCenter,
			})
		}
	}

	label := TextStyle{Size: h.LabelSize, Bold: true, Color: Black}
	for i, name := range h.Rows {
		ts := label
		ts.Align, ts.VAlign = AlignRight, VAlignCenter
		c.Text(Point{h.Origin.X - 1, h.Origin.Y + h.Cell.Y/2 - float64(i)*h.Step.Y}, name, ts)
	}
	for j, name := range h.Cols {
		ts := label
		ts.Align, ts.VAlign = AlignCenter, VAlignBottom
		c.Text(Point{h.Origin.X + h.Cell.X/2 + float64(j)*h.Step.X, h.Origin.Y + h.Cell.Y + 0.1}, name, ts)
	}

	if h.ScaleLabel == "" {
		return
	}
	c.Text(h.ScaleAt, h.ScaleLabel, label)
	for l := 1; l <= h.levels(); l++ {
		x := h.ScaleAt.X + 1.5 + float64(l-1)*0.8
		st := edge
		st.Fill = h.color(l)
		c.Rect(x, h.ScaleAt.Y-0.3, 0.6, 0.4, st)
		c.Text(Point{x + 0.3, h.ScaleAt.Y - 0.1}, strconv.Itoa(l), TextStyle{
			Size: 9, Bold: true, Color: Black, Align: AlignCenter, VAlign: VAlignCenter,
		})
	}
}
