package viz

import "image/color"

// Step is one stage of a process strip. At is the lower-left anchor of
// the stage; the marker circle is placed relative to it.
type Step struct {
	At      Point
	Marker  string
	Caption string
	Color   color.NRGBA
}

// Steps draws a horizontal process strip: a numbered circle per stage,
// a caption under it, and an arrow from each circle to the next.
type Steps struct {
	Items        []Step
	Offset       Point   // circle center relative to At
	Radius       float64 // data units
	Alpha        float64
	MarkerSize   float64
	CaptionSize  float64
	CaptionGap   float64 // data units between circle center and caption
	CaptionColor color.NRGBA
	Arrow        ArrowStyle
}

func DefaultSteps() Steps {
	arrow := DefaultArrowStyle()
	arrow.HeadLength, arrow.HeadWidth = 6, 6
	return Steps{
		Offset:       Point{7, 3},
		Radius:       2,
		Alpha:        0.8,
		MarkerSize:   10,
		CaptionSize:  8,
		CaptionGap:   4,
		CaptionColor: Black,
		Arrow:        arrow,
	}
}

func (s *Steps) Kind() string { return "steps" }

func (s *Steps) center(i int) Point { return s.Items[i].At.Add(s.Offset) }

func (s *Steps) Draw(c *Canvas) {
	for i, it := range s.Items {
		ctr := s.center(i)
		c.Ellipse(ctr, s.Radius, Style{Fill: WithAlpha(it.Color, s.Alpha)})
		c.Text(ctr, it.Marker, TextStyle{
			Size: s.MarkerSize, Bold: true, Color: White,
			Align: AlignCenter, VAlign: VAlignCenter,
		})
		c.Text(Point{ctr.X, ctr.Y - s.CaptionGap}, it.Caption, TextStyle{
			Size: s.CaptionSize, Color: s.CaptionColor,
			Align: AlignCenter, VAlign: VAlignCenter,
		})
	}
	for i := 0; i+1 < len(s.Items); i++ {
		a, b := s.center(i), s.center(i+1)
		c.Arrow(Point{a.X + s.Radius, a.Y}, Point{b.X - s.Radius, a.Y}, s.Arrow)
	}
}

type LegendItem struct {
	Label string
	Color color.NRGBA
}

// Legend stacks colored swatches with labels downward from At.
type Legend struct {
	Items      []LegendItem
	At         Point // lower-left corner of the first swatch
	Swatch     Point // swatch width and height
	Step       float64
	TextOffset Point // label anchor relative to the swatch corner
	TextSize   float64
	Alpha      float64
}

func DefaultLegend() Legend {
	return Legend{
		At:         Point{2, 2},
		Swatch:     Point{1, 1},
		Step:       1.5,
		TextOffset: Point{2, 0.5},
		TextSize:   9,
		Alpha:      0.8,
	}
}

func (l *Legend) Kind() string { return "legend" }

func (l *Legend) Draw(c *Canvas) {
	for i, it := range l.Items {
		y := l.At.Y - float64(i)*l.Step
		c.Rect(l.At.X, y, l.Swatch.X, l.Swatch.Y, Style{Fill: WithAlpha(it.Color, l.Alpha)})
		c.Text(Point{l.At.X + l.TextOffset.X, y + l.TextOffset.Y}, it.Label, TextStyle{
			Size: l.TextSize, Color: Black, VAlign: VAlignCenter,
		})
	}
}

// Label is free standing text such as a figure title or a phase tag.
type Label struct {
	At    Point
	Text  string
	Style TextStyle
}

func (l *Label) Kind() string { return "label" }

func (l *Label) Draw(c *Canvas) {
	c.Text(l.At, l.Text, l.Style)
}
