package viz

import "math"

// DefaultArrowStyle is a thin gray "->" connector with 2pt shrink at both ends.
func DefaultArrowStyle() ArrowStyle {
	return ArrowStyle{
		Color:      WithAlpha(Gray, 0.7),
		Width:      1,
		HeadLength: 8,
		HeadWidth:  8,
		ShrinkA:    2,
		ShrinkB:    2,
	}
}

// Connector is a directed arrow between two literal data points. There is
// no routing; the endpoints are drawn where they are given.
type Connector struct {
	From, To Point
	Style    ArrowStyle
}

func (a *Connector) Kind() string { return "connector" }

func (a *Connector) Draw(c *Canvas) {
	c.Arrow(a.From, a.To, a.Style)
}

const arcSegments = 24

// ArrowGeometry computes the device-space shaft polyline and open head of
// an arrow. The head is returned as [left barb, tip, right barb].
//
// A non-zero curvature bends the shaft into a quadratic arc whose control
// point sits at the chord midpoint offset perpendicular by curvature times
// the chord length.
func ArrowGeometry(from, to Point, st ArrowStyle) (shaft, head []Point) {
	if st.Curvature == 0 {
		shaft = []Point{from, to}
	} else {
		d := to.Sub(from)
		ctrl := from.Lerp(to, 0.5).Add(Point{-d.Y, d.X}.Scale(st.Curvature))
		shaft = quadPoints(from, ctrl, to, arcSegments)
	}
	shaft = trimPolyline(shaft, st.ShrinkA, st.ShrinkB)

	n := len(shaft)
	tip := shaft[n-1]
	dir := tip.Sub(shaft[n-2]).Unit()
	if dir == (Point{}) {
		return shaft, nil
	}
	hl := math.Max(st.HeadLength, 0)
	hw := math.Max(st.HeadWidth, 0) / 2
	if hl == 0 {
		return shaft, nil
	}
	base := tip.Sub(dir.Scale(hl))
	perp := Point{-dir.Y, dir.X}
	head = []Point{base.Add(perp.Scale(hw)), tip, base.Sub(perp.Scale(hw))}
	return shaft, head
}
