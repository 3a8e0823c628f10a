package viz

import "math"

// Point is a location either in data coordinates (y up) or in device
// pixels (y down), depending on who holds it.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Unit returns p scaled to length 1, or the zero point if p has no length.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Rect is an axis aligned rectangle. In device space X,Y is the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Inset shrinks the rectangle by d on every side (grows it for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.X+r.W, o.X+o.W), math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Extent is the data coordinate range of a panel.
type Extent struct {
	XMin, XMax, YMin, YMax float64
}

func (e Extent) Width() float64 { return e.XMax - e.XMin }
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Span is a wedge given as start angle and sweep, both in degrees,
// counterclockwise from 3 o'clock.
type Span struct {
	Start, Sweep float64
}

func (s Span) End() float64 { return s.Start + s.Sweep }
func (s Span) Mid() float64 { return s.Start + s.Sweep/2 }

// ellipsePoint returns the device point at angle deg on an ellipse centered
// at c. Angles run counterclockwise as seen on screen.
func ellipsePoint(c Point, rx, ry, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{c.X + rx*math.Cos(rad), c.Y - ry*math.Sin(rad)}
}

// arcPoints flattens an elliptic arc into a polyline.
func arcPoints(c Point, rx, ry, start, end float64) []Point {
	sweep := end - start
	n := int(math.Ceil(math.Abs(sweep) / 5))
	if n < 2 {
		n = 2
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, ellipsePoint(c, rx, ry, start+sweep*float64(i)/float64(n)))
	}
	return pts
}

// roundedRectPoints flattens a rectangle with corner radius into a closed polygon.
func roundedRectPoints(r Rect, radius float64) []Point {
	radius = math.Max(0, math.Min(radius, math.Min(r.W, r.H)/2))
	if radius == 0 {
		return []Point{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
	}
	var pts []Point
	corners := []struct {
		c     Point
		start float64
	}{
		{Point{r.X + r.W - radius, r.Y + radius}, 0},         // top right
		{Point{r.X + radius, r.Y + radius}, 90},              // top left
		{Point{r.X + radius, r.Y + r.H - radius}, 180},       // bottom left
		{Point{r.X + r.W - radius, r.Y + r.H - radius}, 270}, // bottom right
	}
	for _, k := range corners {
		pts = append(pts, arcPoints(k.c, radius, radius, k.start, k.start+90)...)
	}
	return pts
}

// wedgePoints returns the closed outline of a pie wedge.
func wedgePoints(c Point, rx, ry, start, end float64) []Point {
	pts := []Point{c}
	return append(pts, arcPoints(c, rx, ry, start, end)...)
}

// quadPoints flattens a quadratic bezier from p0 to p2 with control p1.
func quadPoints(p0, p1, p2 Point, n int) []Point {
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		a := p0.Lerp(p1, t)
		b := p1.Lerp(p2, t)
		pts = append(pts, a.Lerp(b, t))
	}
	return pts
}

func polylineLength(pts []Point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Dist(pts[i-1])
	}
	return total
}

// trimPolyline removes length a from the start and b from the end of pts.
func trimPolyline(pts []Point, a, b float64) []Point {
	if len(pts) < 2 || a+b <= 0 {
		return pts
	}
	if polylineLength(pts) <= a+b {
		return pts
	}
	out := trimStart(pts, a)
	rev := reversed(out)
	return reversed(trimStart(rev, b))
}

func trimStart(pts []Point, d float64) []Point {
	if d <= 0 {
		return pts
	}
	for i := 1; i < len(pts); i++ {
		seg := pts[i].Dist(pts[i-1])
		if seg >= d {
			start := pts[i-1].Lerp(pts[i], d/seg)
			return append([]Point{start}, pts[i:]...)
		}
		d -= seg
	}
	return pts[len(pts)-1:]
}

func reversed(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// signedArea is positive for polygons wound clockwise on screen.
func signedArea(pts []Point) float64 {
	a := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

// boundsOf returns the bounding rectangle of a set of points.
func boundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	x0, y0, x1, y1 := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		x0, y0 = math.Min(x0, p.X), math.Min(y0, p.Y)
		x1, y1 = math.Max(x1, p.X), math.Max(y1, p.Y)
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}
