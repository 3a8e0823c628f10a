package viz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestConnector_EndpointsMatchInput(t *testing.T) {
	pairs := [][2]Point{
		{{14, 75}, {27, 82}},
		{{45, 82}, {49, 82}},
		{{35, 60}, {25, 65}},
		{{82, 50}, {87, 45}},
	}
	rec := NewRecorder(100, 100)
	c := unitCanvas(rec)
	for _, p := range pairs {
		(&Connector{From: p[0], To: p[1], Style: DefaultArrowStyle()}).Draw(c)
	}

	require.Equal(t, len(pairs), rec.Count(OpArrow))
	for i, p := range pairs {
		got := [2]Point{rec.Ops[i].From, rec.Ops[i].To}
		want := [2]Point{{p[0].X, 100 - p[0].Y}, {p[1].X, 100 - p[1].Y}}
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("arrow %d endpoints mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestConnector_OneArrowPerDescriptor(t *testing.T) {
	var elems []Drawable
	for i := 0; i < 12; i++ {
		elems = append(elems, &Connector{From: Point{float64(i), 10}, To: Point{float64(i), 90}, Style: DefaultArrowStyle()})
	}
	rec := record(testFigure(elems...))
	assert.Equal(t, 12, rec.Count(OpArrow))
	assert.Equal(t, 12, len(rec.Ops))
}

func TestArrowGeometry_Straight(t *testing.T) {
	st := ArrowStyle{HeadLength: 8, HeadWidth: 8, ShrinkA: 2, ShrinkB: 2}
	shaft, head := ArrowGeometry(Point{0, 0}, Point{100, 0}, st)

	if diff := cmp.Diff([]Point{{2, 0}, {98, 0}}, shaft, approx); diff != "" {
		t.Errorf("shaft mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Point{{90, 4}, {98, 0}, {90, -4}}, head, approx); diff != "" {
		t.Errorf("head mismatch (-want +got):\n%s", diff)
	}
}

func TestArrowGeometry_NoShrinkWhenTooShort(t *testing.T) {
	shaft, _ := ArrowGeometry(Point{0, 0}, Point{3, 0}, ArrowStyle{ShrinkA: 2, ShrinkB: 2})
	assert.Equal(t, []Point{{0, 0}, {3, 0}}, shaft)
}

func TestArrowGeometry_Curved(t *testing.T) {
	st := ArrowStyle{HeadLength: 5, HeadWidth: 5, Curvature: 0.2}
	shaft, head := ArrowGeometry(Point{0, 0}, Point{100, 0}, st)

	require.Len(t, shaft, arcSegments+1)
	assert.Equal(t, Point{0, 0}, shaft[0])
	assert.InDelta(t, 100, shaft[len(shaft)-1].X, 1e-9)
	// control point (50, 20) puts the curve's midpoint at (50, 10)
	if diff := cmp.Diff(Point{50, 10}, shaft[arcSegments/2], approx); diff != "" {
		t.Errorf("midpoint mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, head, 3)
	assert.Equal(t, shaft[len(shaft)-1], head[1])
}

func TestArrowGeometry_Degenerate(t *testing.T) {
	shaft, head := ArrowGeometry(Point{5, 5}, Point{5, 5}, DefaultArrowStyle())
	assert.Len(t, shaft, 2)
	assert.Nil(t, head)
}
