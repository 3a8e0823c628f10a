package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFigure is a 10in square single panel figure. At 72 dpi one point is
// one pixel.
func testFigure(elems ...Drawable) *Figure {
	return &Figure{
		Name:       "test",
		Width:      10,
		Height:     10,
		Rows:       1,
		Cols:       1,
		Background: White,
		Seed:       7,
		Panels: []*Panel{{
			Extent:   Extent{XMin: 0, XMax: 100, YMin: 0, YMax: 100},
			Elements: elems,
		}},
	}
}

func record(fig *Figure) *Recorder {
	rec := NewRecorder(720, 720)
	Render(fig, rec)
	return rec
}

// unitCanvas maps data (0..100, y up) onto pixels (0..100, y down).
func unitCanvas(s Surface) *Canvas {
	return NewCanvas(s, Rect{W: 100, H: 100}, Extent{XMin: 0, XMax: 100, YMin: 0, YMax: 100}, 1, 1)
}

func TestCanvas_Map(t *testing.T) {
	c := unitCanvas(NewRecorder(100, 100))
	assert.Equal(t, Point{0, 100}, c.Map(Point{0, 0}))
	assert.Equal(t, Point{100, 0}, c.Map(Point{100, 100}))
	assert.Equal(t, Point{25, 25}, c.Map(Point{25, 75}))
	assert.Equal(t, Rect{X: 10, Y: 70, W: 20, H: 10}, c.DeviceRect(10, 20, 20, 10))
}

func TestRender_PanelGrid(t *testing.T) {
	fig := &Figure{Name: "grid", Width: 10, Height: 10, Rows: 2, Cols: 2}
	for r := 0; r < 2; r++ {
		for col := 0; col < 2; col++ {
			fig.Panels = append(fig.Panels, &Panel{
				Row: r, Col: col, Extent: Extent{XMax: 10, YMax: 10},
				Elements: []Drawable{&Label{At: Point{5, 5}, Text: "x", Style: TextStyle{Size: 10}}},
			})
		}
	}
	rec := record(fig)
	require.Equal(t, 4, rec.Count(OpText))

	// Labels land in their own quadrant.
	quad := func(p Point) [2]int { return [2]int{int(p.Y / 360), int(p.X / 360)} }
	seen := map[[2]int]bool{}
	for _, op := range rec.Ops {
		seen[quad(op.At)] = true
	}
	assert.Len(t, seen, 4)
}

func TestRender_PanelTitle(t *testing.T) {
	fig := testFigure()
	fig.Panels[0].Title = "Key Metrics\nKPIs"
	rec := record(fig)
	require.Equal(t, []string{"Key Metrics\nKPIs"}, rec.Texts())
	assert.True(t, rec.Ops[0].Font.Bold)
	assert.Equal(t, AlignCenter, rec.Ops[0].Font.Align)
}

func TestCanvas_TextBackground(t *testing.T) {
	rec := NewRecorder(100, 100)
	c := unitCanvas(rec)
	c.Text(Point{50, 50}, "Response", TextStyle{
		Size: 11, Align: AlignCenter, VAlign: VAlignCenter,
		Background: &TextBox{Fill: MustParseColor("lightgray"), Pad: 0.3},
	})
	require.Len(t, rec.Ops, 2)
	assert.Equal(t, OpRect, rec.Ops[0].Kind)
	assert.Equal(t, OpText, rec.Ops[1].Kind)
	assert.Nil(t, rec.Ops[1].Font.Background)

	box := rec.Ops[0].Rect
	assert.True(t, box.Contains(Point{50, 50}), "background %v should cover the anchor", box)
}
