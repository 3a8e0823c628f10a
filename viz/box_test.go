package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoxes() []Drawable {
	st := DefaultBoxStyle()
	return []Drawable{
		&Box{X: 5, Y: 75, W: 18, H: 15, Title: "Threat Intelligence\nIntel Management", Fill: MustParseColor("#2E86AB"),
			Details: []string{"• Intel collection", "• IOC management"}, Style: st},
		&Box{X: 5, Y: 20, W: 20, H: 25, Title: "Infrastructure", Fill: MustParseColor("#A23B72"),
			Details: []string{"Network security:", "• Firewall", "", "Host security:", "• Hardening"}, Style: st},
		&Box{X: 40, Y: 40, W: 10, H: 10, Title: "Empty", Fill: Black, Style: st},
	}
}

func TestBox_PrimitiveCounts(t *testing.T) {
	rec := record(testFigure(testBoxes()...))

	// One rectangle and one title per box, one text per non-blank detail.
	assert.Equal(t, 3, rec.Count(OpRect))
	assert.Equal(t, 3+2+4, rec.Count(OpText))
	assert.Equal(t, []string{
		"Threat Intelligence\nIntel Management", "• Intel collection", "• IOC management",
		"Infrastructure", "Network security:", "• Firewall", "Host security:", "• Hardening",
		"Empty",
	}, rec.Texts())
}

func TestBox_Idempotent(t *testing.T) {
	fig := testFigure(testBoxes()...)
	first, second := record(fig), record(fig)
	assert.Equal(t, first.Ops, second.Ops)
}

func TestBox_Headings(t *testing.T) {
	rec := record(testFigure(testBoxes()...))
	for _, op := range rec.Ops {
		if op.Kind != OpText {
			continue
		}
		switch op.Text {
		case "Network security:", "Host security:":
			assert.True(t, op.Font.Bold, op.Text)
			assert.Equal(t, MustParseColor("yellow"), op.Font.Color, op.Text)
		case "• Firewall":
			assert.False(t, op.Font.Bold)
			assert.Equal(t, White, op.Font.Color)
		}
	}
}

func TestBox_DetailLayout(t *testing.T) {
	rec := NewRecorder(100, 100)
	c := unitCanvas(rec)
	b := &Box{X: 10, Y: 10, W: 30, H: 40, Title: "T", Fill: Black,
		Details: []string{"a", "", "b"}, Style: DefaultBoxStyle()}
	b.Draw(c)

	require.Len(t, rec.Ops, 4)
	// top edge is y=50: title 3 below, details from 6 below every 2.5
	assert.InDelta(t, 100-47.0, rec.Ops[1].At.Y, 1e-9)
	assert.InDelta(t, 100-44.0, rec.Ops[2].At.Y, 1e-9)
	assert.InDelta(t, 100-39.0, rec.Ops[3].At.Y, 1e-9)
	assert.InDelta(t, 11.0, rec.Ops[2].At.X, 1e-9)

	// padded by 0.3 on every side with corner radius 0.3
	assert.InDeltaSlice(t, []float64{9.7, 49.7, 30.6, 40.6},
		[]float64{rec.Ops[0].Rect.X, rec.Ops[0].Rect.Y, rec.Ops[0].Rect.W, rec.Ops[0].Rect.H}, 1e-9)
	assert.InDelta(t, 0.3, rec.Ops[0].Radius, 1e-9)
}

func TestBox_AutoTextColor(t *testing.T) {
	st := DefaultBoxStyle()
	st.AutoText = true
	rec := record(testFigure(
		&Box{X: 5, Y: 50, W: 25, H: 20, Title: "dark", Fill: MustParseColor("#343A40"), Style: st},
		&Box{X: 70, Y: 50, W: 25, H: 20, Title: "light", Fill: MustParseColor("#87CEEB"), Style: st},
	))
	var colors []any
	for _, op := range rec.Ops {
		if op.Kind == OpText {
			colors = append(colors, op.Font.Color)
		}
	}
	assert.Equal(t, []any{White, Black}, colors)
}
