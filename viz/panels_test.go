package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKPIList_RowGeometry(t *testing.T) {
	k := DefaultKPIList()
	k.Top, k.X, k.Width = 90, 10, 50
	k.BarHeight, k.Step, k.Pad = 4, 6, 1
	k.Items = []KPI{
		{Name: "MTTD", Value: "8.2 hours", Description: "Mean Time to Detect", Color: Gray},
		{Name: "MTTR", Value: "2.5 hours", Description: "Mean Time to Respond", Color: Gray},
	}
	rec := NewRecorder(100, 100)
	k.Draw(unitCanvas(rec))

	require.Equal(t, 2, rec.Count(OpRect))
	require.Equal(t, 4, rec.Count(OpText))
	for i := 0; i < 2; i++ {
		bar, name, desc := rec.Ops[3*i], rec.Ops[3*i+1], rec.Ops[3*i+2]
		require.Equal(t, OpRect, bar.Kind)

		// the padded bar hangs from the row top and is BarHeight plus padding tall
		rowTop := 100 - (k.Top - float64(i)*k.Step)
		assert.InDelta(t, rowTop, bar.Rect.Y, 1e-9)
		assert.InDelta(t, k.BarHeight+2*k.Pad, bar.Rect.H, 1e-9)

		assert.InDelta(t, bar.Rect.Y+bar.Rect.H/2, name.At.Y, 1e-9, "name centered on the bar")
		assert.Greater(t, desc.At.Y, name.At.Y)
		assert.Less(t, desc.At.Y, bar.Rect.Y+bar.Rect.H-k.Pad)
	}
}

func TestKPIList_TallerBars(t *testing.T) {
	draw := func(h float64) Rect {
		k := DefaultKPIList()
		k.BarHeight = h
		k.Items = []KPI{{Name: "Uptime", Value: "99.9%", Color: Gray}}
		rec := NewRecorder(100, 100)
		k.Draw(NewCanvas(rec, Rect{W: 100, H: 100}, Extent{XMax: 10, YMax: 10}, 1, 1))
		return rec.Ops[0].Rect
	}
	short, tall := draw(0.7), draw(0.9)
	assert.InDelta(t, short.Y, tall.Y, 1e-9, "bars hang from the same row top")
	assert.InDelta(t, 2, tall.H-short.H, 1e-9)
}
