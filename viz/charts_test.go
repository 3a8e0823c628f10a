package viz

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWedgeAngles(t *testing.T) {
	spans := WedgeAngles([]float64{25, 20, 18, 15, 12, 10})
	sweeps := make([]float64, len(spans))
	total := 0.0
	for i, s := range spans {
		sweeps[i] = s.Sweep
		total += s.Sweep
	}
	if diff := cmp.Diff([]float64{90, 72, 64.8, 54, 43.2, 36}, sweeps, approx); diff != "" {
		t.Errorf("sweeps mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 360, total, 1e-9)

	// each wedge starts where the previous one ended
	for i := 1; i < len(spans); i++ {
		assert.InDelta(t, spans[i-1].End(), spans[i].Start, 1e-9)
	}
}

func TestWedgeAngles_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"empty", nil, []float64{}},
		{"single", []float64{3}, []float64{360}},
		{"all zero", []float64{0, 0}, []float64{0, 0}},
		{"negative ignored", []float64{-5, 1, 1}, []float64{0, 180, 180}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := WedgeAngles(tt.values)
			got := make([]float64, len(spans))
			for i, s := range spans {
				got[i] = s.Sweep
			}
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("sweeps mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBarLengths_Monotonic(t *testing.T) {
	counts := []float64{15, 45, 120, 280, 540}
	lengths := BarLengths(counts, 3)

	require.Len(t, lengths, len(counts))
	for i := 1; i < len(lengths); i++ {
		assert.Greater(t, lengths[i], lengths[i-1])
	}
	assert.InDelta(t, 3, lengths[4], 1e-9)
	for i, c := range counts {
		assert.InDelta(t, c/540*3, lengths[i], 1e-9)
	}
	assert.Equal(t, []float64{0, 0}, BarLengths([]float64{0, 0}, 3))
}

func TestBarChart_Draw(t *testing.T) {
	b := DefaultBarChart()
	b.Title = "Monthly Incidents by Severity"
	for i, n := range []float64{5, 15, 35, 45} {
		b.Items = append(b.Items, Bar{Label: "L" + strconv.Itoa(i), Count: n, Color: Gray})
	}
	rec := NewRecorder(100, 100)
	b.Draw(NewCanvas(rec, Rect{W: 100, H: 100}, Extent{XMax: 10, YMax: 10}, 1, 1))

	require.Equal(t, 4, rec.Count(OpRect))
	assert.Equal(t, 1+2*4, rec.Count(OpText))
	var widths []float64
	for _, op := range rec.Ops {
		if op.Kind == OpRect {
			widths = append(widths, op.Rect.W)
		}
	}
	assert.InDelta(t, 30, widths[3], 1e-9)
	assert.Less(t, widths[0], widths[1])
	assert.Less(t, widths[2], widths[3])
}

func TestPieChart_Draw(t *testing.T) {
	p := DefaultPieChart()
	p.Values = []float64{25, 20, 18, 15, 12, 10}
	p.Labels = []string{"Malware", "Phishing", "Data breach", "Insider threat", "DDoS", "Other"}
	rec := NewRecorder(100, 100)
	p.Draw(NewCanvas(rec, Rect{W: 100, H: 100}, Extent{XMax: 10, YMax: 10}, 1, 1))

	assert.Equal(t, 6, rec.Count(OpWedge))
	assert.Equal(t, 6, rec.Count(OpText))
	assert.Equal(t, "Malware\n25%", rec.Texts()[0])
	assert.Equal(t, "Other\n10%", rec.Texts()[5])

	last := rec.Ops[len(rec.Ops)-2]
	require.Equal(t, OpWedge, last.Kind)
	assert.InDelta(t, 360, last.End, 1e-9)
}

func matrixLevels(rec *Recorder, n int) []string {
	texts := rec.Texts()
	return texts[:n]
}

func TestHeatMatrix_ExplicitValues(t *testing.T) {
	h := DefaultHeatMatrix()
	h.Rows = []string{"Detection", "Response"}
	h.Cols = []string{"Initial", "Managed"}
	h.Values = [][]int{{1, 2}, {3, 5}}
	rec := record(testFigure(&h))

	assert.Equal(t, []string{"1", "2", "3", "5"}, matrixLevels(rec, 4))
	// 4 cells plus 5 scale swatches
	assert.Equal(t, 9, rec.Count(OpRect))
}

func TestHeatMatrix_PlaceholderLevels(t *testing.T) {
	newMatrix := func() *HeatMatrix {
		h := DefaultHeatMatrix()
		h.Rows = []string{"a", "b", "c", "d", "e"}
		h.Cols = []string{"1", "2", "3", "4", "5"}
		return &h
	}

	fig := testFigure(newMatrix())
	first := matrixLevels(record(fig), 25)
	again := matrixLevels(record(fig), 25)
	assert.Equal(t, first, again, "same seed must give the same placeholder levels")

	for _, s := range first {
		n, err := strconv.Atoi(s)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 5)
	}

	other := testFigure(newMatrix())
	other.Seed = 8
	assert.NotEqual(t, first, matrixLevels(record(other), 25))
}

func TestHeatMatrix_PartialValues(t *testing.T) {
	h := DefaultHeatMatrix()
	h.Rows = []string{"a", "b"}
	h.Cols = []string{"x", "y"}
	h.Values = [][]int{{4}}
	levels := matrixLevels(record(testFigure(&h)), 4)
	assert.Equal(t, "4", levels[0])
}
