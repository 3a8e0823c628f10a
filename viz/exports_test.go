package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopology(t *testing.T) {
	fig := sampleFigure()
	// loose end: starts in Box B, ends in empty space
	fig.Panels[0].Elements = append(fig.Panels[0].Elements,
		&Connector{From: Point{75, 60}, To: Point{75, 20}, Style: DefaultArrowStyle()})

	nodes, edges := Topology(fig)
	require.Len(t, nodes, 2)
	assert.Equal(t, Node{ID: "n1", Name: "Box A", Color: "#2e86ab"}, nodes[0])
	assert.Equal(t, []Edge{{FromID: "n1", ToID: "n2"}}, edges)
}

func TestTopology_MultiPanelIDs(t *testing.T) {
	fig := &Figure{Name: "two", Width: 10, Height: 5, Rows: 1, Cols: 2}
	for i := 0; i < 2; i++ {
		fig.Panels = append(fig.Panels, &Panel{Col: i, Extent: Extent{XMax: 10, YMax: 10},
			Elements: []Drawable{&Box{X: 1, Y: 1, W: 2, H: 2, Title: "Role\nLead", Fill: Black, Style: DefaultBoxStyle()}}})
	}
	nodes, _ := Topology(fig)
	require.Len(t, nodes, 2)
	assert.Equal(t, "p1_n1", nodes[0].ID)
	assert.Equal(t, "p2_n1", nodes[1].ID)
	assert.Equal(t, "Lead", nodes[1].Type)
}

func TestTopologyExporter_Dot(t *testing.T) {
	fig := sampleFigure()
	fig.Title = `SOC "Overview"`
	out, err := (&TopologyExporter{Generator: &DotGenerator{}}).Export(fig)
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, `digraph "SOC \"Overview\"" {`))
	assert.Contains(t, s, `"n1" [label="Box A", fillcolor="#2e86ab"];`)
	assert.Contains(t, s, `"n1" -> "n2";`)
}

func TestTopologyExporter_Mermaid(t *testing.T) {
	out, err := (&TopologyExporter{Generator: &MermaidStaticGenerator{}}).Export(sampleFigure())
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "graph TD;\n"))
	assert.Contains(t, s, `n2["Box B"];`)
	assert.Contains(t, s, "n1 --> n2;")
	assert.Contains(t, s, "style n2 fill:#f18f01")
}

func TestExcalidrawGenerator(t *testing.T) {
	fig := sampleFigure()
	gen := &ExcalidrawGenerator{DPI: 72}
	out, err := gen.Export(fig)
	require.NoError(t, err)

	var file ExcalidrawFile
	require.NoError(t, json.Unmarshal(out, &file))
	assert.Equal(t, "excalidraw", file.Type)
	assert.Equal(t, "#ffffff", file.AppState["viewBackgroundColor"])

	rec := record(fig)
	require.Len(t, file.Elements, len(rec.Ops))
	kinds := map[string]int{}
	ids := map[string]bool{}
	for _, el := range file.Elements {
		kinds[el.Type]++
		ids[el.ID] = true
	}
	assert.Len(t, ids, len(file.Elements))
	assert.Equal(t, rec.Count(OpRect), kinds["rectangle"])
	assert.Equal(t, rec.Count(OpArrow), kinds["arrow"])
	assert.Equal(t, rec.Count(OpWedge), kinds["line"])
	assert.Equal(t, rec.Count(OpText), kinds["text"])

	again, err := gen.Export(fig)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again), "same seed, same scene")
}

func TestGenerators_PlainEdges(t *testing.T) {
	nodes := []Node{{ID: "a", Name: "Detect"}, {ID: "b", Name: "Triage", Type: "L1"}, {ID: "c", Name: "Respond"}}
	edges := []Edge{{FromID: "a", ToID: "b"}, {FromID: "b", ToID: "c"}}

	dot, err := (&DotGenerator{}).Generate("flow", nodes, edges)
	require.NoError(t, err)
	mmd, err := (&MermaidStaticGenerator{}).Generate("flow", nodes, edges)
	require.NoError(t, err)

	var dotEdges, mmdEdges []string
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			dotEdges = append(dotEdges, strings.TrimSpace(line))
		}
	}
	for _, line := range strings.Split(mmd, "\n") {
		if strings.Contains(line, "-->") {
			mmdEdges = append(mmdEdges, strings.TrimSpace(line))
		}
	}
	assert.Equal(t, []string{`"a" -> "b";`, `"b" -> "c";`}, dotEdges)
	assert.Equal(t, []string{"a --> b;", "b --> c;"}, mmdEdges)
	assert.Contains(t, dot, `label="Triage\n(L1)"`)
}
