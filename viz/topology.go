package viz

import (
	"fmt"
	"math"
	"strings"
)

// Topology extracts boxes as nodes and box-to-box connectors as edges.
// A connector end is attached to the box whose padded outline lies within
// a small tolerance of it; connectors with a loose end are skipped.
func Topology(fig *Figure) ([]Node, []Edge) {
	var (
		nodes []Node
		edges []Edge
	)
	for pi, p := range fig.Panels {
		type placed struct {
			id string
			r  Rect
		}
		var boxes []placed
		tol := 0.02 * math.Max(p.Extent.Width(), p.Extent.Height())

		for _, d := range p.Elements {
			b, ok := d.(*Box)
			if !ok {
				continue
			}
			id := fmt.Sprintf("n%d", len(nodes)+1)
			if len(fig.Panels) > 1 {
				id = fmt.Sprintf("p%d_n%d", pi+1, len(boxes)+1)
			}
			name, sub, _ := strings.Cut(b.Title, "\n")
			nodes = append(nodes, Node{
				ID:    id,
				Name:  name,
				Type:  strings.ReplaceAll(sub, "\n", " "),
				Color: Hex(b.Fill),
			})
			pad := b.Style.Pad + tol
			boxes = append(boxes, placed{id, Rect{b.X - pad, b.Y - pad, b.W + 2*pad, b.H + 2*pad}})
		}

		attach := func(pt Point) string {
			best, bestDist := "", math.Inf(1)
			for _, b := range boxes {
				if !b.r.Contains(pt) {
					continue
				}
				if d := b.r.Center().Dist(pt); d < bestDist {
					best, bestDist = b.id, d
				}
			}
			return best
		}
		for _, d := range p.Elements {
			c, ok := d.(*Connector)
			if !ok {
				continue
			}
			from, to := attach(c.From), attach(c.To)
			if from == "" || to == "" || from == to {
				continue
			}
			edges = append(edges, Edge{FromID: from, ToID: to})
		}
	}
	return nodes, edges
}

// TopologyExporter renders a figure's topology with a static generator.
type TopologyExporter struct {
	Generator StaticDiagramGenerator
}

func (e *TopologyExporter) Export(fig *Figure) ([]byte, error) {
	nodes, edges := Topology(fig)
	name := fig.Title
	if name == "" {
		name = fig.Name
	}
	out, err := e.Generator.Generate(name, nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", fig.Name, err)
	}
	return []byte(out), nil
}
