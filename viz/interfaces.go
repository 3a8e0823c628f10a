// package viz defines the drawable descriptors, the surfaces they render onto
// and the generators that export a figure into other diagram formats.
package viz

// --- Common Data Structures ---

// Drawable is one declarative descriptor (a box, a connector, a chart
// panel...) that knows how to draw itself on a canvas.
type Drawable interface {
	Kind() string
	Draw(c *Canvas)
}

// Node represents a box in a figure's topology.
type Node struct {
	ID    string // Unique identifier for the node
	Name  string // Display name (first title line)
	Type  string // Subtitle (remaining title lines), may be empty
	Color string // Fill as #rrggbb
}

// Edge represents a connector whose both ends landed on boxes. Connectors
// carry no text, so neither do edges.
type Edge struct {
	FromID string
	ToID   string
}

// --- Interfaces for Generators ---

// StaticDiagramGenerator defines the interface for creating static diagrams
// from a figure's topology.
type StaticDiagramGenerator interface {
	Generate(name string, nodes []Node, edges []Edge) (string, error)
}

// FigureExporter turns a whole figure into a text based diagram format.
type FigureExporter interface {
	Export(fig *Figure) ([]byte, error)
}
