package viz

import (
	"bytes"
	"fmt"
	"strings"
)

// --- DOT Generator ---

type DotGenerator struct{}

func (g *DotGenerator) Generate(diagramName string, nodes []Node, edges []Edge) (string, error) {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("digraph \"%s\" {\n", dotEscape(diagramName)))
	b.WriteString("  rankdir=TB;\n")
	b.WriteString(fmt.Sprintf("  label=\"%s\";\n", dotEscape(diagramName)))
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white];\n")

	for _, node := range nodes {
		label := dotEscape(node.Name)
		if node.Type != "" {
			label += "\\n(" + dotEscape(node.Type) + ")"
		}
		b.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"%s\"];\n", node.ID, label, node.Color))
	}

	for _, edge := range edges {
		b.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\";\n", edge.FromID, edge.ToID))
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
