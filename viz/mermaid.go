package viz

import (
	"bytes"
	"fmt"
	"strings"
)

// --- Mermaid Static Generator ---

type MermaidStaticGenerator struct{}

func (g *MermaidStaticGenerator) Generate(diagramName string, nodes []Node, edges []Edge) (string, error) {
	var b bytes.Buffer
	b.WriteString("graph TD;\n")
	b.WriteString(fmt.Sprintf("  subgraph diagram [\"%s\"]\n", mermaidEscape(diagramName)))

	for _, node := range nodes {
		label := mermaidEscape(node.Name)
		if node.Type != "" {
			label += "<br/>(" + mermaidEscape(node.Type) + ")"
		}
		b.WriteString(fmt.Sprintf("    %s[\"%s\"];\n", node.ID, label))
	}

	for _, edge := range edges {
		b.WriteString(fmt.Sprintf("    %s --> %s;\n", edge.FromID, edge.ToID))
	}
	b.WriteString("  end\n")
	for _, node := range nodes {
		if node.Color != "" {
			b.WriteString(fmt.Sprintf("  style %s fill:%s,color:#fff\n", node.ID, node.Color))
		}
	}
	return b.String(), nil
}

func mermaidEscape(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}
