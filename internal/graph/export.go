package graph

import (
	"fmt"
	"strings"
)

// DOT renders the graph in Graphviz dot syntax so the relationship
// network can be inspected or plotted by external tooling.
func (g Graph) DOT() string {
	var sb strings.Builder

	sb.WriteString("graph papers {\n")
	sb.WriteString("    node [shape=ellipse fontsize=8];\n")

	for _, node := range g.Nodes {
		sb.WriteString(fmt.Sprintf("    n%d [label=%q];\n", node.Index, node.Title))
	}

	for _, edge := range g.Edges {
		sb.WriteString(fmt.Sprintf("    n%d -- n%d [weight=%.2f];\n", edge.From, edge.To, edge.Weight))
	}

	sb.WriteString("}\n")
	return sb.String()
}
