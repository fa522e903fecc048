package extract

import (
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
)

// Extract runs the registered extractor for in.Kind, returning the one
// node it produces plus the full deduplicated edge list: the wiki-link
// edges shared by every kind, plus that kind's additional typed edges.
func Extract(in Input) (graph.Node, []graph.Edge) {
	e, ok := Lookup(in.Kind)
	if !ok {
		return graph.Node{}, nil
	}

	node := e.ExtractNode(in)

	edges := collectWikiLinkEdges(in, node.ID)
	edges = append(edges, e.ExtractEdges(in, node.ID)...)

	return node, dedupeEdges(edges)
}
