package query

import (
	"fmt"
	"sort"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// DefaultGraphDepth is §4.9.1's default traversal depth.
const DefaultGraphDepth = 2

// GraphQueryInput is one graph-query request. Depth and RespectLayers
// carry no implicit default here — front-ends apply DefaultGraphDepth
// and respectLayers=true before calling, since depth=0 and
// respectLayers=false are both meaningful, explicit inputs (see §8's
// depth=0 boundary case) and the engine must not silently override them.
type GraphQueryInput struct {
	RootNode      string
	Depth         int
	EdgeTypes     []graph.EdgeType
	IncludeKinds  []kindrules.Kind
	RespectLayers bool
}

// ScoredNode is one related node with its proximity score.
type ScoredNode struct {
	Node  graph.Node
	Score float64
}

// GraphQueryResult is the outcome of a graph query.
type GraphQueryResult struct {
	Center     graph.Node
	Related    []ScoredNode
	Edges      []graph.Edge
	TotalNodes int
	TotalEdges int
}

// GraphQuery traverses outward from RootNode and scores every other
// visited node by 1/(1+distance), distance estimated by BFS over the
// undirected adjacency of the edges the traversal actually matched.
func (e *Engine) GraphQuery(in GraphQueryInput) (GraphQueryResult, error) {
	if !e.Graph.HasNode(in.RootNode) {
		return GraphQueryResult{}, NewError(ErrNodeNotFound, fmt.Sprintf("node not found: %s", in.RootNode))
	}

	result := e.Graph.Traverse(in.RootNode, in.Depth, in.EdgeTypes, in.RespectLayers)
	center, _ := e.Graph.GetNode(in.RootNode)

	kindFilter := kindSet(in.IncludeKinds)

	adjacency := map[string][]string{}
	for _, edge := range result.Edges {
		adjacency[edge.From] = append(adjacency[edge.From], edge.To)
		adjacency[edge.To] = append(adjacency[edge.To], edge.From)
	}
	distances := bfsDistances(in.RootNode, adjacency)

	var related []ScoredNode
	for _, n := range result.Nodes {
		if n.ID == in.RootNode {
			continue
		}
		if kindFilter != nil && !kindFilter[n.Kind] {
			continue
		}
		d, ok := distances[n.ID]
		if !ok {
			d = 1
		}
		related = append(related, ScoredNode{Node: n, Score: 1 / (1 + float64(d))})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Score > related[j].Score
	})

	return GraphQueryResult{
		Center:     center,
		Related:    related,
		Edges:      result.Edges,
		TotalNodes: len(related),
		TotalEdges: len(result.Edges),
	}, nil
}
