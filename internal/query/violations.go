package query

import (
	"math"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// ViolationsQueryInput is one layer-violation query request.
type ViolationsQueryInput struct {
	IncludeKinds  []kindrules.Kind
	IncludeLayers []kindrules.Layer
}

// Violation is one edge crossing layers in the wrong direction.
type Violation struct {
	From      string
	To        string
	FromLayer kindrules.Layer
	ToLayer   kindrules.Layer
	EdgeType  graph.EdgeType
}

// ViolationsResult is the outcome of a layer-violation query.
type ViolationsResult struct {
	Violations []Violation
	TotalEdges int
	Rate       float64 // percent, two decimal places
}

// Violations lists every layer-crossing edge, optionally restricted to
// edges where at least one endpoint's kind and layer both satisfy the
// include filters.
func (e *Engine) Violations(in ViolationsQueryInput) ViolationsResult {
	kindFilter := kindSet(in.IncludeKinds)
	layerFilter := layerSet(in.IncludeLayers)

	var out []Violation
	for _, edge := range e.Graph.FindViolations() {
		fromNode, fromOK := e.Graph.GetNode(edge.From)
		toNode, toOK := e.Graph.GetNode(edge.To)
		if !fromOK || !toOK {
			continue
		}
		if !endpointMatches(fromNode, kindFilter, layerFilter) && !endpointMatches(toNode, kindFilter, layerFilter) {
			continue
		}
		out = append(out, Violation{
			From:      edge.From,
			To:        edge.To,
			FromLayer: fromNode.Layer,
			ToLayer:   toNode.Layer,
			EdgeType:  edge.Type,
		})
	}

	total := e.Graph.EdgeCount()
	rate := 0.0
	if total > 0 {
		rate = math.Round(10000*float64(len(out))/float64(total)) / 100
	}

	return ViolationsResult{Violations: out, TotalEdges: total, Rate: rate}
}

func endpointMatches(n graph.Node, kindFilter map[kindrules.Kind]bool, layerFilter map[kindrules.Layer]bool) bool {
	if kindFilter == nil && layerFilter == nil {
		return true
	}
	if kindFilter != nil && !kindFilter[n.Kind] {
		return false
	}
	if layerFilter != nil && !layerFilter[n.Layer] {
		return false
	}
	return true
}
