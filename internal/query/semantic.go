package query

import (
	"context"
	"strings"

	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// DefaultSemanticMinScore and DefaultSemanticLimit are §4.9.2's defaults.
const (
	DefaultSemanticMinScore = 0.7
	DefaultSemanticLimit    = 10
)

// SemanticQueryInput is one semantic-query request.
type SemanticQueryInput struct {
	QueryText     string
	IncludeKinds  []kindrules.Kind
	IncludeLayers []kindrules.Layer
	MinScore      float64
	Limit         int
}

// SemanticResult is one scored semantic match.
type SemanticResult struct {
	Node  graph.Node
	Score float64
}

// SemanticQueryResult is the outcome of a semantic query.
type SemanticQueryResult struct {
	Results  []SemanticResult
	Warnings []string
}

// SemanticQuery embeds QueryText and matches it against the vector
// store, resolving each hit's chunk ID back to its owning node.
func (e *Engine) SemanticQuery(ctx context.Context, in SemanticQueryInput) (SemanticQueryResult, error) {
	text := strings.TrimSpace(in.QueryText)
	if len(text) < 3 {
		return SemanticQueryResult{}, NewError(ErrQueryTooShort, "query text must be at least 3 characters")
	}

	if e.Vectors == nil || e.Encoder == nil {
		return SemanticQueryResult{Warnings: []string{"NO_EMBEDDINGS"}}, nil
	}

	vectors, err := e.Encoder.Embed(ctx, []string{text}, embed.ModeQuery)
	if err != nil {
		return SemanticQueryResult{}, err
	}

	hits := e.Vectors.Search(toFloat64(vectors[0]), 3*in.Limit, in.MinScore)

	kindFilter := kindSet(in.IncludeKinds)
	layerFilter := layerSet(in.IncludeLayers)

	seen := map[string]bool{}
	var out []SemanticResult
	for _, h := range hits {
		documentID := documentIDFromEmbeddingID(h.ID)
		nodeID, ok := resolveNodeID(e.Graph, documentID)
		if !ok || seen[nodeID] {
			continue
		}
		seen[nodeID] = true

		node, _ := e.Graph.GetNode(nodeID)
		if !nodePassesFilter(node, kindFilter, layerFilter) {
			continue
		}

		out = append(out, SemanticResult{Node: node, Score: h.Score})
		if len(out) >= in.Limit {
			break
		}
	}

	return SemanticQueryResult{Results: out}, nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
