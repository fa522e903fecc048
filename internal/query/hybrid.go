package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// Hybrid query defaults, per §4.9.3.
const (
	DefaultHybridDepth     = 2
	DefaultHybridMinScore  = 0.5
	DefaultHybridLimit     = 10
	DefaultHybridMaxTokens = 8000
)

// hybridFusionDivisor is the literal, undocumented 0.6+0.3+0.1+0.2
// normalizer from the source formula. Preserved as-is; see DESIGN.md.
const hybridFusionDivisor = 1.2

// HybridQueryInput is one hybrid-query request.
type HybridQueryInput struct {
	QueryText     string
	ExpandGraph   bool
	Depth         int
	IncludeKinds  []kindrules.Kind
	IncludeLayers []kindrules.Layer
	RespectLayers bool
	MinScore      float64
	Limit         int
	MaxTokens     int
}

// MatchSource tags which phase(s) of the fusion contributed to a result.
type MatchSource string

const (
	MatchFusion   MatchSource = "fusion"
	MatchSemantic MatchSource = "semantic"
	MatchGraph    MatchSource = "graph"
	MatchLexical  MatchSource = "lexical"
)

// HybridResult is one scored, fused match.
type HybridResult struct {
	Node        graph.Node
	Score       float64
	Snippet     string
	MatchSource MatchSource
}

// HybridQueryResult is the outcome of a hybrid query.
type HybridQueryResult struct {
	Results  []HybridResult
	Edges    []graph.Edge
	Warnings []string
}

type nodeEvidence struct {
	semantic float64
	graph    float64
	lexical  float64
}

// HybridQuery fuses semantic, lexical, and graph-proximity signals into
// one ranked list, per the fixed formula of §4.9.3.
func (e *Engine) HybridQuery(ctx context.Context, in HybridQueryInput) (HybridQueryResult, error) {
	text := strings.TrimSpace(in.QueryText)
	if len(text) < 3 {
		return HybridQueryResult{}, NewError(ErrQueryTooShort, "query text must be at least 3 characters")
	}

	kindFilter := kindSet(in.IncludeKinds)
	layerFilter := layerSet(in.IncludeLayers)

	evidence := map[string]*nodeEvidence{}
	var order []string // first-seen order, for stable tie-breaking

	touch := func(nodeID string) *nodeEvidence {
		ev, ok := evidence[nodeID]
		if !ok {
			ev = &nodeEvidence{}
			evidence[nodeID] = ev
			order = append(order, nodeID)
		}
		return ev
	}

	var warnings []string

	// 1. Semantic phase.
	if e.Vectors != nil && e.Encoder != nil {
		vectors, err := e.Encoder.Embed(ctx, []string{text}, embed.ModeQuery)
		if err != nil {
			return HybridQueryResult{}, err
		}
		hits := e.Vectors.Search(toFloat64(vectors[0]), 3*in.Limit, in.MinScore*0.8)
		for _, h := range hits {
			documentID := documentIDFromEmbeddingID(h.ID)
			nodeID, ok := resolveNodeID(e.Graph, documentID)
			if !ok {
				continue
			}
			ev := touch(nodeID)
			if h.Score > ev.semantic {
				ev.semantic = h.Score
			}
		}
	} else {
		warnings = append(warnings, "NO_EMBEDDINGS")
	}

	// 2. Lexical phase. Presence is boolean: a substring hit contributes
	// its full 0.1 weight, it does not grade by match quality.
	for _, n := range e.Graph.TextSearch(text, nil) {
		if !nodePassesFilter(n, kindFilter, layerFilter) {
			continue
		}
		touch(n.ID).lexical = 1.0
	}

	// 3. Graph expansion. Each discovered node's graph evidence is its
	// proximity 1/(1+distance) to the nearest seed, the same decay
	// GraphQuery uses; a node adjacent to two seeds keeps its closest.
	var expansionEdges []graph.Edge
	if in.ExpandGraph {
		edgeSeen := map[string]bool{}
		seeds := append([]string(nil), order...)
		for _, seed := range seeds {
			if !e.Graph.HasNode(seed) {
				continue
			}
			result := e.Graph.Traverse(seed, in.Depth, nil, in.RespectLayers)
			adjacency := map[string][]string{}
			for _, edge := range result.Edges {
				if !edgeSeen[edge.Key()] {
					edgeSeen[edge.Key()] = true
					expansionEdges = append(expansionEdges, edge)
				}
				adjacency[edge.From] = append(adjacency[edge.From], edge.To)
				adjacency[edge.To] = append(adjacency[edge.To], edge.From)
			}
			distances := bfsDistances(seed, adjacency)
			for _, n := range result.Nodes {
				if n.ID == seed {
					continue
				}
				if !nodePassesFilter(n, kindFilter, layerFilter) {
					continue
				}
				d, ok := distances[n.ID]
				if !ok {
					d = 1
				}
				proximity := 1 / (1 + float64(d))
				if ev := touch(n.ID); proximity > ev.graph {
					ev.graph = proximity
				}
			}
		}
	}

	// 4. Fusion.
	type fused struct {
		node        graph.Node
		score       float64
		matchSource MatchSource
	}
	var fusedResults []fused

	for _, nodeID := range order {
		node, ok := e.Graph.GetNode(nodeID)
		if !ok {
			continue
		}
		if !nodePassesFilter(node, kindFilter, layerFilter) {
			continue
		}

		ev := evidence[nodeID]
		sources := 0
		if ev.semantic > 0 {
			sources++
		}
		if ev.graph > 0 {
			sources++
		}
		if ev.lexical > 0 {
			sources++
		}
		if sources == 0 {
			continue
		}

		raw := 0.6*ev.semantic + 0.3*ev.graph + 0.1*ev.lexical + 0.1*maxFloat(0, float64(sources-1))
		score := raw / hybridFusionDivisor
		if score > 1.0 {
			score = 1.0
		}
		if score < in.MinScore {
			continue
		}

		matchSource := matchSourceFor(ev)
		fusedResults = append(fusedResults, fused{node: node, score: score, matchSource: matchSource})
	}

	sort.SliceStable(fusedResults, func(i, j int) bool {
		return fusedResults[i].score > fusedResults[j].score
	})

	// 5. Ordering and token budget.
	var out []HybridResult
	tokensUsed := 0
	for _, f := range fusedResults {
		snippet := fmt.Sprintf("[%s] %s", f.node.Kind, f.node.ID)
		cost := tokenCost(snippet)
		if len(out) > 0 && tokensUsed+cost > in.MaxTokens {
			break
		}
		if len(out) >= in.Limit {
			break
		}
		out = append(out, HybridResult{Node: f.node, Score: f.score, Snippet: snippet, MatchSource: f.matchSource})
		tokensUsed += cost
	}

	return HybridQueryResult{Results: out, Edges: expansionEdges, Warnings: warnings}, nil
}

// matchSourceFor picks the tag for an evidenced node: "fusion" when both
// semantic and graph contributed, otherwise whichever single class is
// present, preferring semantic over graph over lexical when more than
// one non-fusion combination is present, defaulting to lexical.
func matchSourceFor(ev *nodeEvidence) MatchSource {
	if ev.semantic > 0 && ev.graph > 0 {
		return MatchFusion
	}
	if ev.semantic > 0 {
		return MatchSemantic
	}
	if ev.graph > 0 {
		return MatchGraph
	}
	return MatchLexical
}

func tokenCost(snippet string) int {
	cost := len(snippet) / 4
	if cost < 1 {
		cost = 1
	}
	return cost
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
