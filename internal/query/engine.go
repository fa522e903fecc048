// Package query answers the six retrieval queries over a loaded graph
// store and (optionally) a vector store plus encoder: graph, semantic,
// hybrid, impact, coverage, and layer-violation. A query is a pure
// function over the stores it was built with, plus — for the
// semantic/hybrid paths — a single asynchronous call to the encoder.
// Stores are frozen during serving; a reindex builds a new Engine and
// the caller swaps it in atomically.
package query

import (
	"strings"

	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/vectorstore"
)

// Engine bundles the shared, read-only resources every query runs over.
// Vectors and Encoder may both be nil, in which case the semantic phase
// of every query is omitted and a NO_EMBEDDINGS warning is attached.
type Engine struct {
	Graph   *graph.Store
	Vectors *vectorstore.Store
	Encoder embed.Encoder
}

// NewEngine wires a query Engine from its three shared resources.
func NewEngine(g *graph.Store, v *vectorstore.Store, e embed.Encoder) *Engine {
	return &Engine{Graph: g, Vectors: v, Encoder: e}
}

func kindSet(kinds []kindrules.Kind) map[kindrules.Kind]bool {
	if len(kinds) == 0 {
		return nil
	}
	out := make(map[kindrules.Kind]bool, len(kinds))
	for _, k := range kinds {
		out[k] = true
	}
	return out
}

func layerSet(layers []kindrules.Layer) map[kindrules.Layer]bool {
	if len(layers) == 0 {
		return nil
	}
	out := make(map[kindrules.Layer]bool, len(layers))
	for _, l := range layers {
		out[l] = true
	}
	return out
}

// documentIDFromEmbeddingID strips a chunk suffix ("Invoice:chunk-3" ->
// "Invoice") by cutting at the first colon, per §4.9.2.
func documentIDFromEmbeddingID(embeddingID string) string {
	if idx := strings.Index(embeddingID, ":"); idx >= 0 {
		return embeddingID[:idx]
	}
	return embeddingID
}

// resolveNodeID maps a bare document ID to a node ID by trying every
// known kind's prefix in turn; the first one present in the graph wins.
// kindrules.AllKinds order is the tie-break when a document ID happens
// to collide across kinds (extremely unlikely, since IDs are normally
// author-assigned per document, but the resolver must still be
// deterministic).
func resolveNodeID(g *graph.Store, documentID string) (string, bool) {
	for _, k := range kindrules.AllKinds() {
		candidate := kindrules.Prefix(k) + ":" + documentID
		if g.HasNode(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// bfsDistances computes shortest hop-count from root over an undirected
// adjacency list, used to score graph-query results by proximity.
func bfsDistances(root string, adjacency map[string][]string) map[string]int {
	dist := map[string]int{root: 0}
	queue := []string{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if _, ok := dist[next]; ok {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

func nodePassesFilter(n graph.Node, kindFilter map[kindrules.Kind]bool, layerFilter map[kindrules.Layer]bool) bool {
	if kindFilter != nil && !kindFilter[n.Kind] {
		return false
	}
	if layerFilter != nil && !layerFilter[n.Layer] {
		return false
	}
	return true
}
