// Package artifact reads and writes the on-disk JSON tree that persists
// an index between program runs:
//
//	<root>/
//	  manifest.json
//	  nodes/<kind>/<documentId>.json
//	  edges/edges.jsonl
//	  embeddings/<kind>/<documentId>.json
package artifact

import (
	"time"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// IndexLevel is the capability tier an index was built at.
type IndexLevel string

const (
	LevelL1 IndexLevel = "L1" // graph only
	LevelL2 IndexLevel = "L2" // graph + embeddings
	LevelL3 IndexLevel = "L3" // graph + embeddings + enrichments
)

// Stats summarizes the counts carried in a Manifest.
type Stats struct {
	Nodes       int `json:"nodes"`
	Edges       int `json:"edges"`
	Embeddings  int `json:"embeddings"`
	Enrichments int `json:"enrichments"`
}

// Manifest is the top-level descriptor of an index directory.
type Manifest struct {
	FormatVersion   int        `json:"format_version"`
	KDDVersion      string     `json:"kdd_version"`
	EmbeddingModel  string     `json:"embedding_model,omitempty"` // empty means "none"
	Dimensions      int        `json:"dimensions,omitempty"`
	IndexedAt       time.Time  `json:"indexed_at"`
	IndexerIdentity string     `json:"indexer_identity"`
	StructureTag    string     `json:"structure_tag"`
	IndexLevel      IndexLevel `json:"index_level"`
	Stats           Stats      `json:"stats"`
	Domains         []string   `json:"domains,omitempty"`
	GitCommit       string     `json:"git_commit,omitempty"`
}

// EmbeddingRecord is one persisted chunk embedding.
type EmbeddingRecord struct {
	ID            string         `json:"id"` // chunk ID: documentId:chunk-N
	DocumentID    string         `json:"document_id"`
	Kind          kindrules.Kind `json:"kind"`
	SectionPath   string         `json:"section_path"`
	ChunkIndex    int            `json:"chunk_index"`
	RawText       string         `json:"raw_text"`
	ContextText   string         `json:"context_text"`
	Vector        []float64      `json:"vector"`
	Model         string         `json:"model,omitempty"`
	Dimensions    int            `json:"dimensions"`
	TextHash      string         `json:"text_hash"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// documentKey groups embeddings into their (kind, documentId) file.
type documentKey struct {
	kind kindrules.Kind
	id   string
}

// GraphSnapshot is everything the graph store needs loaded from disk.
type GraphSnapshot struct {
	Nodes []graph.Node
	Edges []graph.Edge
}
