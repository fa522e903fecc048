// Package graph is the in-memory directed multigraph of indexed
// documents: node/edge storage backed by github.com/dominikbraun/graph,
// plus the bidirectional BFS, reverse BFS, text scan, and
// layer-violation operations the query engine runs over it.
package graph

import (
	"time"

	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// EdgeType is one of the 17 closed relation types.
type EdgeType string

const (
	EdgeWikiLink            EdgeType = "WIKI_LINK"
	EdgeDomainRelation      EdgeType = "DOMAIN_RELATION"
	EdgeEntityRule          EdgeType = "ENTITY_RULE"
	EdgeEntityPolicy        EdgeType = "ENTITY_POLICY"
	EdgeEmits               EdgeType = "EMITS"
	EdgeConsumes            EdgeType = "CONSUMES"
	EdgeUCAppliesRule       EdgeType = "UC_APPLIES_RULE"
	EdgeUCExecutesCmd       EdgeType = "UC_EXECUTES_CMD"
	EdgeUCStory             EdgeType = "UC_STORY"
	EdgeViewTriggersUC      EdgeType = "VIEW_TRIGGERS_USE_CASE"
	EdgeViewUsesComponent   EdgeType = "VIEW_USES_COMPONENT"
	EdgeComponentUsesEntity EdgeType = "COMPONENT_USES_ENTITY"
	EdgeReqTracesTo         EdgeType = "REQ_TRACES_TO"
	EdgeValidates           EdgeType = "VALIDATES"
	EdgeDecidesFor          EdgeType = "DECIDES_FOR"
	EdgeCrossDomainRef      EdgeType = "CROSS_DOMAIN_REF"
	EdgeGlossaryDefines     EdgeType = "GLOSSARY_DEFINES"
)

// Node is one document's graph vertex. Immutable once extracted.
type Node struct {
	ID            string          `json:"id"` // prefix(kind) + ":" + documentId
	Kind          kindrules.Kind  `json:"kind"`
	SourcePath    string          `json:"source_path"`
	SourceHash    string          `json:"source_hash"` // SHA-256 hex of the source bytes
	Layer         kindrules.Layer `json:"layer"`
	Status        string          `json:"status"` // defaults to "draft"
	Aliases       []string        `json:"aliases,omitempty"`
	Domain        string          `json:"domain,omitempty"`
	IndexedFields map[string]any  `json:"indexed_fields,omitempty"`
	IndexedAt     time.Time       `json:"indexed_at"`
}

// Edge is one typed directed relation produced by extracting a document.
type Edge struct {
	From             string         `json:"from"`
	To               string         `json:"to"`
	Type             EdgeType       `json:"type"`
	SourcePath       string         `json:"source_path"`
	ExtractionMethod string         `json:"extraction_method"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	LayerViolation   bool           `json:"layer_violation"`
	Bidirectional    bool           `json:"bidirectional"`
}

// Key returns the composite deduplication key (from, to, edge_type).
func (e Edge) Key() string {
	return e.From + "\x00" + e.To + "\x00" + string(e.Type)
}
