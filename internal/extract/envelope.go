package extract

import (
	"strings"
	"time"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// nodeID formats the globally unique node identifier for in.
func nodeID(in Input) string {
	return kindrules.Prefix(in.Kind) + ":" + in.DocumentID()
}

// baseNode builds the common envelope every extractor populates, with the
// indexed-fields map already filled from the kind's indexed sections.
func baseNode(in Input) graph.Node {
	return graph.Node{
		ID:            nodeID(in),
		Kind:          in.Kind,
		SourcePath:    in.SourcePath,
		SourceHash:    in.SourceHash(),
		Layer:         in.Layer,
		Status:        in.Status(),
		Aliases:       in.Aliases(),
		Domain:        in.Domain(),
		IndexedFields: indexedFields(in),
		IndexedAt:     time.Now().UTC(),
	}
}

// indexedFields populates the kind-specific indexed-fields map from the
// bilingual section-name synonyms of §6. Missing sections simply omit
// their field; no section is required.
func indexedFields(in Input) map[string]any {
	out := map[string]any{}
	for _, section := range in.Document.Sections {
		heading := strings.ToLower(strings.TrimSpace(section.Heading))
		field, ok := kindrules.IndexedFieldName(in.Kind, heading)
		if !ok {
			continue
		}
		if strings.TrimSpace(section.Body) == "" {
			continue
		}
		out[field] = section.Body
	}
	return out
}

// dedupeEdges drops edges sharing a (from, to, type) composite key,
// keeping the first occurrence.
func dedupeEdges(edges []graph.Edge) []graph.Edge {
	seen := make(map[string]bool, len(edges))
	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
