package extract

import (
	"strings"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/wikilink"
)

// reservedPrefixLayer maps the reserved wiki-link prefixes (§4.3) to the
// layer of the kind(s) they denote. "UI-" is shared by ui-view and
// ui-component: both sit in the experience layer, so the single reserved
// prefix resolves unambiguously for layer-violation purposes even though
// the two kinds mint different node-ID prefixes ("UIV"/"UIC").
var reservedPrefixLayer = map[string]kindrules.Layer{
	"EVT-":  kindrules.LayerOf(kindrules.KindEvent),
	"BR-":   kindrules.LayerOf(kindrules.KindBusinessRule),
	"BP-":   kindrules.LayerOf(kindrules.KindBusinessPolicy),
	"XP-":   kindrules.LayerOf(kindrules.KindCrossPolicy),
	"CMD-":  kindrules.LayerOf(kindrules.KindCommand),
	"QRY-":  kindrules.LayerOf(kindrules.KindQuery),
	"UC-":   kindrules.LayerOf(kindrules.KindUseCase),
	"PROC-": kindrules.LayerOf(kindrules.KindProcess),
	"REQ-":  kindrules.LayerOf(kindrules.KindRequirement),
	"OBJ-":  kindrules.LayerOf(kindrules.KindObjective),
	"ADR-":  kindrules.LayerOf(kindrules.KindADR),
	"PRD-":  kindrules.LayerOf(kindrules.KindPRD),
	"UI-":   kindrules.LayerExperience,
}

// destinationLayer locates a wiki-link target's layer through its prefix.
// A target with none of the reserved prefixes falls back to the entity
// layer (domain), per §4.3's "any other target is treated as an entity
// target".
func destinationLayer(target string) kindrules.Layer {
	for prefix, layer := range reservedPrefixLayer {
		if strings.HasPrefix(target, prefix) {
			return layer
		}
	}
	return kindrules.LayerDomain
}

// collectWikiLinkEdges scans every section body of the document for
// [[...]] references and emits one deduplicated WIKI_LINK edge per unique
// target, bidirectional, with layer_violation computed against origin.
func collectWikiLinkEdges(in Input, fromID string) []graph.Edge {
	seen := map[string]bool{}
	var edges []graph.Edge

	for _, section := range in.Document.Sections {
		for _, link := range wikilink.Extract(section.Body) {
			if link.Target == "" || seen[link.Target] {
				continue
			}
			seen[link.Target] = true

			edges = append(edges, graph.Edge{
				From:             fromID,
				To:               link.Target,
				Type:             graph.EdgeWikiLink,
				SourcePath:       in.SourcePath,
				ExtractionMethod: "wiki-link",
				Bidirectional:    true,
				LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(link.Target)),
			})
		}
	}

	return edges
}

// targetsWithPrefix scans body for wiki-link targets beginning with
// prefix, e.g. "EVT-" or "CMD-". Bodies formatted as a bullet list (the
// common case for these sections) are scanned item by item; anything
// else falls back to scanning the whole body as free text.
func targetsWithPrefix(body, prefix string) []string {
	items := parseListItems(body)
	if len(items) == 0 {
		items = []string{body}
	}

	var out []string
	for _, item := range items {
		for _, link := range wikilink.Extract(item) {
			if strings.HasPrefix(link.Target, prefix) {
				out = append(out, link.Target)
			}
		}
	}
	return out
}
