package extract

import (
	"strings"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/wikilink"
)

// Extractor produces one node and its additional (non-wiki-link) edges
// from a parsed document. Every extractor also gets the shared wiki-link
// pass, run once in Extract regardless of kind.
type Extractor interface {
	Kind() kindrules.Kind
	ExtractNode(in Input) graph.Node
	ExtractEdges(in Input, nodeID string) []graph.Edge
}

// registry is the closed mapping from kind to its extractor.
var registry = map[kindrules.Kind]Extractor{}

func register(e Extractor) { registry[e.Kind()] = e }

func init() {
	register(entityExtractor{})
	register(passthroughExtractor{kind: kindrules.KindEvent})
	register(ruleLikeExtractor{kind: kindrules.KindBusinessRule, sections: []string{"declaration"}})
	register(ruleLikeExtractor{kind: kindrules.KindBusinessPolicy, sections: []string{"declaration"}})
	register(ruleLikeExtractor{kind: kindrules.KindCrossPolicy, sections: []string{"purpose", "declaration"}})
	register(commandExtractor{})
	register(passthroughExtractor{kind: kindrules.KindQuery})
	register(passthroughExtractor{kind: kindrules.KindProcess})
	register(useCaseExtractor{})
	register(passthroughExtractor{kind: kindrules.KindUIView})
	register(passthroughExtractor{kind: kindrules.KindUIComponent})
	register(passthroughExtractor{kind: kindrules.KindRequirement})
	register(passthroughExtractor{kind: kindrules.KindObjective})
	register(passthroughExtractor{kind: kindrules.KindPRD})
	register(passthroughExtractor{kind: kindrules.KindADR})
	register(passthroughExtractor{kind: kindrules.KindGlossary})
}

// Lookup returns the extractor registered for k, and false if none is.
func Lookup(k kindrules.Kind) (Extractor, bool) {
	e, ok := registry[k]
	return e, ok
}

// --- passthrough: kinds with no additional edges beyond wiki-links ---

type passthroughExtractor struct{ kind kindrules.Kind }

func (e passthroughExtractor) Kind() kindrules.Kind { return e.kind }
func (e passthroughExtractor) ExtractNode(in Input) graph.Node {
	return baseNode(in)
}
func (e passthroughExtractor) ExtractEdges(in Input, nodeID string) []graph.Edge {
	return nil
}

// --- entity: DOMAIN_RELATION from Relations table, EMITS from Lifecycle Events ---

type entityExtractor struct{}

func (entityExtractor) Kind() kindrules.Kind { return kindrules.KindEntity }

func (entityExtractor) ExtractNode(in Input) graph.Node {
	return baseNode(in)
}

func (entityExtractor) ExtractEdges(in Input, nodeID string) []graph.Edge {
	var edges []graph.Edge

	if body, ok := in.sectionBody("relations"); ok {
		edges = append(edges, domainRelationEdges(in, nodeID, body)...)
	} else if body, ok := in.sectionBody("relationships"); ok {
		edges = append(edges, domainRelationEdges(in, nodeID, body)...)
	} else if body, ok := in.sectionBody("relaciones"); ok {
		edges = append(edges, domainRelationEdges(in, nodeID, body)...)
	}

	for _, heading := range []string{"lifecycle events", "eventos de ciclo de vida"} {
		if body, ok := in.sectionBody(heading); ok {
			for _, target := range targetsWithPrefix(body, "EVT-") {
				edges = append(edges, graph.Edge{
					From:             nodeID,
					To:               target,
					Type:             graph.EdgeEmits,
					SourcePath:       in.SourcePath,
					ExtractionMethod: "lifecycle-events",
					LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(target)),
				})
			}
			break
		}
	}

	return edges
}

// domainRelationEdges parses a Relations table whose rows carry a wiki-link
// target plus "relation" and "cardinality" columns.
func domainRelationEdges(in Input, nodeID, body string) []graph.Edge {
	var edges []graph.Edge
	for _, row := range parseTableRows(body) {
		var rowText strings.Builder
		for _, v := range row {
			rowText.WriteString(v)
			rowText.WriteString(" ")
		}
		links := wikilink.Extract(rowText.String())
		if len(links) == 0 {
			continue
		}
		target := links[0].Target

		metadata := map[string]any{}
		if relation, ok := row["relation"]; ok {
			metadata["relation"] = relation
		}
		if cardinality, ok := row["cardinality"]; ok {
			metadata["cardinality"] = cardinality
		}

		edges = append(edges, graph.Edge{
			From:             nodeID,
			To:               target,
			Type:             graph.EdgeDomainRelation,
			SourcePath:       in.SourcePath,
			ExtractionMethod: "relations-table",
			Metadata:         metadata,
			LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(target)),
		})
	}
	return edges
}

// --- command: EMITS from Postconditions ---

type commandExtractor struct{}

func (commandExtractor) Kind() kindrules.Kind { return kindrules.KindCommand }

func (commandExtractor) ExtractNode(in Input) graph.Node {
	return baseNode(in)
}

func (commandExtractor) ExtractEdges(in Input, nodeID string) []graph.Edge {
	var edges []graph.Edge
	for _, heading := range []string{"postconditions", "postcondiciones"} {
		body, ok := in.sectionBody(heading)
		if !ok {
			continue
		}
		for _, target := range targetsWithPrefix(body, "EVT-") {
			edges = append(edges, graph.Edge{
				From:             nodeID,
				To:               target,
				Type:             graph.EdgeEmits,
				SourcePath:       in.SourcePath,
				ExtractionMethod: "postconditions",
				LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(target)),
			})
		}
		break
	}
	return edges
}

// --- business-rule, business-policy, cross-policy: ENTITY_RULE from Declaration/Purpose ---

type ruleLikeExtractor struct {
	kind     kindrules.Kind
	sections []string // English headings; Spanish synonyms checked too
}

var ruleLikeSpanish = map[string]string{
	"purpose":     "propósito",
	"declaration": "declaración",
}

func (e ruleLikeExtractor) Kind() kindrules.Kind { return e.kind }

func (e ruleLikeExtractor) ExtractNode(in Input) graph.Node {
	return baseNode(in)
}

func (e ruleLikeExtractor) ExtractEdges(in Input, nodeID string) []graph.Edge {
	var edges []graph.Edge
	for _, heading := range e.sections {
		body, ok := in.sectionBody(heading)
		if !ok {
			body, ok = in.sectionBody(ruleLikeSpanish[heading])
		}
		if !ok {
			continue
		}
		for _, link := range wikilink.Extract(body) {
			if link.TypedRef {
				continue // entity targets only
			}
			edges = append(edges, graph.Edge{
				From:             nodeID,
				To:               link.Target,
				Type:             graph.EdgeEntityRule,
				SourcePath:       in.SourcePath,
				ExtractionMethod: "declaration",
				LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(link.Target)),
			})
		}
	}
	return edges
}

// --- use-case: UC_APPLIES_RULE, UC_EXECUTES_CMD, UC_STORY ---

type useCaseExtractor struct{}

func (useCaseExtractor) Kind() kindrules.Kind { return kindrules.KindUseCase }

func (useCaseExtractor) ExtractNode(in Input) graph.Node {
	return baseNode(in)
}

func (useCaseExtractor) ExtractEdges(in Input, nodeID string) []graph.Edge {
	var edges []graph.Edge

	for _, heading := range []string{"applied rules", "reglas aplicadas"} {
		body, ok := in.sectionBody(heading)
		if !ok {
			continue
		}
		for _, prefix := range []string{"BR-", "BP-", "XP-"} {
			for _, target := range targetsWithPrefix(body, prefix) {
				edges = append(edges, graph.Edge{
					From:             nodeID,
					To:               target,
					Type:             graph.EdgeUCAppliesRule,
					SourcePath:       in.SourcePath,
					ExtractionMethod: "applied-rules",
					LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(target)),
				})
			}
		}
		break
	}

	for _, heading := range []string{"commands executed", "comandos ejecutados"} {
		body, ok := in.sectionBody(heading)
		if !ok {
			continue
		}
		for _, target := range targetsWithPrefix(body, "CMD-") {
			edges = append(edges, graph.Edge{
				From:             nodeID,
				To:               target,
				Type:             graph.EdgeUCExecutesCmd,
				SourcePath:       in.SourcePath,
				ExtractionMethod: "commands-executed",
				LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(target)),
			})
		}
		break
	}

	var wholeDoc strings.Builder
	for _, section := range in.Document.Sections {
		wholeDoc.WriteString(section.Body)
		wholeDoc.WriteString("\n")
	}
	for _, target := range targetsWithPrefix(wholeDoc.String(), "OBJ-") {
		edges = append(edges, graph.Edge{
			From:             nodeID,
			To:               target,
			Type:             graph.EdgeUCStory,
			SourcePath:       in.SourcePath,
			ExtractionMethod: "use-case-story",
			LayerViolation:   kindrules.IsLayerViolation(in.Layer, destinationLayer(target)),
		})
	}

	return edges
}
