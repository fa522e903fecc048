package extract

import (
	"testing"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/mdparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_EntityProducesIDAndEnvelope(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "KDDDocument", "aliases": []any{"KDD Doc"}},
		Sections: []mdparse.Section{
			{Heading: "Description", Body: "A specification document."},
		},
	}
	in := Input{
		SourcePath: "specs/01-domain/entities/KDDDocument.md",
		RawBytes:   []byte("source bytes"),
		Document:   doc,
		Kind:       kindrules.KindEntity,
		Layer:      kindrules.LayerDomain,
	}

	node, edges := Extract(in)
	assert.Equal(t, "ENT:KDDDocument", node.ID)
	assert.Equal(t, kindrules.KindEntity, node.Kind)
	assert.Equal(t, "draft", node.Status)
	assert.Equal(t, []string{"KDD Doc"}, node.Aliases)
	assert.Equal(t, "A specification document.", node.IndexedFields["description"])
	assert.Empty(t, edges)
}

func TestExtract_UnknownKindReturnsEmpty(t *testing.T) {
	in := Input{Kind: kindrules.Kind("nope"), Document: mdparse.Document{}}
	node, edges := Extract(in)
	assert.Empty(t, node.ID)
	assert.Empty(t, edges)
}

func TestExtract_WikiLinkEdgeLayerViolation(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "Checkout"},
		Sections: []mdparse.Section{
			{Heading: "Description", Body: "See [[UC-001]] for the flow."},
		},
	}
	in := Input{
		SourcePath: "specs/01-domain/entities/Checkout.md",
		Document:   doc,
		Kind:       kindrules.KindEntity,
		Layer:      kindrules.LayerDomain,
	}

	_, edges := Extract(in)
	require.Len(t, edges, 1)
	assert.Equal(t, graph.EdgeWikiLink, edges[0].Type)
	assert.Equal(t, "UC-001", edges[0].To)
	assert.True(t, edges[0].LayerViolation)
	assert.True(t, edges[0].Bidirectional)
}

func TestExtract_WikiLinkEdgeReverseDirectionNotViolating(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "UC-001"},
		Sections: []mdparse.Section{
			{Heading: "Description", Body: "Relates to [[Checkout]]."},
		},
	}
	in := Input{
		SourcePath: "specs/02-behavior/use-cases/UC-001.md",
		Document:   doc,
		Kind:       kindrules.KindUseCase,
		Layer:      kindrules.LayerBehavior,
	}

	_, edges := Extract(in)
	require.Len(t, edges, 1)
	assert.False(t, edges[0].LayerViolation)
}

func TestExtract_EntityEmitsLifecycleEvents(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "Invoice"},
		Sections: []mdparse.Section{
			{Heading: "Lifecycle Events", Body: "- [[EVT-001]]\n- [[EVT-002]]"},
		},
	}
	in := Input{
		SourcePath: "specs/01-domain/entities/Invoice.md",
		Document:   doc,
		Kind:       kindrules.KindEntity,
		Layer:      kindrules.LayerDomain,
	}

	_, edges := Extract(in)
	var emits []graph.Edge
	for _, e := range edges {
		if e.Type == graph.EdgeEmits {
			emits = append(emits, e)
		}
	}
	require.Len(t, emits, 2)
}

func TestExtract_EntityDomainRelationFromTable(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "Invoice"},
		Sections: []mdparse.Section{
			{Heading: "Relations", Body: "| Target | Relation | Cardinality |\n|---|---|---|\n| [[Customer]] | owns | 1:N |"},
		},
	}
	in := Input{
		SourcePath: "specs/01-domain/entities/Invoice.md",
		Document:   doc,
		Kind:       kindrules.KindEntity,
		Layer:      kindrules.LayerDomain,
	}

	_, edges := Extract(in)
	require.Len(t, edges, 2)
	assert.Equal(t, graph.EdgeWikiLink, edges[0].Type)
	assert.Equal(t, graph.EdgeDomainRelation, edges[1].Type)
	assert.Equal(t, "Customer", edges[1].To)
	assert.Equal(t, "owns", edges[1].Metadata["relation"])
	assert.Equal(t, "1:N", edges[1].Metadata["cardinality"])
}

func TestExtract_CommandEmitsFromPostconditions(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "CMD-001"},
		Sections: []mdparse.Section{
			{Heading: "Postconditions", Body: "Triggers [[EVT-100]]."},
		},
	}
	in := Input{
		SourcePath: "specs/02-behavior/commands/CMD-001.md",
		Document:   doc,
		Kind:       kindrules.KindCommand,
		Layer:      kindrules.LayerBehavior,
	}

	_, edges := Extract(in)
	require.Len(t, edges, 2)
	assert.Equal(t, graph.EdgeWikiLink, edges[0].Type)
	assert.Equal(t, graph.EdgeEmits, edges[1].Type)
	assert.Equal(t, "EVT-100", edges[1].To)
}

func TestExtract_BusinessRuleEntityRuleFromDeclaration(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "BR-001"},
		Sections: []mdparse.Section{
			{Heading: "Declaration", Body: "Applies to [[Invoice]]."},
		},
	}
	in := Input{
		SourcePath: "specs/01-domain/business-rules/BR-001.md",
		Document:   doc,
		Kind:       kindrules.KindBusinessRule,
		Layer:      kindrules.LayerDomain,
	}

	_, edges := Extract(in)
	require.Len(t, edges, 2)
	assert.Equal(t, graph.EdgeWikiLink, edges[0].Type)
	assert.Equal(t, graph.EdgeEntityRule, edges[1].Type)
	assert.Equal(t, "Invoice", edges[1].To)
}

func TestExtract_UseCaseAppliesRuleExecutesCmdAndStory(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "UC-001"},
		Sections: []mdparse.Section{
			{Heading: "Applied Rules", Body: "- [[BR-001]]\n- [[BP-002]]"},
			{Heading: "Commands Executed", Body: "- [[CMD-001]]"},
			{Heading: "Description", Body: "Supports [[OBJ-001]]."},
		},
	}
	in := Input{
		SourcePath: "specs/02-behavior/use-cases/UC-001.md",
		Document:   doc,
		Kind:       kindrules.KindUseCase,
		Layer:      kindrules.LayerBehavior,
	}

	_, edges := Extract(in)
	counts := map[graph.EdgeType]int{}
	for _, e := range edges {
		counts[e.Type]++
	}
	assert.Equal(t, 2, counts[graph.EdgeUCAppliesRule])
	assert.Equal(t, 1, counts[graph.EdgeUCExecutesCmd])
	assert.Equal(t, 1, counts[graph.EdgeUCStory])
}

func TestExtract_EdgesDeduplicatedByCompositeKey(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "Invoice"},
		Sections: []mdparse.Section{
			{Heading: "Description", Body: "See [[Customer]]."},
			{Heading: "Attributes", Body: "Also see [[Customer]] again."},
		},
	}
	in := Input{
		SourcePath: "specs/01-domain/entities/Invoice.md",
		Document:   doc,
		Kind:       kindrules.KindEntity,
		Layer:      kindrules.LayerDomain,
	}

	_, edges := Extract(in)
	require.Len(t, edges, 1)
}

func TestExtract_MissingSectionsOmitIndexedFieldsWithoutFailure(t *testing.T) {
	doc := mdparse.Document{
		FrontMatter: map[string]any{"id": "Invoice"},
	}
	in := Input{
		SourcePath: "specs/01-domain/entities/Invoice.md",
		Document:   doc,
		Kind:       kindrules.KindEntity,
		Layer:      kindrules.LayerDomain,
	}

	node, edges := Extract(in)
	assert.Empty(t, node.IndexedFields)
	assert.Empty(t, edges)
}
