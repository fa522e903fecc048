package kindrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute_WellPlacedEntity(t *testing.T) {
	fm := map[string]any{"kind": "entity"}
	result := Route(fm, "specs/01-domain/entities/KDDDocument.md")

	assert.Equal(t, KindEntity, result.Kind)
	assert.Empty(t, result.Warning)
}

func TestRoute_MisplacedEntity(t *testing.T) {
	fm := map[string]any{"kind": "entity"}
	result := Route(fm, "specs/02-behavior/Stray.md")

	assert.Equal(t, KindEntity, result.Kind)
	assert.Equal(t, "entity 'specs/02-behavior/Stray.md' found outside expected path '01-domain/entities/'", result.Warning)
}

func TestRoute_AbsentFrontMatter(t *testing.T) {
	result := Route(nil, "specs/01-domain/entities/Foo.md")
	assert.Empty(t, result.Kind)
	assert.Empty(t, result.Warning)
}

func TestRoute_UnknownKind(t *testing.T) {
	fm := map[string]any{"kind": "widget"}
	result := Route(fm, "specs/foo.md")
	assert.Empty(t, result.Kind)
}

func TestRoute_TrimsAndLowercases(t *testing.T) {
	fm := map[string]any{"kind": "  ENTITY  "}
	result := Route(fm, "specs/01-domain/entities/Foo.md")
	assert.Equal(t, KindEntity, result.Kind)
}

func TestEmbeddableSections_EventIsEmpty(t *testing.T) {
	assert.Empty(t, EmbeddableSections(KindEvent))
}

func TestEmbeddableSections_EntityHasSections(t *testing.T) {
	sections := EmbeddableSections(KindEntity)
	assert.True(t, sections["description"])
	assert.True(t, sections["attributes"])
}

func TestDetectLayer(t *testing.T) {
	assert.Equal(t, LayerDomain, DetectLayer("specs/01-domain/entities/Foo.md"))
	assert.Equal(t, LayerBehavior, DetectLayer("specs/02-behavior/use-cases/Bar.md"))
	assert.Equal(t, LayerRequirements, DetectLayer("specs/00-requirements/adrs/Baz.md"))
	assert.Equal(t, LayerDomain, DetectLayer("specs/unknown/Qux.md"))
}

func TestIsLayerViolation_DomainToBehavior(t *testing.T) {
	assert.True(t, IsLayerViolation(LayerDomain, LayerBehavior))
}

func TestIsLayerViolation_BehaviorToDomain(t *testing.T) {
	assert.False(t, IsLayerViolation(LayerBehavior, LayerDomain))
}

func TestIsLayerViolation_RequirementsExempt(t *testing.T) {
	assert.False(t, IsLayerViolation(LayerRequirements, LayerVerification))
}

func TestIsLayerViolation_UndefinedDestination(t *testing.T) {
	assert.False(t, IsLayerViolation(LayerDomain, Layer("unknown")))
}

func TestKindByPrefix(t *testing.T) {
	k, ok := KindByPrefix("UC")
	assert.True(t, ok)
	assert.Equal(t, KindUseCase, k)

	_, ok = KindByPrefix("NOPE")
	assert.False(t, ok)
}

func TestAllKinds_HasSixteen(t *testing.T) {
	assert.Len(t, AllKinds(), 16)
	for _, k := range AllKinds() {
		assert.True(t, IsValid(k))
		assert.NotEmpty(t, Prefix(k))
	}
}
