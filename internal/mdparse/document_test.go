package mdparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FrontMatterAndSections(t *testing.T) {
	src := `---
kind: entity
id: KDDDocument
aliases:
  - Doc
  - Spec
---

# Description

The spec document entity.

## Details

Further detail.

# Attributes

- name: string
`

	doc := Parse(src)

	require.Equal(t, "entity", doc.FrontMatter["kind"])
	require.Equal(t, "KDDDocument", doc.FrontMatter["id"])
	require.Len(t, doc.FrontMatter["aliases"], 2)

	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "description", doc.Sections[0].Path)
	assert.Equal(t, "The spec document entity.", doc.Sections[0].Body)

	assert.Equal(t, "description.details", doc.Sections[1].Path)
	assert.Equal(t, "Further detail.", doc.Sections[1].Body)

	assert.Equal(t, "attributes", doc.Sections[2].Path)
}

func TestParse_NoFrontMatter(t *testing.T) {
	src := "# Title\n\nBody text.\n"

	doc := Parse(src)
	assert.Empty(t, doc.FrontMatter)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Body text.", doc.Sections[0].Body)
}

func TestParse_MalformedFrontMatterFallsBackToBody(t *testing.T) {
	src := "---\nkind: [unterminated\n\n# Title\nBody\n"

	doc := Parse(src)
	assert.Empty(t, doc.FrontMatter)
	require.Len(t, doc.Sections, 1)
}

func TestParse_SiblingHeadingsPopAncestors(t *testing.T) {
	src := `# One

## Nested

text

# Two

more text
`
	doc := Parse(src)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "one", doc.Sections[0].Path)
	assert.Equal(t, "one.nested", doc.Sections[1].Path)
	assert.Equal(t, "two", doc.Sections[2].Path)
}

func TestAnchorSlug_NormalizesDiacriticsAndPunctuation(t *testing.T) {
	assert.Equal(t, "descripcion", anchorSlug("Descripción"))
	assert.Equal(t, "when-applies", anchorSlug("When Applies?"))
	assert.Equal(t, "formalizacion-ears", anchorSlug("Formalización EARS"))
}

func TestParse_TrimsBlankLinesInBody(t *testing.T) {
	src := "# Title\n\n\nBody line one.\n\nBody line two.\n\n\n"
	doc := Parse(src)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Body line one.\n\nBody line two.", doc.Sections[0].Body)
}
