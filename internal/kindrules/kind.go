// Package kindrules holds the pure domain predicates that the rest of the
// indexer is built on: the closed set of document kinds, their node-ID
// prefixes, expected path locations, embeddable sections, and the
// layer-ordering rules used to flag cross-layer references. Nothing in
// this package touches disk, YAML, or Markdown.
package kindrules

// Kind identifies one of the 16 closed document categories.
type Kind string

const (
	KindEntity         Kind = "entity"
	KindEvent          Kind = "event"
	KindBusinessRule   Kind = "business-rule"
	KindBusinessPolicy Kind = "business-policy"
	KindCrossPolicy    Kind = "cross-policy"
	KindCommand        Kind = "command"
	KindQuery          Kind = "query"
	KindProcess        Kind = "process"
	KindUseCase        Kind = "use-case"
	KindUIView         Kind = "ui-view"
	KindUIComponent    Kind = "ui-component"
	KindRequirement    Kind = "requirement"
	KindObjective      Kind = "objective"
	KindPRD            Kind = "prd"
	KindADR            Kind = "adr"
	KindGlossary       Kind = "glossary"
)

// Layer is one of five ordered architectural tiers.
type Layer string

const (
	LayerRequirements Layer = "requirements"
	LayerDomain       Layer = "domain"
	LayerBehavior     Layer = "behavior"
	LayerExperience   Layer = "experience"
	LayerVerification Layer = "verification"
)

// layerOrder gives the numeric ordering used by the layer-violation predicate.
var layerOrder = map[Layer]int{
	LayerRequirements: 0,
	LayerDomain:       1,
	LayerBehavior:     2,
	LayerExperience:   3,
	LayerVerification: 4,
}

// LayerNumber returns the numeric position of layer, and false if layer is
// not one of the five recognized tiers.
func LayerNumber(layer Layer) (int, bool) {
	n, ok := layerOrder[layer]
	return n, ok
}

// kindSpec is the immutable definition of one document kind.
type kindSpec struct {
	prefix       string
	expectedPath string
	layer        Layer
	embeddable   map[string]bool
}

// registry is the closed table of all 16 kinds. Path prefixes follow the
// numbered-layer directory convention (e.g. "01-domain/entities/"); section
// names are the bilingual synonyms of §6, lower-cased for comparison.
var registry = map[Kind]kindSpec{
	KindEntity: {
		prefix:       "ENT",
		expectedPath: "01-domain/entities/",
		layer:        LayerDomain,
		embeddable: set(
			"description", "descripción",
			"attributes", "atributos",
			"relations", "relationships", "relaciones",
			"invariants", "constraints", "invariantes", "restricciones",
			"lifecycle", "state machine", "ciclo de vida", "máquina de estados",
			"lifecycle events", "eventos de ciclo de vida",
		),
	},
	KindEvent: {
		prefix:       "EVT",
		expectedPath: "01-domain/events/",
		layer:        LayerDomain,
		embeddable:   map[string]bool{}, // events are structural only, never embedded
	},
	KindBusinessRule: {
		prefix:       "BR",
		expectedPath: "01-domain/business-rules/",
		layer:        LayerDomain,
		embeddable: set(
			"declaration", "declaración",
			"when applies", "cuándo aplica",
			"why it exists", "por qué existe",
			"violation", "violación",
			"examples", "ejemplos",
		),
	},
	KindBusinessPolicy: {
		prefix:       "BP",
		expectedPath: "01-domain/business-policies/",
		layer:        LayerDomain,
		embeddable: set(
			"declaration", "declaración",
			"when applies", "cuándo aplica",
			"parameters", "parámetros",
			"violation", "violación",
		),
	},
	KindCrossPolicy: {
		prefix:       "XP",
		expectedPath: "01-domain/cross-policies/",
		layer:        LayerDomain,
		embeddable: set(
			"purpose", "propósito",
			"declaration", "declaración",
			"ears formalization", "formalización ears",
			"standard behavior", "comportamiento estándar",
		),
	},
	KindCommand: {
		prefix:       "CMD",
		expectedPath: "02-behavior/commands/",
		layer:        LayerBehavior,
		embeddable: set(
			"purpose", "propósito",
			"input", "entrada",
			"preconditions", "precondiciones",
			"postconditions", "postcondiciones",
			"possible errors", "errores posibles",
		),
	},
	KindQuery: {
		prefix:       "QRY",
		expectedPath: "02-behavior/queries/",
		layer:        LayerBehavior,
		embeddable: set(
			"purpose", "propósito",
			"input", "entrada",
			"output", "salida",
			"possible errors", "errores posibles",
		),
	},
	KindProcess: {
		prefix:       "PROC",
		expectedPath: "02-behavior/processes/",
		layer:        LayerBehavior,
		embeddable: set(
			"participants", "participantes",
			"steps", "pasos",
			"diagram", "diagrama",
		),
	},
	KindUseCase: {
		prefix:       "UC",
		expectedPath: "02-behavior/use-cases/",
		layer:        LayerBehavior,
		embeddable: set(
			"description", "descripción",
			"actors", "actores",
			"preconditions", "precondiciones",
			"main flow", "flujo principal",
			"alternative flows", "flujos alternativos",
			"exceptions", "excepciones",
			"postconditions", "postcondiciones",
			"applied rules", "reglas aplicadas",
			"commands executed", "comandos ejecutados",
		),
	},
	KindUIView: {
		prefix:       "UIV",
		expectedPath: "03-experience/views/",
		layer:        LayerExperience,
		embeddable: set(
			"description", "descripción",
			"layout", "diseño",
			"components", "componentes",
			"states", "estados",
			"behavior", "comportamiento",
		),
	},
	KindUIComponent: {
		prefix:       "UIC",
		expectedPath: "03-experience/components/",
		layer:        LayerExperience,
		embeddable: set(
			"description", "descripción",
			"entities", "entidades",
			"use cases", "casos de uso",
		),
	},
	KindRequirement: {
		prefix:       "REQ",
		expectedPath: "00-requirements/requirements/",
		layer:        LayerRequirements,
		embeddable: set(
			"description", "descripción",
			"acceptance criteria", "criterios de aceptación",
			"traceability", "trazabilidad",
		),
	},
	KindObjective: {
		prefix:       "OBJ",
		expectedPath: "00-requirements/objectives/",
		layer:        LayerRequirements,
		embeddable: set(
			"actor",
			"objective", "objetivo",
			"success criteria", "criterios de éxito",
		),
	},
	KindPRD: {
		prefix:       "PRD",
		expectedPath: "00-requirements/prds/",
		layer:        LayerRequirements,
		embeddable: set(
			"problem/opportunity", "problema/oportunidad",
			"scope", "alcance",
			"users", "usuarios",
			"success metrics", "métricas de éxito",
			"dependencies", "dependencias",
		),
	},
	KindADR: {
		prefix:       "ADR",
		expectedPath: "00-requirements/adrs/",
		layer:        LayerRequirements,
		embeddable: set(
			"context", "contexto",
			"decision", "decisión",
			"consequences", "consecuencias",
		),
	},
	KindGlossary: {
		prefix:       "GLS",
		expectedPath: "00-requirements/glossary/",
		layer:        LayerRequirements,
		embeddable: set(
			"definition", "definición",
			"context", "contexto",
			"related terms", "términos relacionados",
		),
	},
}

// prefixToKind supports destination-layer resolution for wiki-link edges:
// locate the kind that owns a given node-ID prefix.
var prefixToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(registry))
	for k, spec := range registry {
		m[spec.prefix] = k
	}
	return m
}()

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// AllKinds returns the 16 closed kinds, in a stable order.
func AllKinds() []Kind {
	return []Kind{
		KindEntity, KindEvent, KindBusinessRule, KindBusinessPolicy, KindCrossPolicy,
		KindCommand, KindQuery, KindProcess, KindUseCase, KindUIView, KindUIComponent,
		KindRequirement, KindObjective, KindPRD, KindADR, KindGlossary,
	}
}

// IsValid reports whether k is one of the 16 closed kinds.
func IsValid(k Kind) bool {
	_, ok := registry[k]
	return ok
}

// Prefix returns the node-ID prefix for k ("" if k is unknown).
func Prefix(k Kind) string {
	return registry[k].prefix
}

// ExpectedPathPrefix returns the canonical path fragment k's source files
// are expected to live under, e.g. "01-domain/entities/".
func ExpectedPathPrefix(k Kind) string {
	return registry[k].expectedPath
}

// LayerOf returns the architectural layer assigned to k.
func LayerOf(k Kind) Layer {
	return registry[k].layer
}

// KindByPrefix resolves a node-ID prefix (e.g. "UC") back to its kind.
func KindByPrefix(prefix string) (Kind, bool) {
	k, ok := prefixToKind[prefix]
	return k, ok
}
