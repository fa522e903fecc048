package kindrules

// fieldSynonym maps a lower-cased section heading (English or Spanish) to
// the canonical indexed-field name an extractor stores its body under.
type fieldSynonym struct {
	heading string
	field   string
}

// indexedFieldTable is the §6 bilingual section-name synonym table,
// independent of EmbeddableSections: it governs which section bodies an
// extractor reads into a node's indexed-fields map, whereas
// EmbeddableSections governs which of those same sections are eligible
// for chunking/embedding. The two usually coincide, except "event" has no
// embeddable sections at all while its four sections are still indexed.
var indexedFieldTable = map[Kind][]fieldSynonym{
	KindEntity: {
		{"description", "description"}, {"descripción", "description"},
		{"attributes", "attributes"}, {"atributos", "attributes"},
		{"relations", "relations"}, {"relationships", "relations"}, {"relaciones", "relations"},
		{"invariants", "invariants"}, {"constraints", "invariants"}, {"invariantes", "invariants"}, {"restricciones", "invariants"},
		{"lifecycle", "lifecycle"}, {"state machine", "lifecycle"}, {"ciclo de vida", "lifecycle"}, {"máquina de estados", "lifecycle"},
		{"lifecycle events", "lifecycle_events"}, {"eventos de ciclo de vida", "lifecycle_events"},
	},
	KindEvent: {
		{"description", "description"}, {"descripción", "description"},
		{"payload", "payload"},
		{"producer", "producer"}, {"productor", "producer"},
		{"consumers", "consumers"}, {"consumidores", "consumers"},
	},
	KindBusinessRule: {
		{"declaration", "declaration"}, {"declaración", "declaration"},
		{"when applies", "when_applies"}, {"cuándo aplica", "when_applies"},
		{"why it exists", "why_it_exists"}, {"por qué existe", "why_it_exists"},
		{"violation", "violation"}, {"violación", "violation"},
		{"examples", "examples"}, {"ejemplos", "examples"},
	},
	KindBusinessPolicy: {
		{"declaration", "declaration"}, {"declaración", "declaration"},
		{"when applies", "when_applies"}, {"cuándo aplica", "when_applies"},
		{"parameters", "parameters"}, {"parámetros", "parameters"},
		{"violation", "violation"}, {"violación", "violation"},
	},
	KindCrossPolicy: {
		{"purpose", "purpose"}, {"propósito", "purpose"},
		{"declaration", "declaration"}, {"declaración", "declaration"},
		{"ears formalization", "ears_formalization"}, {"formalización ears", "ears_formalization"},
		{"standard behavior", "standard_behavior"}, {"comportamiento estándar", "standard_behavior"},
	},
	KindCommand: {
		{"purpose", "purpose"}, {"propósito", "purpose"},
		{"input", "input"}, {"entrada", "input"},
		{"preconditions", "preconditions"}, {"precondiciones", "preconditions"},
		{"postconditions", "postconditions"}, {"postcondiciones", "postconditions"},
		{"possible errors", "possible_errors"}, {"errores posibles", "possible_errors"},
	},
	KindQuery: {
		{"purpose", "purpose"}, {"propósito", "purpose"},
		{"input", "input"}, {"entrada", "input"},
		{"output", "output"}, {"salida", "output"},
		{"possible errors", "possible_errors"}, {"errores posibles", "possible_errors"},
	},
	KindProcess: {
		{"participants", "participants"}, {"participantes", "participants"},
		{"steps", "steps"}, {"pasos", "steps"},
		{"diagram", "diagram"}, {"diagrama", "diagram"},
	},
	KindUseCase: {
		{"description", "description"}, {"descripción", "description"},
		{"actors", "actors"}, {"actores", "actors"},
		{"preconditions", "preconditions"}, {"precondiciones", "preconditions"},
		{"main flow", "main_flow"}, {"flujo principal", "main_flow"},
		{"alternative flows", "alternative_flows"}, {"flujos alternativos", "alternative_flows"},
		{"exceptions", "exceptions"}, {"excepciones", "exceptions"},
		{"postconditions", "postconditions"}, {"postcondiciones", "postconditions"},
		{"applied rules", "applied_rules"}, {"reglas aplicadas", "applied_rules"},
		{"commands executed", "commands_executed"}, {"comandos ejecutados", "commands_executed"},
	},
	KindUIView: {
		{"description", "description"}, {"descripción", "description"},
		{"layout", "layout"}, {"diseño", "layout"},
		{"components", "components"}, {"componentes", "components"},
		{"states", "states"}, {"estados", "states"},
		{"behavior", "behavior"}, {"comportamiento", "behavior"},
	},
	KindUIComponent: {
		{"description", "description"}, {"descripción", "description"},
		{"entities", "entities"}, {"entidades", "entities"},
		{"use cases", "use_cases"}, {"casos de uso", "use_cases"},
	},
	KindRequirement: {
		{"description", "description"}, {"descripción", "description"},
		{"acceptance criteria", "acceptance_criteria"}, {"criterios de aceptación", "acceptance_criteria"},
		{"traceability", "traceability"}, {"trazabilidad", "traceability"},
	},
	KindObjective: {
		{"actor", "actor"},
		{"objective", "objective"}, {"objetivo", "objective"},
		{"success criteria", "success_criteria"}, {"criterios de éxito", "success_criteria"},
	},
	KindPRD: {
		{"problem/opportunity", "problem_opportunity"}, {"problema/oportunidad", "problem_opportunity"},
		{"scope", "scope"}, {"alcance", "scope"},
		{"users", "users"}, {"usuarios", "users"},
		{"success metrics", "success_metrics"}, {"métricas de éxito", "success_metrics"},
		{"dependencies", "dependencies"}, {"dependencias", "dependencies"},
	},
	KindADR: {
		{"context", "context"}, {"contexto", "context"},
		{"decision", "decision"}, {"decisión", "decision"},
		{"consequences", "consequences"}, {"consecuencias", "consequences"},
	},
	KindGlossary: {
		{"definition", "definition"}, {"definición", "definition"},
		{"context", "context"}, {"contexto", "context"},
		{"related terms", "related_terms"}, {"términos relacionados", "related_terms"},
	},
}

// IndexedFieldName returns the canonical field name a section with the
// given lower-cased heading should be stored under for kind k, and false
// if that heading isn't recognized for k.
func IndexedFieldName(k Kind, headingLower string) (string, bool) {
	for _, syn := range indexedFieldTable[k] {
		if syn.heading == headingLower {
			return syn.field, true
		}
	}
	return "", false
}
