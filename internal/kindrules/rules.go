package kindrules

import (
	"fmt"
	"strings"
)

// RouteResult is the outcome of routing a document to a kind.
type RouteResult struct {
	Kind    Kind   // zero value "" means no kind resolved
	Warning string // non-empty if the file lives outside its kind's expected path
}

// Route resolves the kind of a document from its front-matter and flags a
// misplaced source path. frontMatter may be nil (absent front-matter),
// which yields a zero RouteResult without error.
func Route(frontMatter map[string]any, sourcePath string) RouteResult {
	if frontMatter == nil {
		return RouteResult{}
	}

	raw, ok := frontMatter["kind"]
	if !ok {
		return RouteResult{}
	}

	rawStr, ok := raw.(string)
	if !ok {
		return RouteResult{}
	}

	k := Kind(strings.ToLower(strings.TrimSpace(rawStr)))
	if !IsValid(k) {
		return RouteResult{}
	}

	expected := ExpectedPathPrefix(k)
	if strings.Contains(sourcePath, expected) {
		return RouteResult{Kind: k}
	}

	return RouteResult{
		Kind:    k,
		Warning: fmt.Sprintf("%s '%s' found outside expected path '%s'", k, sourcePath, expected),
	}
}

// EmbeddableSections returns the set of lower-cased heading names whose
// body text is eligible for embedding under kind k. Kinds with no
// embeddable sections (currently just "event") return an empty, non-nil set.
func EmbeddableSections(k Kind) map[string]bool {
	spec, ok := registry[k]
	if !ok {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(spec.embeddable))
	for name := range spec.embeddable {
		out[name] = true
	}
	return out
}

// layerDirs maps the numbered directory convention to its layer, ordered
// so DetectLayer can match the first (and only) prefix present in a path.
var layerDirs = []struct {
	fragment string
	layer    Layer
}{
	{"00-requirements", LayerRequirements},
	{"01-domain", LayerDomain},
	{"02-behavior", LayerBehavior},
	{"03-experience", LayerExperience},
	{"04-verification", LayerVerification},
}

// DetectLayer returns the first layer whose numbered directory fragment
// appears in path, defaulting to LayerDomain when none match.
func DetectLayer(path string) Layer {
	for _, d := range layerDirs {
		if strings.Contains(path, d.fragment) {
			return d.layer
		}
	}
	return LayerDomain
}

// IsLayerViolation implements the layer-violation predicate: a reference
// from origin to destination is violating iff origin is not the
// requirements layer and numerically precedes destination. Undefined
// destination layers never violate.
func IsLayerViolation(origin, destination Layer) bool {
	if origin == LayerRequirements {
		return false
	}
	originN, originOK := LayerNumber(origin)
	destN, destOK := LayerNumber(destination)
	if !originOK || !destOK {
		return false
	}
	return originN < destN
}
