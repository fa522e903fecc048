// Package extract converts one parsed document into a graph node plus the
// edges it declares, dispatching per kind through a small extractor
// registry.
package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/mdparse"
)

// Input is everything one extractor needs: the parsed document plus the
// routing/layer decisions already made upstream.
type Input struct {
	SourcePath string
	RawBytes   []byte
	Document   mdparse.Document
	Kind       kindrules.Kind
	Layer      kindrules.Layer
}

// DocumentID resolves front-matter "id", falling back to the source file
// stem when absent or not a string.
func (in Input) DocumentID() string {
	if raw, ok := in.Document.FrontMatter["id"]; ok {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	base := filepath.Base(in.SourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SourceHash is the stable SHA-256 hex digest of the source bytes.
func (in Input) SourceHash() string {
	sum := sha256.Sum256(in.RawBytes)
	return hex.EncodeToString(sum[:])
}

// Status resolves front-matter "status", defaulting to "draft".
func (in Input) Status() string {
	if raw, ok := in.Document.FrontMatter["status"]; ok {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return "draft"
}

// Aliases resolves front-matter "aliases", coercing non-list or malformed
// values to an empty slice rather than failing.
func (in Input) Aliases() []string {
	raw, ok := in.Document.FrontMatter["aliases"]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// Domain resolves the optional front-matter "domain" tag.
func (in Input) Domain() string {
	if raw, ok := in.Document.FrontMatter["domain"]; ok {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Title resolves the optional front-matter "title", used only to build a
// chunk's identity preface downstream.
func (in Input) Title() string {
	if raw, ok := in.Document.FrontMatter["title"]; ok {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// sectionBody returns the body of the first section whose heading,
// lower-cased, equals name, and true if one was found.
func (in Input) sectionBody(name string) (string, bool) {
	for _, s := range in.Document.Sections {
		if strings.ToLower(strings.TrimSpace(s.Heading)) == name {
			return s.Body, true
		}
	}
	return "", false
}
