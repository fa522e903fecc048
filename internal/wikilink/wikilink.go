// Package wikilink extracts [[Target]]-style cross references from free
// text, the only inter-document linking syntax spec documents use.
package wikilink

import (
	"regexp"
	"strings"
)

// reservedPrefixes are the node-ID prefixes (see kindrules) that mark a
// wiki-link target as a typed reference rather than a plain entity name.
// ui-view and ui-component share the "UI-" prefix here: the wiki-link
// grammar can't distinguish them without resolving the target, only the
// node-ID space (kindrules.Prefix) does.
var reservedPrefixes = []string{
	"EVT-", "BR-", "BP-", "XP-", "CMD-", "QRY-", "UC-", "PROC-",
	"REQ-", "OBJ-", "ADR-", "PRD-", "UI-",
}

// Link is one parsed wiki-link reference.
type Link struct {
	Domain   string // the text before "::", if present
	Target   string // the reference target
	Alias    string // the text after "|", if present
	TypedRef bool   // true if Target starts with a reserved prefix
}

var bracketPattern = regexp.MustCompile(`\[\[([^\[\]]*)\]\]`)

// Extract scans text for all [[...]] occurrences and parses each one.
// Empty inner content (after trimming) is ignored.
func Extract(text string) []Link {
	matches := bracketPattern.FindAllStringSubmatch(text, -1)
	links := make([]Link, 0, len(matches))

	for _, m := range matches {
		inner := strings.TrimSpace(m[1])
		if inner == "" {
			continue
		}
		links = append(links, parseInner(inner))
	}

	return links
}

// parseInner splits "[[domain::Target|Alias]]" contents: first on "::" to
// separate an optional domain tag, then on "|" to separate an optional
// display alias.
func parseInner(inner string) Link {
	domain := ""
	rest := inner
	if idx := strings.Index(inner, "::"); idx >= 0 {
		domain = strings.TrimSpace(inner[:idx])
		rest = strings.TrimSpace(inner[idx+2:])
	}

	target := rest
	alias := ""
	if idx := strings.Index(rest, "|"); idx >= 0 {
		target = strings.TrimSpace(rest[:idx])
		alias = strings.TrimSpace(rest[idx+1:])
	}

	return Link{
		Domain:   domain,
		Target:   target,
		Alias:    alias,
		TypedRef: isTypedReference(target),
	}
}

// isTypedReference reports whether target begins with one of the reserved
// kind prefixes; any other target is an entity (or glossary) reference.
func isTypedReference(target string) bool {
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(target, p) {
			return true
		}
	}
	return false
}
