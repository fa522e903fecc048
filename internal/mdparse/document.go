// Package mdparse turns the raw bytes of a specification document into a
// front-matter mapping plus an ordered list of sections. It never fails:
// malformed front-matter degrades to an empty mapping and the whole
// buffer treated as body, per the source-document contract's tolerant
// parsing policy.
package mdparse

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Section is one heading-delimited region of a document.
type Section struct {
	Heading string // heading text, as written
	Level   int    // 1-6, the number of leading '#'
	Body    string // verbatim text between this heading and the next, trimmed
	Path    string // dotted slug path from all ancestor headings
}

// Document is the result of parsing one source file's bytes.
type Document struct {
	FrontMatter map[string]any
	Sections    []Section
}

// Parse splits src into a front-matter mapping and a heading-delimited
// section list. A leading "---" delimited YAML block is treated as
// front-matter; anything else, or a YAML block that fails to parse, is
// returned with an empty front-matter map and the entire input as body.
func Parse(src string) Document {
	frontMatter, body := splitFrontMatter(src)
	return Document{
		FrontMatter: frontMatter,
		Sections:    parseSections(body),
	}
}

// splitFrontMatter extracts an optional leading "---"-delimited YAML
// block. On any parse failure it returns an empty map and the original
// source as body, rather than erroring.
func splitFrontMatter(src string) (map[string]any, string) {
	const delim = "---"

	trimmed := strings.TrimLeft(src, "﻿ \t\r\n")
	if !strings.HasPrefix(trimmed, delim) {
		return map[string]any{}, src
	}

	rest := trimmed[len(delim):]
	// The delimiter line must end the line (allow trailing spaces/CR).
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		if strings.TrimSpace(rest[:nl]) != "" {
			return map[string]any{}, src
		}
		rest = rest[nl+1:]
	} else {
		return map[string]any{}, src
	}

	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return map[string]any{}, src
	}

	yamlBlock := rest[:end]
	remainder := rest[end+1+len(delim):]
	// Drop the remainder of the closing delimiter's line.
	if nl := strings.IndexByte(remainder, '\n'); nl >= 0 {
		remainder = remainder[nl+1:]
	} else {
		remainder = ""
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil || fm == nil {
		return map[string]any{}, src
	}

	return normalizeYAMLMap(fm), remainder
}

// normalizeYAMLMap recursively converts map[string]interface{} keys that
// yaml.v3 may produce as map[any]any-free already (yaml.v3 always yields
// string keys for mapping nodes unmarshaled into `any`), but nested slices
// of maps still need their values normalized so downstream code can type
// assert consistently.
func normalizeYAMLMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalizeYAMLValue(v)
	}
	return out
}

func normalizeYAMLValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeYAMLMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	default:
		return v
	}
}
