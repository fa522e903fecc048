package mdparse

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// headingStackEntry tracks one open heading while scanning lines.
type headingStackEntry struct {
	level int
	slug  string
}

// parseSections scans body line by line. A line beginning with one or more
// '#' followed by whitespace opens a new section; the stack of currently
// open ancestor headings is popped down to siblings/shallower before each
// new heading is pushed, so a section's Path is the dotted chain of
// ancestor anchor slugs.
func parseSections(body string) []Section {
	lines := strings.Split(body, "\n")

	var sections []Section
	var stack []headingStackEntry
	var current *Section
	var bodyLines []string

	flush := func() {
		if current == nil {
			return
		}
		current.Body = trimBlankLines(strings.Join(bodyLines, "\n"))
		sections = append(sections, *current)
		current = nil
		bodyLines = nil
	}

	for _, line := range lines {
		if level, heading, ok := parseHeadingLine(line); ok {
			flush()

			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			slug := anchorSlug(heading)
			stack = append(stack, headingStackEntry{level: level, slug: slug})

			path := make([]string, len(stack))
			for i, e := range stack {
				path[i] = e.slug
			}

			current = &Section{
				Heading: heading,
				Level:   level,
				Path:    strings.Join(path, "."),
			}
			continue
		}

		if current != nil {
			bodyLines = append(bodyLines, line)
		}
	}
	flush()

	return sections
}

// parseHeadingLine reports whether line opens an ATX heading ("#" through
// "######" followed by whitespace) and, if so, its level and trimmed text.
func parseHeadingLine(line string) (level int, heading string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	i := 0
	for i < len(trimmed) && trimmed[i] == '#' {
		i++
	}
	if i == 0 || i > 6 {
		return 0, "", false
	}
	if i == len(trimmed) {
		return i, "", true
	}
	if trimmed[i] != ' ' && trimmed[i] != '\t' {
		return 0, "", false
	}
	return i, strings.TrimSpace(trimmed[i:]), true
}

// trimBlankLines removes leading and trailing blank lines while preserving
// interior whitespace.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// anchorSlug normalizes heading text into a dotted-path-safe slug: Unicode
// NFKD normalization, lowercasing, stripping characters outside
// [A-Za-z0-9_-], collapsing whitespace to '-', and trimming '-'.
func anchorSlug(heading string) string {
	decomposed := norm.NFKD.String(heading)
	lower := strings.ToLower(decomposed)

	var b strings.Builder
	b.Grow(len(lower))
	lastWasSpace := false
	for _, r := range lower {
		switch {
		case r == ' ' || r == '\t':
			if !lastWasSpace {
				b.WriteByte('-')
			}
			lastWasSpace = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			b.WriteRune(r)
			lastWasSpace = false
		default:
			// combining marks, punctuation, and anything else outside the
			// allowed set are dropped entirely (not turned into '-').
		}
	}

	return strings.Trim(b.String(), "-")
}
