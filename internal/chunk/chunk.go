// Package chunk splits the embeddable sections of a parsed document into
// bounded, overlapping text windows ready for an embedding encoder.
package chunk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/mdparse"
)

// DefaultMaxChunkChars and DefaultOverlapChars are the chunker's defaults
// when no configuration is supplied.
const (
	DefaultMaxChunkChars = 1500
	DefaultOverlapChars  = 200
)

// Config bounds the chunker's paragraph-packing behavior.
type Config struct {
	MaxChunkChars int
	OverlapChars  int
}

// DefaultConfig returns the chunker's default size and overlap.
func DefaultConfig() Config {
	return Config{MaxChunkChars: DefaultMaxChunkChars, OverlapChars: DefaultOverlapChars}
}

// Identity carries the document metadata that every chunk's context
// preface is built from.
type Identity struct {
	DocumentID string
	Kind       kindrules.Kind
	Layer      kindrules.Layer
	Title      string // optional; omitted from the preface when empty
}

// Chunk is one sub-document text window ready for encoding.
type Chunk struct {
	ID             string // documentId:"chunk-"+index
	DocumentID     string
	SectionHeading string
	RawContent     string
	ContextContent string // identity preface + RawContent
	CharOffset     int    // offset of the chunk's first paragraph within the section body
}

var sentenceBoundary = regexp.MustCompile(`(?:\.)\s+`)

// Chunks produces the ordered list of chunks for every embeddable section
// of doc, using identity to build each chunk's context preface. Sections
// whose lowercased heading is not in embeddable, or whose body is blank,
// are skipped entirely.
func Chunks(doc mdparse.Document, identity Identity, embeddable map[string]bool, cfg Config) []Chunk {
	if cfg.MaxChunkChars <= 0 {
		cfg = DefaultConfig()
	}

	var out []Chunk
	index := 0

	for _, section := range doc.Sections {
		if !embeddable[strings.ToLower(section.Heading)] {
			continue
		}
		if strings.TrimSpace(section.Body) == "" {
			continue
		}

		for _, raw := range packSection(section.Body, cfg) {
			out = append(out, Chunk{
				ID:             fmt.Sprintf("%s:chunk-%d", identity.DocumentID, index),
				DocumentID:     identity.DocumentID,
				SectionHeading: section.Heading,
				RawContent:     raw.text,
				ContextContent: buildContext(identity, section.Heading) + raw.text,
				CharOffset:     raw.offset,
			})
			index++
		}
	}

	return out
}

func buildContext(identity Identity, heading string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", identity.DocumentID)
	fmt.Fprintf(&b, "Kind: %s\n", identity.Kind)
	fmt.Fprintf(&b, "Layer: %s\n", identity.Layer)
	if identity.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", identity.Title)
	}
	fmt.Fprintf(&b, "Section: %s\n\n", heading)
	return b.String()
}

// rawChunk is one packed accumulator before context-prefixing.
type rawChunk struct {
	text   string
	offset int
}

// paragraphSpan is one double-newline-delimited paragraph with its
// character offset in the section body.
type paragraphSpan struct {
	text   string
	offset int
}

// packSection implements §4.5 steps 1-4: split into paragraphs, greedily
// pack them with overlap seeding, and sentence-split any paragraph that
// alone exceeds the size ceiling.
func packSection(body string, cfg Config) []rawChunk {
	paragraphs := splitParagraphs(body)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []rawChunk
	var accumulator []paragraphSpan

	accumulatorLen := func() int {
		total := 0
		for i, p := range accumulator {
			if i > 0 {
				total += 2 // the "\n\n" separator
			}
			total += len(p.text)
		}
		return total
	}

	flush := func() {
		if len(accumulator) == 0 {
			return
		}
		texts := make([]string, len(accumulator))
		for i, p := range accumulator {
			texts[i] = p.text
		}
		chunks = append(chunks, rawChunk{text: strings.Join(texts, "\n\n"), offset: accumulator[0].offset})
	}

	for _, para := range paragraphs {
		if len(para.text) > cfg.MaxChunkChars {
			flush()
			accumulator = nil
			chunks = append(chunks, packLongParagraph(para, cfg)...)
			continue
		}

		wouldExceed := len(accumulator) > 0 && accumulatorLen()+2+len(para.text) > cfg.MaxChunkChars
		if wouldExceed {
			tail := accumulator[len(accumulator)-1]
			flush()

			if len(tail.text) <= cfg.OverlapChars {
				accumulator = []paragraphSpan{tail}
			} else {
				accumulator = nil
			}
		}

		accumulator = append(accumulator, para)
	}

	flush()
	return chunks
}

// packLongParagraph sentence-splits a paragraph that alone exceeds
// MaxChunkChars, packing sentences under the same size rule. If no
// sentence boundary exists, the whole paragraph becomes one chunk.
func packLongParagraph(para paragraphSpan, cfg Config) []rawChunk {
	sentences := sentenceBoundary.Split(para.text, -1)
	if len(sentences) <= 1 {
		return []rawChunk{{text: para.text, offset: para.offset}}
	}

	var chunks []rawChunk
	var accumulator []string
	currentLen := 0

	flush := func() {
		if len(accumulator) == 0 {
			return
		}
		chunks = append(chunks, rawChunk{text: strings.Join(accumulator, " "), offset: para.offset})
	}

	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		addLen := len(s)
		if len(accumulator) > 0 {
			addLen++ // separating space
		}
		if len(accumulator) > 0 && currentLen+addLen > cfg.MaxChunkChars {
			flush()
			accumulator = nil
			currentLen = 0
		}
		accumulator = append(accumulator, s)
		currentLen += addLen
	}
	flush()

	if len(chunks) == 0 {
		return []rawChunk{{text: para.text, offset: para.offset}}
	}
	return chunks
}

// splitParagraphs splits body on blank lines into trimmed, non-empty
// paragraphs, tracking each one's character offset within body.
func splitParagraphs(body string) []paragraphSpan {
	var out []paragraphSpan

	pos := 0
	for _, raw := range strings.Split(body, "\n\n") {
		trimmed := strings.TrimSpace(raw)
		offset := pos + leadingWhitespaceLen(raw)
		pos += len(raw) + 2 // account for the "\n\n" separator consumed by Split

		if trimmed == "" {
			continue
		}
		out = append(out, paragraphSpan{text: trimmed, offset: offset})
	}

	return out
}

func leadingWhitespaceLen(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t' || s[n] == '\n' || s[n] == '\r') {
		n++
	}
	return n
}
