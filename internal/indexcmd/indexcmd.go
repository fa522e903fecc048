// Package indexcmd runs the per-document index pipeline: read, route,
// extract, persist, and (when a level and encoder call for it) chunk and
// embed. It never aborts a batch on a single document's failure — a
// document that cannot be indexed yields a skipped Result and the caller
// moves on.
package indexcmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/knowledge-driven-dev/kdd-index/internal/artifact"
	"github.com/knowledge-driven-dev/kdd-index/internal/chunk"
	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/extract"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/mdparse"
)

// Options configures one IndexDocument call. Encoder may be nil, in
// which case the document is indexed at L1 regardless of Level.
type Options struct {
	Level       artifact.IndexLevel
	Encoder     embed.Encoder
	ChunkConfig chunk.Config
	Cache       *ParseCache // optional; nil disables memoization
}

// Result is the outcome of indexing one document.
type Result struct {
	Success        bool
	NodeID         string
	EdgeCount      int
	EmbeddingCount int
	SkippedReason  string
	Warning        string
}

// IndexDocument runs the 11-step pipeline against one source file and
// persists its outcome through w.
func IndexDocument(ctx context.Context, w *artifact.Writer, sourcePath string, opts Options) (Result, error) {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return Result{SkippedReason: fmt.Sprintf("unreadable file: %v", err)}, nil
	}

	sourceHash := hashBytes(raw)

	parsed, ok := opts.Cache.get(sourceHash)
	if !ok {
		doc := mdparse.Parse(string(raw))

		route := kindrules.Route(doc.FrontMatter, sourcePath)
		if route.Kind == "" {
			return Result{SkippedReason: "no recognized kind in front-matter"}, nil
		}

		if _, ok := extract.Lookup(route.Kind); !ok {
			return Result{SkippedReason: fmt.Sprintf("no extractor registered for kind %q", route.Kind)}, nil
		}

		layer := kindrules.DetectLayer(sourcePath)

		in := extract.Input{
			SourcePath: sourcePath,
			RawBytes:   raw,
			Document:   doc,
			Kind:       route.Kind,
			Layer:      layer,
		}
		node, edges := extract.Extract(in)

		parsed = parsedDocument{
			node:       node,
			edges:      edges,
			document:   doc,
			documentID: in.DocumentID(),
			title:      in.Title(),
			warning:    route.Warning,
		}
		opts.Cache.set(sourceHash, parsed)
	}

	result, err := persist(ctx, w, parsed, opts)
	if err != nil {
		return Result{SkippedReason: err.Error()}, nil
	}
	return result, nil
}

// persist writes the node and edges, then embeds when the index level
// and encoder call for it. Parsing is memoized across calls, but
// embedding and artifact writes always run: embeddings depend on the
// encoder in effect for this run, and writes must reflect the current
// document set even when its content hash repeats (e.g. a revert).
func persist(ctx context.Context, w *artifact.Writer, p parsedDocument, opts Options) (Result, error) {
	if err := w.WriteNode(p.node, p.documentID); err != nil {
		return Result{}, fmt.Errorf("indexcmd: write node: %w", err)
	}
	if err := w.AppendEdges(p.edges); err != nil {
		return Result{}, fmt.Errorf("indexcmd: append edges: %w", err)
	}

	result := Result{
		Success:   true,
		NodeID:    p.node.ID,
		EdgeCount: len(p.edges),
		Warning:   p.warning,
	}

	embeddingLevel := opts.Level == artifact.LevelL2 || opts.Level == artifact.LevelL3
	if !embeddingLevel || opts.Encoder == nil {
		return result, nil
	}

	count, err := embedDocument(ctx, w, p, opts)
	if err != nil {
		return Result{}, err
	}
	result.EmbeddingCount = count
	return result, nil
}

func embedDocument(ctx context.Context, w *artifact.Writer, p parsedDocument, opts Options) (int, error) {
	embeddable := kindrules.EmbeddableSections(p.node.Kind)

	cfg := opts.ChunkConfig
	if cfg == (chunk.Config{}) {
		cfg = chunk.DefaultConfig()
	}

	identity := chunk.Identity{
		DocumentID: p.documentID,
		Kind:       p.node.Kind,
		Layer:      p.node.Layer,
		Title:      p.title,
	}

	chunks := chunk.Chunks(p.document, identity, embeddable, cfg)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.ContextContent
	}

	vectors, err := opts.Encoder.Embed(ctx, texts, embed.ModePassage)
	if err != nil {
		return 0, fmt.Errorf("indexcmd: embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("indexcmd: encoder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	now := time.Now().UTC()
	records := make([]artifact.EmbeddingRecord, len(chunks))
	for i, c := range chunks {
		records[i] = artifact.EmbeddingRecord{
			ID:          c.ID,
			DocumentID:  p.documentID,
			Kind:        p.node.Kind,
			SectionPath: c.SectionHeading,
			ChunkIndex:  i,
			RawText:     c.RawContent,
			ContextText: c.ContextContent,
			Vector:      toFloat64(vectors[i]),
			Dimensions:  len(vectors[i]),
			TextHash:    hashBytes([]byte(c.RawContent)),
			GeneratedAt: now,
		}
	}

	if err := w.WriteEmbeddings(records); err != nil {
		return 0, fmt.Errorf("indexcmd: write embeddings: %w", err)
	}
	return len(records), nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
