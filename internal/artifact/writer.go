package artifact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// Writer persists manifest, node, edge, and embedding records to an index
// directory tree. The artifact writer is the only component expected to
// mutate persistent state, and is used from a single task at a time.
type Writer struct {
	root string
}

// NewWriter returns a Writer rooted at dir, creating it if absent.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create index directory: %w", err)
	}
	return &Writer{root: dir}, nil
}

func (w *Writer) manifestPath() string { return filepath.Join(w.root, "manifest.json") }
func (w *Writer) nodesDir() string     { return filepath.Join(w.root, "nodes") }
func (w *Writer) edgesDir() string     { return filepath.Join(w.root, "edges") }
func (w *Writer) edgesPath() string    { return filepath.Join(w.edgesDir(), "edges.jsonl") }
func (w *Writer) embeddingsDir() string { return filepath.Join(w.root, "embeddings") }

func (w *Writer) nodePath(kind kindrules.Kind, documentID string) string {
	return filepath.Join(w.nodesDir(), string(kind), documentID+".json")
}

func (w *Writer) embeddingsPath(kind kindrules.Kind, documentID string) string {
	return filepath.Join(w.embeddingsDir(), string(kind), documentID+".json")
}

// writeJSONAtomic marshals v and writes it to path via a temp file plus
// rename, so a concurrent reader never observes a partial write.
func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// WriteManifest replaces manifest.json wholesale.
func (w *Writer) WriteManifest(m Manifest) error {
	return writeJSONAtomic(w.manifestPath(), m)
}

// WriteNode replaces nodes/<kind>/<documentId>.json, overwriting any
// previously persisted node for the same ID.
func (w *Writer) WriteNode(n graph.Node, documentID string) error {
	return writeJSONAtomic(w.nodePath(n.Kind, documentID), n)
}

// AppendEdges appends edges to edges/edges.jsonl, one JSON object per
// line, creating the file if it does not yet exist.
func (w *Writer) AppendEdges(edges []graph.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.edgesDir(), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.edgesPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("artifact: open edges file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range edges {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("artifact: encode edge: %w", err)
		}
	}
	return nil
}

// ClearEdges truncates edges/edges.jsonl.
func (w *Writer) ClearEdges() error {
	if err := os.MkdirAll(w.edgesDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(w.edgesPath(), nil, 0o644)
}

// WriteEmbeddings groups records by (kind, documentId) and replaces each
// group's file wholesale.
func (w *Writer) WriteEmbeddings(records []EmbeddingRecord) error {
	groups := map[documentKey][]EmbeddingRecord{}
	for _, r := range records {
		key := documentKey{kind: r.Kind, id: r.DocumentID}
		groups[key] = append(groups[key], r)
	}
	for key, group := range groups {
		if err := writeJSONAtomic(w.embeddingsPath(key.kind, key.id), group); err != nil {
			return fmt.Errorf("artifact: write embeddings for %s:%s: %w", key.kind, key.id, err)
		}
	}
	return nil
}

// DeleteDocumentArtifacts removes a document's node file and embedding
// file (if present under kind) and strips edges/edges.jsonl of any line
// whose endpoint equals nodeID.
func (w *Writer) DeleteDocumentArtifacts(kind kindrules.Kind, documentID, nodeID string) error {
	if err := removeIfExists(w.nodePath(kind, documentID)); err != nil {
		return err
	}
	if err := removeIfExists(w.embeddingsPath(kind, documentID)); err != nil {
		return err
	}
	return w.stripEdgesReferencing(nodeID)
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (w *Writer) stripEdgesReferencing(nodeID string) error {
	in, err := os.Open(w.edgesPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer in.Close()

	var kept []graph.Edge
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e graph.Edge
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		if e.From == nodeID || e.To == nodeID {
			continue
		}
		kept = append(kept, e)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	in.Close()

	if err := w.ClearEdges(); err != nil {
		return err
	}
	return w.AppendEdges(kept)
}
