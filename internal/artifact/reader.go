package artifact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
)

// Reader loads manifest, node, edge, and embedding records back out of an
// index directory tree.
type Reader struct {
	root string
}

// NewReader returns a Reader rooted at dir. The directory need not yet
// exist; LoadManifest then returns an error, while the LoadAll methods
// return empty results.
func NewReader(dir string) *Reader {
	return &Reader{root: dir}
}

// Exists reports whether the index directory contains a manifest, i.e.
// whether there is anything to load.
func (r *Reader) Exists() bool {
	_, err := os.Stat(filepath.Join(r.root, "manifest.json"))
	return err == nil
}

// LoadManifest reads manifest.json.
func (r *Reader) LoadManifest() (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(r.root, "manifest.json"))
	if err != nil {
		return m, fmt.Errorf("artifact: read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("artifact: decode manifest: %w", err)
	}
	return m, nil
}

// LoadAllNodes walks nodes/<kind>/*.json and decodes every file.
func (r *Reader) LoadAllNodes() ([]graph.Node, error) {
	nodesDir := filepath.Join(r.root, "nodes")
	var out []graph.Node

	entries, err := os.ReadDir(nodesDir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: list nodes dir: %w", err)
	}

	for _, kindEntry := range entries {
		if !kindEntry.IsDir() {
			continue
		}
		kindDir := filepath.Join(nodesDir, kindEntry.Name())
		files, err := os.ReadDir(kindDir)
		if err != nil {
			return nil, fmt.Errorf("artifact: list %s: %w", kindDir, err)
		}
		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(kindDir, f.Name()))
			if err != nil {
				return nil, fmt.Errorf("artifact: read %s: %w", f.Name(), err)
			}
			var n graph.Node
			if err := json.Unmarshal(data, &n); err != nil {
				return nil, fmt.Errorf("artifact: decode %s: %w", f.Name(), err)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// LoadAllEdges reads edges/edges.jsonl, one Edge per line.
func (r *Reader) LoadAllEdges() ([]graph.Edge, error) {
	path := filepath.Join(r.root, "edges", "edges.jsonl")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: open edges file: %w", err)
	}
	defer f.Close()

	var out []graph.Edge
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e graph.Edge
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("artifact: decode edge line: %w", err)
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("artifact: scan edges file: %w", err)
	}
	return out, nil
}

// LoadAllEmbeddings walks embeddings/<kind>/*.json and decodes every
// per-document array into a flat slice.
func (r *Reader) LoadAllEmbeddings() ([]EmbeddingRecord, error) {
	embeddingsDir := filepath.Join(r.root, "embeddings")
	var out []EmbeddingRecord

	entries, err := os.ReadDir(embeddingsDir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: list embeddings dir: %w", err)
	}

	for _, kindEntry := range entries {
		if !kindEntry.IsDir() {
			continue
		}
		kindDir := filepath.Join(embeddingsDir, kindEntry.Name())
		files, err := os.ReadDir(kindDir)
		if err != nil {
			return nil, fmt.Errorf("artifact: list %s: %w", kindDir, err)
		}
		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(kindDir, f.Name()))
			if err != nil {
				return nil, fmt.Errorf("artifact: read %s: %w", f.Name(), err)
			}
			var group []EmbeddingRecord
			if err := json.Unmarshal(data, &group); err != nil {
				return nil, fmt.Errorf("artifact: decode %s: %w", f.Name(), err)
			}
			out = append(out, group...)
		}
	}
	return out, nil
}

// LoadSnapshot loads nodes and edges together for graph-store reload.
func (r *Reader) LoadSnapshot() (GraphSnapshot, error) {
	nodes, err := r.LoadAllNodes()
	if err != nil {
		return GraphSnapshot{}, err
	}
	edges, err := r.LoadAllEdges()
	if err != nil {
		return GraphSnapshot{}, err
	}
	return GraphSnapshot{Nodes: nodes, Edges: edges}, nil
}
