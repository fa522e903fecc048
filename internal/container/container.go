// Package container assembles the process-singleton resources a serving
// process runs queries over — graph store, vector store, encoder, and the
// query engine built from them — from an on-disk artifact tree, and holds
// them behind an atomic pointer so a reindex can swap in a fresh instance
// without taking a lock on the read path.
package container

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/knowledge-driven-dev/kdd-index/internal/artifact"
	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/query"
	"github.com/knowledge-driven-dev/kdd-index/internal/vectorstore"
)

// Assembled is one frozen snapshot of the serving resources: a graph and
// vector store loaded from an index directory, the encoder that produced
// (and will keep producing) its embeddings, and the query engine built
// over all three. Nothing here is mutated after assembly.
type Assembled struct {
	Manifest artifact.Manifest
	Graph    *graph.Store
	Vectors  *vectorstore.Store
	Encoder  embed.Encoder
	Engine   *query.Engine
}

// Assemble loads a complete serving snapshot from indexDir. A missing
// index directory is not an error: it yields an empty graph/vector store
// so a fresh "index" run has something to write the first manifest over.
// embeddingCfg is typically the manifest's own recorded provider once one
// exists; callers building a fresh index pass the configured provider.
func Assemble(indexDir string, embeddingCfg embed.Config) (*Assembled, error) {
	reader := artifact.NewReader(indexDir)

	var manifest artifact.Manifest
	if reader.Exists() {
		var err error
		manifest, err = reader.LoadManifest()
		if err != nil {
			return nil, fmt.Errorf("container: load manifest: %w", err)
		}
	}

	snapshot, err := reader.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("container: load snapshot: %w", err)
	}

	g := graph.NewStore()
	g.Load(snapshot.Nodes, snapshot.Edges)

	encoder, err := embed.NewEncoder(embeddingCfg)
	if err != nil {
		return nil, fmt.Errorf("container: build encoder: %w", err)
	}

	vectors := vectorstore.NewStore()
	if encoder != nil {
		records, err := reader.LoadAllEmbeddings()
		if err != nil {
			return nil, fmt.Errorf("container: load embeddings: %w", err)
		}
		embeddings := make([]vectorstore.Embedding, 0, len(records))
		for _, rec := range records {
			embeddings = append(embeddings, vectorstore.Embedding{ID: rec.ID, Vector: rec.Vector})
		}
		if err := vectors.Load(embeddings); err != nil {
			return nil, fmt.Errorf("container: load vector store: %w", err)
		}
	}

	var vectorsForEngine *vectorstore.Store
	var encoderForEngine embed.Encoder
	if encoder != nil {
		vectorsForEngine = vectors
		encoderForEngine = encoder
	}

	return &Assembled{
		Manifest: manifest,
		Graph:    g,
		Vectors:  vectorsForEngine,
		Encoder:  encoder,
		Engine:   query.NewEngine(g, vectorsForEngine, encoderForEngine),
	}, nil
}

// Container holds the current Assembled snapshot behind an atomic
// pointer. Query handlers call Current() once per request; a reindex
// builds a new Assembled and calls Swap, and in-flight requests keep
// using the snapshot they already loaded.
type Container struct {
	current atomic.Pointer[Assembled]
}

// New returns a Container holding the given initial snapshot.
func New(initial *Assembled) *Container {
	c := &Container{}
	c.current.Store(initial)
	return c
}

// Current returns the snapshot in effect right now.
func (c *Container) Current() *Assembled {
	return c.current.Load()
}

// Swap atomically replaces the snapshot in effect, returning the
// previous one so the caller can close its encoder if needed.
func (c *Container) Swap(next *Assembled) *Assembled {
	return c.current.Swap(next)
}

// ResolveIndexerIdentity returns the indexer identity an index run should
// record in its manifest: the prior run's identity if one exists on
// disk, so the same logical indexer keeps one stable identity across
// reindexes, or a freshly minted UUID on a first run.
func ResolveIndexerIdentity(indexDir string) string {
	reader := artifact.NewReader(indexDir)
	if reader.Exists() {
		if m, err := reader.LoadManifest(); err == nil && m.IndexerIdentity != "" {
			return m.IndexerIdentity
		}
	}
	return uuid.NewString()
}
