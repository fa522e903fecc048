package indexcmd

import (
	"github.com/maypok86/otter"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/mdparse"
)

// parsedDocument is the cached outcome of steps 2-9 of the index pipeline
// (front-matter split, routing, layer detection, extraction) for one
// exact source_hash. Indexing the same bytes again through the same
// cache skips straight to persisting, chunking and embedding.
type parsedDocument struct {
	node       graph.Node
	edges      []graph.Edge
	document   mdparse.Document
	documentID string
	title      string
	warning    string
}

// ParseCache memoizes parsedDocument by source_hash for as long as the
// caller keeps the cache. The CLI builds a new one for every full index
// pass, so a --watch reindex re-parses every file.
type ParseCache struct {
	cache otter.Cache[string, parsedDocument]
}

// NewParseCache builds an in-memory cache sized for up to capacity
// distinct source hashes.
func NewParseCache(capacity int) (*ParseCache, error) {
	c, err := otter.MustBuilder[string, parsedDocument](capacity).Build()
	if err != nil {
		return nil, err
	}
	return &ParseCache{cache: c}, nil
}

func (c *ParseCache) get(hash string) (parsedDocument, bool) {
	if c == nil {
		return parsedDocument{}, false
	}
	return c.cache.Get(hash)
}

func (c *ParseCache) set(hash string, doc parsedDocument) {
	if c == nil {
		return
	}
	c.cache.Set(hash, doc)
}
