// Package vectorstore is the brute-force cosine-similarity vector pool:
// chunk IDs and embedding vectors held in
// github.com/philippgille/chromem-go's in-memory collection, with the
// exact zero-norm/NaN/minScore/limit semantics of the source enforced in
// this thin wrapper around chromem's own cosine engine.
package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/philippgille/chromem-go"
)

// Embedding is one vector to load into the store.
type Embedding struct {
	ID     string
	Vector []float64
}

// Result is one scored match from Search.
type Result struct {
	ID    string
	Score float64
}

const collectionName = "vectors"

// Store is safe for concurrent reads; Load replaces its contents wholesale.
type Store struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	order      map[string]int // insertion index, used to break exact score ties
	count      int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{db: chromem.NewDB()}
}

// Load wipes the store and inserts embeddings, replacing the collection
// and the insertion-order index used for tie-breaking.
func (s *Store) Load(embeddings []Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db = chromem.NewDB()
	collection, err := s.db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("vectorstore: create collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(embeddings))
	order := make(map[string]int, len(embeddings))
	for i, e := range embeddings {
		docs = append(docs, chromem.Document{
			ID:        e.ID,
			Embedding: toFloat32(e.Vector),
		})
		order[e.ID] = i
	}

	if len(docs) > 0 {
		if err := collection.AddDocuments(context.Background(), docs, 1); err != nil {
			return fmt.Errorf("vectorstore: add documents: %w", err)
		}
	}

	s.collection = collection
	s.order = order
	s.count = len(embeddings)
	return nil
}

// Search returns the top-`limit` matches for queryVector scoring at least
// minScore, sorted by score descending (ties broken by insertion order).
// A zero-norm query vector, a non-positive limit, or an empty store all
// return no results.
func (s *Store) Search(queryVector []float64, limit int, minScore float64) []Result {
	if limit <= 0 {
		return nil
	}
	if norm(queryVector) == 0 {
		return nil
	}

	s.mu.RLock()
	collection := s.collection
	order := s.order
	count := s.count
	s.mu.RUnlock()

	if collection == nil || count == 0 {
		return nil
	}

	docs, err := collection.QueryEmbedding(context.Background(), toFloat32(queryVector), count, nil, nil)
	if err != nil {
		return nil
	}

	candidates := make([]Result, 0, len(docs))
	for _, d := range docs {
		score := float64(d.Similarity)
		if math.IsNaN(score) {
			continue
		}
		if score < minScore {
			continue
		}
		candidates = append(candidates, Result{ID: d.ID, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return order[candidates[i].ID] < order[candidates[j].ID]
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
