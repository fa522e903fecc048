package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ReturnsTopMatchesSortedDescending(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load([]Embedding{
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "b", Vector: []float64{0, 1}},
		{ID: "c", Vector: []float64{0.9, 0.1}},
	}))

	results := s.Search([]float64{1, 0}, 10, 0)
	require.NotEmpty(t, results)
	assert.Equal(t, "a", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 0.01)
}

func TestSearch_ZeroNormQueryReturnsNoResults(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load([]Embedding{{ID: "a", Vector: []float64{1, 0}}}))

	assert.Empty(t, s.Search([]float64{0, 0}, 10, 0))
}

func TestSearch_LimitZeroReturnsNoResults(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load([]Embedding{{ID: "a", Vector: []float64{1, 0}}}))

	assert.Empty(t, s.Search([]float64{1, 0}, 0, 0))
}

func TestSearch_MinScoreAboveMaxSimilarityReturnsNoResults(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load([]Embedding{{ID: "a", Vector: []float64{0, 1}}}))

	assert.Empty(t, s.Search([]float64{1, 0}, 10, 0.99))
}

func TestSearch_EmptyStoreReturnsNoResults(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load(nil))

	assert.Empty(t, s.Search([]float64{1, 0}, 10, 0))
}

func TestSearch_LimitTruncatesResults(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load([]Embedding{
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "b", Vector: []float64{0.99, 0.01}},
		{ID: "c", Vector: []float64{0.9, 0.1}},
	}))

	results := s.Search([]float64{1, 0}, 2, 0)
	assert.Len(t, results, 2)
}

func TestLoad_ReplacesPreviousContents(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load([]Embedding{{ID: "old", Vector: []float64{1, 0}}}))
	require.NoError(t, s.Load([]Embedding{{ID: "new", Vector: []float64{0, 1}}}))

	results := s.Search([]float64{0, 1}, 10, 0)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].ID)
}
