package indexcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/knowledge-driven-dev/kdd-index/internal/artifact"
	"github.com/knowledge-driven-dev/kdd-index/internal/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIndexDocument_L1NoEncoderSkipsEmbeddings(t *testing.T) {
	specDir := t.TempDir()
	indexDir := t.TempDir()

	path := writeSource(t, specDir, "01-domain/entities/Invoice.md", ""+
		"---\nkind: entity\nid: Invoice\n---\n\n## Description\n\nAn invoice.\n")

	w, err := artifact.NewWriter(indexDir)
	require.NoError(t, err)

	result, err := IndexDocument(context.Background(), w, path, Options{Level: artifact.LevelL1})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ENT:Invoice", result.NodeID)
	assert.Zero(t, result.EmbeddingCount)

	r := artifact.NewReader(indexDir)
	nodes, err := r.LoadAllNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ENT:Invoice", nodes[0].ID)
}

func TestIndexDocument_L2WithEncoderProducesEmbeddings(t *testing.T) {
	specDir := t.TempDir()
	indexDir := t.TempDir()

	path := writeSource(t, specDir, "01-domain/entities/Invoice.md", ""+
		"---\nkind: entity\nid: Invoice\n---\n\n## Description\n\nAn invoice record.\n")

	w, err := artifact.NewWriter(indexDir)
	require.NoError(t, err)

	opts := Options{Level: artifact.LevelL2, Encoder: embed.NewMockEncoder(8)}
	result, err := IndexDocument(context.Background(), w, path, opts)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.EmbeddingCount)

	r := artifact.NewReader(indexDir)
	embeddings, err := r.LoadAllEmbeddings()
	require.NoError(t, err)
	require.Len(t, embeddings, 1)
	assert.Equal(t, 8, embeddings[0].Dimensions)
}

func TestIndexDocument_NoKindIsSkipped(t *testing.T) {
	specDir := t.TempDir()
	indexDir := t.TempDir()

	path := writeSource(t, specDir, "README.md", "# Just some notes\n")

	w, err := artifact.NewWriter(indexDir)
	require.NoError(t, err)

	result, err := IndexDocument(context.Background(), w, path, Options{Level: artifact.LevelL1})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.SkippedReason)
}

func TestIndexDocument_MisplacedFileCarriesWarning(t *testing.T) {
	specDir := t.TempDir()
	indexDir := t.TempDir()

	path := writeSource(t, specDir, "02-behavior/Stray.md", ""+
		"---\nkind: entity\nid: Stray\n---\n\n## Description\n\nMisplaced.\n")

	w, err := artifact.NewWriter(indexDir)
	require.NoError(t, err)

	result, err := IndexDocument(context.Background(), w, path, Options{Level: artifact.LevelL1})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Warning, "outside expected path")
}

func TestIndexDocument_ReindexReplacesNodeInPlace(t *testing.T) {
	specDir := t.TempDir()
	indexDir := t.TempDir()

	path := writeSource(t, specDir, "01-domain/entities/Invoice.md", ""+
		"---\nkind: entity\nid: Invoice\nstatus: draft\n---\n\n## Description\n\nAn invoice.\n")

	w, err := artifact.NewWriter(indexDir)
	require.NoError(t, err)

	_, err = IndexDocument(context.Background(), w, path, Options{Level: artifact.LevelL1})
	require.NoError(t, err)

	writeSource(t, specDir, "01-domain/entities/Invoice.md", ""+
		"---\nkind: entity\nid: Invoice\nstatus: approved\n---\n\n## Description\n\nAn invoice, approved.\n")
	_, err = IndexDocument(context.Background(), w, path, Options{Level: artifact.LevelL1})
	require.NoError(t, err)

	r := artifact.NewReader(indexDir)
	nodes, err := r.LoadAllNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "approved", nodes[0].Status)
}

func TestIndexDocument_UnreadableFileIsSkipped(t *testing.T) {
	indexDir := t.TempDir()
	w, err := artifact.NewWriter(indexDir)
	require.NoError(t, err)

	result, err := IndexDocument(context.Background(), w, filepath.Join(t.TempDir(), "missing.md"), Options{Level: artifact.LevelL1})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.SkippedReason, "unreadable")
}

func TestParseCache_MemoizesAcrossCalls(t *testing.T) {
	specDir := t.TempDir()
	indexDir := t.TempDir()

	path := writeSource(t, specDir, "01-domain/entities/Invoice.md", ""+
		"---\nkind: entity\nid: Invoice\n---\n\n## Description\n\nAn invoice.\n")

	w, err := artifact.NewWriter(indexDir)
	require.NoError(t, err)

	cache, err := NewParseCache(16)
	require.NoError(t, err)

	opts := Options{Level: artifact.LevelL1, Cache: cache}
	_, err = IndexDocument(context.Background(), w, path, opts)
	require.NoError(t, err)

	result, err := IndexDocument(context.Background(), w, path, opts)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ENT:Invoice", result.NodeID)
}
