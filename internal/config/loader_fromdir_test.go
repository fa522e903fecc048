package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDir_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	indexDir := t.TempDir()

	cfg, err := LoadFromDir(indexDir)
	require.NoError(t, err)

	expected := Default()
	assert.Equal(t, expected.Embedding.Provider, cfg.Embedding.Provider)
	assert.Equal(t, expected.Paths.Specs, cfg.Paths.Specs)
}

func TestLoadFromDir_ReadsConfigDirectlyUnderIndexDir(t *testing.T) {
	indexDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(indexDir, "config.yml"), []byte(""+
		"embedding:\n  provider: http\n  endpoint: http://localhost:9000\n  dimensions: 384\n"),
		0o644))

	cfg, err := LoadFromDir(indexDir)
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Embedding.Provider)
	assert.Equal(t, "http://localhost:9000", cfg.Embedding.Endpoint)
}

func TestIndexPathFromEnv_DefaultsWhenUnset(t *testing.T) {
	os.Unsetenv("KDD_INDEX_PATH")
	assert.Equal(t, ".kdd-index", IndexPathFromEnv())
}

func TestIndexPathFromEnv_HonorsEnvVar(t *testing.T) {
	t.Setenv("KDD_INDEX_PATH", "/tmp/custom-index")
	assert.Equal(t, "/tmp/custom-index", IndexPathFromEnv())
}

func TestSpecsPathFromEnv_DefaultsWhenUnset(t *testing.T) {
	os.Unsetenv("KDD_SPECS_PATH")
	assert.Equal(t, "specs", SpecsPathFromEnv())
}

func TestSpecsPathFromEnv_HonorsEnvVar(t *testing.T) {
	t.Setenv("KDD_SPECS_PATH", "docs/specs")
	assert.Equal(t, "docs/specs", SpecsPathFromEnv())
}
