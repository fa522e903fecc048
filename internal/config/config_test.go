package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfig() uses defaults when no config file exists
// - LoadConfig() loads from .kdd-index/config.yml when present
// - LoadConfig() loads from .kdd-index/config.yaml when present
// - LoadConfig() merges config file with defaults
// - Environment variables override config file values
// - Environment variables override defaults when no config file exists
// - Validate() accepts valid configuration
// - Validate() rejects invalid provider
// - Validate() rejects http provider with empty endpoint
// - Validate() rejects negative dimensions
// - Validate() rejects empty specs paths
// - Validate() rejects non-positive max_chunk_chars
// - Validate() rejects negative overlap_chars
// - Validate() rejects overlap_chars >= max_chunk_chars
// - Validate() returns multiple errors for multiple invalid fields

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)

	assert.Equal(t, "none", cfg.Embedding.Provider)
	assert.Equal(t, 0, cfg.Embedding.Dimensions)

	assert.Equal(t, []string{"specs"}, cfg.Paths.Specs)
	assert.NotEmpty(t, cfg.Paths.Ignore)

	assert.Equal(t, 1500, cfg.Chunking.MaxChunkChars)
	assert.Equal(t, 200, cfg.Chunking.OverlapChars)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	loader := NewLoader(tempDir)
	cfg, err := loader.Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)

	expected := Default()
	assert.Equal(t, expected.Embedding.Provider, cfg.Embedding.Provider)
	assert.Equal(t, expected.Chunking.MaxChunkChars, cfg.Chunking.MaxChunkChars)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".kdd-index")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
embedding:
  provider: http
  model: bge-small
  dimensions: 384
  endpoint: http://localhost:8121/embed

paths:
  specs:
    - "docs/specs"
  ignore:
    - "drafts/**"

chunking:
  max_chunk_chars: 1000
  overlap_chars: 150
`

	configPath := filepath.Join(configDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	loader := NewLoader(tempDir)
	cfg, err := loader.Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http", cfg.Embedding.Provider)
	assert.Equal(t, "bge-small", cfg.Embedding.Model)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, "http://localhost:8121/embed", cfg.Embedding.Endpoint)

	assert.Equal(t, []string{"docs/specs"}, cfg.Paths.Specs)
	assert.Equal(t, []string{"drafts/**"}, cfg.Paths.Ignore)

	assert.Equal(t, 1000, cfg.Chunking.MaxChunkChars)
	assert.Equal(t, 150, cfg.Chunking.OverlapChars)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".kdd-index")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
embedding:
  provider: mock
  dimensions: 512
`

	configPath := filepath.Join(configDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	loader := NewLoader(tempDir)
	cfg, err := loader.Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "mock", cfg.Embedding.Provider)
	assert.Equal(t, 512, cfg.Embedding.Dimensions)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".kdd-index")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
embedding:
  provider: mock
`

	configPath := filepath.Join(configDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	loader := NewLoader(tempDir)
	cfg, err := loader.Load()

	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Embedding.Provider)
	assert.Equal(t, 1500, cfg.Chunking.MaxChunkChars)
	assert.Equal(t, 200, cfg.Chunking.OverlapChars)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".kdd-index")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
embedding:
  provider: mock
  model: file-model
  dimensions: 384
`

	configPath := filepath.Join(configDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("KDD_INDEX_EMBEDDING_PROVIDER", "http")
	t.Setenv("KDD_INDEX_EMBEDDING_MODEL", "env-model")
	t.Setenv("KDD_INDEX_EMBEDDING_ENDPOINT", "http://localhost:9000/embed")

	loader := NewLoader(tempDir)
	cfg, err := loader.Load()

	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Embedding.Provider)
	assert.Equal(t, "env-model", cfg.Embedding.Model)
	assert.Equal(t, "http://localhost:9000/embed", cfg.Embedding.Endpoint)
	// Dimensions not overridden, should come from config file
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
}

func TestLoadConfig_EnvironmentVariablesOverrideDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".kdd-index")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	t.Setenv("KDD_INDEX_EMBEDDING_PROVIDER", "http")
	t.Setenv("KDD_INDEX_EMBEDDING_ENDPOINT", "https://custom.endpoint/embed")
	t.Setenv("KDD_INDEX_CHUNKING_MAX_CHUNK_CHARS", "2000")

	loader := NewLoader(tempDir)
	cfg, err := loader.Load()

	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Embedding.Provider)
	assert.Equal(t, "https://custom.endpoint/embed", cfg.Embedding.Endpoint)
	assert.Equal(t, 2000, cfg.Chunking.MaxChunkChars)

	// Non-overridden values should be defaults
	assert.Equal(t, 200, cfg.Chunking.OverlapChars)
}

func TestValidate_AcceptsDefault(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidate_RejectsInvalidProvider(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "openai"

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidProvider)
}

func TestValidate_RejectsHTTPProviderWithoutEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "http"
	cfg.Embedding.Endpoint = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyEndpoint)
}

func TestValidate_RejectsNegativeDimensions(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Dimensions = -1

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestValidate_RejectsEmptySpecsPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.Specs = nil

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySpecs)
}

func TestValidate_RejectsNonPositiveMaxChunkChars(t *testing.T) {
	cfg := Default()
	cfg.Chunking.MaxChunkChars = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)
}

func TestValidate_RejectsNegativeOverlap(t *testing.T) {
	cfg := Default()
	cfg.Chunking.OverlapChars = -1

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}

func TestValidate_RejectsOverlapEqualToMaxChunkChars(t *testing.T) {
	cfg := Default()
	cfg.Chunking.MaxChunkChars = 500
	cfg.Chunking.OverlapChars = 500

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}

func TestValidate_ReturnsMultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "bogus"
	cfg.Chunking.MaxChunkChars = -1

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid embedding provider")
	assert.Contains(t, err.Error(), "invalid chunk size")
}
