package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (KDD_INDEX_*)
// 2. Config file (.kdd-index/config.yml or .kdd-index/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".kdd-index")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("KDD_INDEX")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., KDD_INDEX_EMBEDDING_PROVIDER)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("embedding.provider")
	v.BindEnv("embedding.model")
	v.BindEnv("embedding.dimensions")
	v.BindEnv("embedding.endpoint")

	v.BindEnv("paths.specs")
	v.BindEnv("paths.ignore")

	v.BindEnv("chunking.max_chunk_chars")
	v.BindEnv("chunking.overlap_chars")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("embedding.provider", defaults.Embedding.Provider)
	v.SetDefault("embedding.model", defaults.Embedding.Model)
	v.SetDefault("embedding.dimensions", defaults.Embedding.Dimensions)
	v.SetDefault("embedding.endpoint", defaults.Embedding.Endpoint)

	v.SetDefault("paths.specs", defaults.Paths.Specs)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("chunking.max_chunk_chars", defaults.Chunking.MaxChunkChars)
	v.SetDefault("chunking.overlap_chars", defaults.Chunking.OverlapChars)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// LoadFromDir loads configuration for an index directory that is itself
// the config root, i.e. config.yml sits directly under indexDir rather
// than under a ".kdd-index" subdirectory of it. The CLI and MCP server
// both treat indexDir as a self-contained artifact tree (manifest.json,
// nodes/, edges/, embeddings/, config.yml), so this is the entry point
// they use instead of LoadConfigFromDir.
func LoadFromDir(indexDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(indexDir)

	v.SetEnvPrefix("KDD_INDEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("embedding.provider")
	v.BindEnv("embedding.model")
	v.BindEnv("embedding.dimensions")
	v.BindEnv("embedding.endpoint")
	v.BindEnv("paths.specs")
	v.BindEnv("paths.ignore")
	v.BindEnv("chunking.max_chunk_chars")
	v.BindEnv("chunking.overlap_chars")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

const (
	defaultIndexPath = ".kdd-index"
	defaultSpecsPath = "specs"
)

// IndexPathFromEnv returns KDD_INDEX_PATH, or the default index
// directory name if unset.
func IndexPathFromEnv() string {
	if v := os.Getenv("KDD_INDEX_PATH"); v != "" {
		return v
	}
	return defaultIndexPath
}

// SpecsPathFromEnv returns KDD_SPECS_PATH, or the default specs
// directory name if unset.
func SpecsPathFromEnv() string {
	if v := os.Getenv("KDD_SPECS_PATH"); v != "" {
		return v
	}
	return defaultSpecsPath
}
