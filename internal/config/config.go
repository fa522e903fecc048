package config

// Config represents the complete kdd-index configuration.
// It can be loaded from .kdd-index/config.yml with environment variable overrides.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Chunking  ChunkingConfig  `yaml:"chunking" mapstructure:"chunking"`
}

// EmbeddingConfig configures the embedding encoder used to produce chunk
// and query vectors. Provider "none" (the default) disables embeddings
// entirely and yields an L1 (graph-only) index.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`     // "none", "http", or "mock"
	Model      string `yaml:"model" mapstructure:"model"`           // model identifier, provider-specific
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"` // embedding vector dimensions, 0 = auto-detect
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`     // e.g., "http://localhost:8121/embed"
}

// PathsConfig defines where specification documents live and which files
// to skip during discovery.
type PathsConfig struct {
	Specs  []string `yaml:"specs" mapstructure:"specs"`   // root directories to scan for spec documents
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to exclude
}

// ChunkingConfig defines how embeddable section bodies are split for
// vector indexing.
type ChunkingConfig struct {
	MaxChunkChars int `yaml:"max_chunk_chars" mapstructure:"max_chunk_chars"` // paragraph-packing ceiling, in characters
	OverlapChars  int `yaml:"overlap_chars" mapstructure:"overlap_chars"`     // a chunk's last paragraph, if at most this long, also opens the next chunk
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   "none",
			Model:      "",
			Dimensions: 0,
			Endpoint:   "",
		},
		Paths: PathsConfig{
			Specs: []string{"specs"},
			Ignore: []string{
				"node_modules/**",
				".git/**",
				".kdd-index/**",
				"**/*.draft.md",
			},
		},
		Chunking: ChunkingConfig{
			MaxChunkChars: 1500,
			OverlapChars:  200,
		},
	}
}
