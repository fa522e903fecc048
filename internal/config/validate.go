package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidProvider indicates an unsupported embedding provider
	ErrInvalidProvider = errors.New("invalid embedding provider")

	// ErrInvalidDimensions indicates invalid embedding dimensions
	ErrInvalidDimensions = errors.New("invalid embedding dimensions")

	// ErrInvalidChunkSize indicates invalid chunk size configuration
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidOverlap indicates invalid overlap configuration
	ErrInvalidOverlap = errors.New("invalid overlap")

	// ErrEmptyEndpoint indicates missing embedding endpoint
	ErrEmptyEndpoint = errors.New("empty embedding endpoint")

	// ErrEmptySpecs indicates no spec root directories configured
	ErrEmptySpecs = errors.New("empty specs paths")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateEmbedding(&cfg.Embedding); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateChunking(&cfg.Chunking); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateEmbedding(cfg *EmbeddingConfig) error {
	var errs []error

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case "", "none", "http", "mock":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'none', 'http', or 'mock', got '%s'", ErrInvalidProvider, cfg.Provider))
	}

	if provider == "http" && strings.TrimSpace(cfg.Endpoint) == "" {
		errs = append(errs, fmt.Errorf("%w: endpoint is required for the http provider", ErrEmptyEndpoint))
	}

	if cfg.Dimensions < 0 {
		errs = append(errs, fmt.Errorf("%w: dimensions cannot be negative, got %d", ErrInvalidDimensions, cfg.Dimensions))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	if len(cfg.Specs) == 0 {
		return fmt.Errorf("%w: at least one specs root is required", ErrEmptySpecs)
	}
	return nil
}

func validateChunking(cfg *ChunkingConfig) error {
	var errs []error

	if cfg.MaxChunkChars <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_chunk_chars must be positive, got %d", ErrInvalidChunkSize, cfg.MaxChunkChars))
	}

	if cfg.OverlapChars < 0 {
		errs = append(errs, fmt.Errorf("%w: overlap_chars cannot be negative, got %d", ErrInvalidOverlap, cfg.OverlapChars))
	}

	if cfg.MaxChunkChars > 0 && cfg.OverlapChars >= cfg.MaxChunkChars {
		errs = append(errs, fmt.Errorf("%w: overlap_chars (%d) should be less than max_chunk_chars (%d)", ErrInvalidOverlap, cfg.OverlapChars, cfg.MaxChunkChars))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
