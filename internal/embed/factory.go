package embed

import "fmt"

// Config contains configuration for creating an Encoder.
type Config struct {
	// Provider selects the encoder implementation ("http", "mock", "none").
	Provider string

	// Endpoint is the URL for the remote (texts) -> vectors service, used
	// by the "http" provider.
	Endpoint string

	// Dimensions is the expected vector width. Zero means "detect from the
	// first response" for providers that support it.
	Dimensions int

	// Model is a provider-specific model identifier, carried through to
	// the manifest's embedding_model field.
	Model string
}

// NewEncoder builds an Encoder from configuration. An empty Provider (or
// "none") yields (nil, nil): the caller is expected to treat a nil Encoder
// as "no semantic capability", dropping the index level to L1 and marking
// queries with the NO_EMBEDDINGS warning.
func NewEncoder(config Config) (Encoder, error) {
	switch config.Provider {
	case "", "none":
		return nil, nil

	case "http":
		return newHTTPEncoder(config.Endpoint, config.Dimensions)

	case "mock":
		return newMockEncoder(), nil

	default:
		return nil, fmt.Errorf("embed: unsupported provider %q (supported: http, mock, none)", config.Provider)
	}
}
