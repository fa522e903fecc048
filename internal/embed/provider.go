// Package embed adapts a pluggable text-to-vector model to the
// (texts) -> vectors contract the indexing and query engine rely on. The
// neural model itself is always external; this package only knows how to
// call it.
package embed

import "context"

// Mode specifies the type of embedding to generate.
type Mode string

const (
	// ModeQuery generates embeddings optimized for search queries.
	ModeQuery Mode = "query"

	// ModePassage generates embeddings optimized for document passages
	// (chunk context text).
	ModePassage Mode = "passage"
)

// Encoder converts text into fixed-dimension vectors. Implementations may
// call a local model server, a remote API, or (in tests) return
// deterministic stand-ins. Callers must tolerate the first call being slow
// if the implementation lazily loads a model.
type Encoder interface {
	// Embed converts a slice of text strings into their vector
	// representations, one per input string, preserving order. The mode
	// parameter specifies whether embeddings are for queries or passages.
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)

	// Dimensions returns the dimensionality of the vectors this encoder
	// produces.
	Dimensions() int

	// Close releases any resources held by the encoder.
	Close() error
}
