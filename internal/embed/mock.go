package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"
)

// MockEncoder is a test implementation that generates deterministic
// embeddings. It tracks Close() calls and can simulate errors.
type MockEncoder struct {
	mu          sync.Mutex
	dimensions  int
	closeCalled bool
	closeError  error
	embedError  error
}

// NewMockEncoder creates a mock encoder for testing. It generates
// deterministic embeddings based on text content so tests can assert on
// similarity without a real model.
func NewMockEncoder(dimensions int) *MockEncoder {
	if dimensions <= 0 {
		dimensions = 384 // standard dimension for small sentence transformers
	}
	return &MockEncoder{dimensions: dimensions}
}

// SetCloseError configures the mock to return an error on Close().
func (e *MockEncoder) SetCloseError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeError = err
}

// SetEmbedError configures the mock to return an error on Embed().
func (e *MockEncoder) SetEmbedError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.embedError = err
}

func newMockEncoder() Encoder {
	return NewMockEncoder(384)
}

// Embed generates mock embeddings by hashing the input text, so identical
// text always yields an identical vector.
func (e *MockEncoder) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.embedError != nil {
		return nil, e.embedError
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		hash := sha256.Sum256([]byte(string(mode) + ":" + text))

		embedding := make([]float32, e.dimensions)
		for j := 0; j < e.dimensions; j++ {
			offset := (j * 4) % len(hash)
			val := binary.BigEndian.Uint32(hash[offset : offset+4])
			embedding[j] = (float32(val)/float32(1<<32))*2.0 - 1.0
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}

// Dimensions returns the dimensionality of mock embeddings.
func (e *MockEncoder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimensions
}

// Close tracks that close was called and returns the configured error, if
// any.
func (e *MockEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeCalled = true
	return e.closeError
}

// IsClosed returns whether Close() has been called.
func (e *MockEncoder) IsClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeCalled
}
