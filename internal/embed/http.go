package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// httpEncoder adapts a remote HTTP embedding endpoint to the Encoder
// interface. The endpoint is expected to accept {"texts": [...], "mode":
// "query"|"passage"} and respond with {"embeddings": [[...], ...]}.
type httpEncoder struct {
	endpoint   string
	dimensions int
	client     *http.Client
}

// newHTTPEncoder creates an Encoder backed by a remote (texts) -> vectors
// endpoint. dimensions is the vector width the caller expects; it is never
// checked against the vectors the server returns (only their count is). A
// zero dimensions is replaced by the width of the first response.
func newHTTPEncoder(endpoint string, dimensions int) (Encoder, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("embed: endpoint is required for the http encoder")
	}
	return &httpEncoder{
		endpoint:   endpoint,
		dimensions: dimensions,
		client:     &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type embedRequest struct {
	Texts []string `json:"texts"`
	Mode  string   `json:"mode"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed posts texts to the configured endpoint and returns the vectors in
// the same order.
func (e *httpEncoder) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	body, err := json.Marshal(embedRequest{Texts: texts, Mode: string(mode)})
	if err != nil {
		return nil, fmt.Errorf("embed: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embed: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed: endpoint returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embed: decode response: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: expected %d embeddings, got %d", len(texts), len(out.Embeddings))
	}
	if e.dimensions == 0 && len(out.Embeddings) > 0 {
		e.dimensions = len(out.Embeddings[0])
	}

	return out.Embeddings, nil
}

// Dimensions returns the fixed vector width reported at construction time,
// or the width observed on the first successful response if it was unset.
func (e *httpEncoder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op: the HTTP client holds no long-lived resources worth
// releasing explicitly.
func (e *httpEncoder) Close() error {
	return nil
}
