package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPExtractor calls an external extraction service. The service takes
// {"url": "..."} and answers with an ExtractedRecipe, or a non-2xx status
// when the page yields nothing usable.
type HTTPExtractor struct {
	endpoint string
	client   *http.Client
}

// NewHTTPExtractor creates an extractor for the given service endpoint.
func NewHTTPExtractor(endpoint string) *HTTPExtractor {
	return &HTTPExtractor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Extract implements Extractor.
func (e *HTTPExtractor) Extract(ctx context.Context, url string) (*ExtractedRecipe, error) {
	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("extraction service returned %d", resp.StatusCode)
	}

	var payload ExtractedRecipe
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode extraction result: %w", err)
	}
	if payload.Title == "" {
		return nil, fmt.Errorf("extraction result has no title")
	}
	return &payload, nil
}
