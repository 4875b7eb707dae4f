package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmbeddingBackend marks a failed call to the embedding API. The cause is
// attached verbatim.
var ErrEmbeddingBackend = errors.New("embedding backend failed")

// EmbedPurpose selects the asymmetric embedding mode. Document-side and
// query-side vectors differ to match how the model was trained for retrieval.
type EmbedPurpose string

const (
	PurposeDocument EmbedPurpose = "RETRIEVAL_DOCUMENT"
	PurposeQuery    EmbedPurpose = "RETRIEVAL_QUERY"
)

// Embed returns the embedding vector for the given text.
func (c *GeminiClient) Embed(ctx context.Context, text string, purpose EmbedPurpose) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}

	reqBody := map[string]interface{}{
		"model": "models/" + c.embeddingModel,
		"content": map[string]interface{}{
			"parts": []map[string]string{{"text": text}},
		},
		"taskType": string(purpose),
	}

	var parsed struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:embedContent", c.baseURL, c.embeddingModel)
	if err := c.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingBackend, err)
	}
	if len(parsed.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", ErrEmbeddingBackend)
	}
	return parsed.Embedding.Values, nil
}
