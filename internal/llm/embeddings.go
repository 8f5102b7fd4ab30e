package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"chatpdf/internal/contextutil"
)

// EmbeddingsClient embeds text with one model for both segments and questions.
type EmbeddingsClient struct {
	BaseURL      string
	Model        string
	ExpectedSize int // 0 disables the size check
	embedder     embeddings.Embedder
}

// NewEmbeddingsClient creates a new embeddings client.
// When expectedSize is positive every returned vector is checked against it.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) (*EmbeddingsClient, error) {
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &EmbeddingsClient{
		BaseURL:      baseURL,
		Model:        model,
		ExpectedSize: expectedSize,
		embedder:     embedder,
	}, nil
}

// EmbedTexts generates embeddings for the given texts, one vector per text.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "embedding request failed", "model", c.Model, "count", len(texts), "error", err)
		return nil, fmt.Errorf("%w: embeddings: %w", ErrServiceFailure, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: embedding count mismatch: expected %d, got %d", ErrServiceFailure, len(texts), len(vectors))
	}
	for i, v := range vectors {
		if err := c.checkSize(v); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
	}
	return vectors, nil
}

// EmbedQuery generates the embedding of a question.
func (c *EmbeddingsClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "query embedding failed", "model", c.Model, "error", err)
		return nil, fmt.Errorf("%w: embeddings: %w", ErrServiceFailure, err)
	}
	if err := c.checkSize(vector); err != nil {
		return nil, err
	}
	return vector, nil
}

func (c *EmbeddingsClient) checkSize(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty embedding", ErrServiceFailure)
	}
	if c.ExpectedSize > 0 && len(v) != c.ExpectedSize {
		return fmt.Errorf("embedding vector size mismatch: expected %d, got %d", c.ExpectedSize, len(v))
	}
	return nil
}
