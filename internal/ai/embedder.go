// Package ai wraps the OpenAI-compatible API used for chat completions
// and embeddings, plus the vector math shared by the FAQ matcher and the
// policy retrieval index.
package ai

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Embedder computes embedding vectors for text
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client wraps the OpenAI-compatible API for chat and embeddings
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel string
	temperature    float32
	maxTokens      int
	logger         *zap.Logger
}

// ClientConfig holds the API client configuration
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Temperature    float32
	MaxTokens      int
}

// NewClient creates a new API client. BaseURL may be empty for the
// default OpenAI endpoint, or point at any OpenAI-compatible service.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxTokens,
		logger:         logger,
	}, nil
}

// Embed computes embedding vectors for a batch of texts. The returned
// slice is index-aligned with the input.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		c.logger.Error("Embedding API call failed", zap.Error(err))
		return nil, fmt.Errorf("embedding API call failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding API returned out-of-range index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}

// Complete performs a chat completion with the configured model
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    messages,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("Chat completion API call failed", zap.Error(err))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from chat completion API")
	}

	return resp.Choices[0].Message.Content, nil
}

// Normalize returns a unit-length copy of the vector, so cosine
// similarity reduces to a dot product at query time. A zero vector is
// returned unchanged.
func Normalize(v []float32) []float32 {
	norm := l2Norm(v)
	if norm == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / float32(norm)
	}
	return out
}

// CosineSimilarity computes the cosine similarity of two vectors
func CosineSimilarity(a, b []float32) float64 {
	na, nb := l2Norm(a), l2Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return float64(dotProduct(a, b)) / (na * nb)
}

// DotProduct computes the dot product of two vectors. For unit-normalized
// vectors this equals their cosine similarity. Mismatched lengths use the
// shorter vector.
func DotProduct(a, b []float32) float64 {
	return float64(dotProduct(a, b))
}

func l2Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func dotProduct(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
