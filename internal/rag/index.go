package rag

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/ai"
	"go.uber.org/zap"
)

// Index is an in-memory vector index over policy chunks. It is built
// once at startup and read-only afterwards.
type Index struct {
	embedder ai.Embedder
	logger   *zap.Logger

	chunks  []Chunk
	vectors [][]float32 // unit-normalized, index-aligned with chunks
}

// NewIndex creates an empty index
func NewIndex(embedder ai.Embedder, logger *zap.Logger) *Index {
	return &Index{
		embedder: embedder,
		logger:   logger,
	}
}

// Build embeds every chunk and stores the vectors. Called once at
// startup; an embedding failure here is fatal because the retrieval
// fallback cannot operate without an index.
func (idx *Index) Build(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		idx.logger.Warn("Building retrieval index over empty corpus")
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := idx.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed policy corpus: %w", err)
	}

	idx.chunks = chunks
	idx.vectors = make([][]float32, len(vectors))
	for i, v := range vectors {
		idx.vectors[i] = ai.Normalize(v)
	}

	idx.logger.Info("Retrieval index built", zap.Int("chunks", len(chunks)))
	return nil
}

// Search returns the k chunks most similar to the query, best first
func (idx *Index) Search(ctx context.Context, query string, k int) ([]Chunk, error) {
	if len(idx.chunks) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = 1
	}

	vectors, err := idx.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryVec := ai.Normalize(vectors[0])

	type scored struct {
		idx   int
		score float64
	}

	results := make([]scored, len(idx.chunks))
	for i, v := range idx.vectors {
		results[i] = scored{idx: i, score: ai.DotProduct(queryVec, v)}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}

	top := make([]Chunk, k)
	for i := 0; i < k; i++ {
		top[i] = idx.chunks[results[i].idx]
	}
	return top, nil
}

// Size returns the number of indexed chunks
func (idx *Index) Size() int {
	return len(idx.chunks)
}
