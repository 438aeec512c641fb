// Package faq implements the semantic FAQ short-circuit: a fixed set of
// curated question/answer pairs matched by embedding similarity before
// the retrieval pipeline is consulted.
package faq

import (
	"context"
	"fmt"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/ai"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// Matcher holds the FAQ corpus and the precomputed embeddings of its
// questions. Entries are loaded once at startup and immutable afterwards;
// the matcher is safe for concurrent reads once Warm has returned.
type Matcher struct {
	embedder  ai.Embedder
	threshold float64
	logger    *zap.Logger

	entries []models.FAQEntry
	vectors [][]float32 // unit-normalized, index-aligned with entries
	warmed  bool
}

// NewMatcher creates an unwarmed FAQ matcher
func NewMatcher(embedder ai.Embedder, entries []models.FAQEntry, threshold float64, logger *zap.Logger) *Matcher {
	return &Matcher{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
		entries:   entries,
	}
}

// Warm precomputes embeddings for every stored question. Call once at
// startup before the matcher receives queries. An empty corpus is a
// no-op; an embedding failure leaves the matcher unwarmed so Match
// degrades to pass-through instead of failing startup.
func (m *Matcher) Warm(ctx context.Context) error {
	if len(m.entries) == 0 {
		m.logger.Warn("FAQ corpus is empty, matcher disabled")
		return nil
	}

	questions := make([]string, len(m.entries))
	for i, e := range m.entries {
		questions[i] = e.Question
	}

	vectors, err := m.embedder.Embed(ctx, questions)
	if err != nil {
		m.logger.Warn("FAQ warm-up failed, matcher disabled", zap.Error(err))
		return fmt.Errorf("FAQ warm-up: %w", err)
	}

	m.vectors = make([][]float32, len(vectors))
	for i, v := range vectors {
		m.vectors[i] = ai.Normalize(v)
	}
	m.warmed = true

	m.logger.Info("FAQ matcher warmed", zap.Int("entries", len(m.entries)))
	return nil
}

// Match returns the stored answer of the single highest-scoring question
// if its cosine similarity to the query meets the threshold. An empty or
// unwarmed corpus, an embedding failure, or a best score below threshold
// all report no match; none of them raise.
func (m *Matcher) Match(ctx context.Context, query string) (string, bool) {
	if !m.warmed || len(m.entries) == 0 {
		return "", false
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		m.logger.Warn("FAQ query embedding failed, skipping short-circuit", zap.Error(err))
		return "", false
	}
	queryVec := ai.Normalize(vectors[0])

	bestScore := -1.0
	bestIdx := -1
	for i, v := range m.vectors {
		score := ai.DotProduct(queryVec, v)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < m.threshold {
		return "", false
	}

	m.logger.Debug("FAQ match",
		zap.String("question", m.entries[bestIdx].Question),
		zap.Float64("score", bestScore))
	return m.entries[bestIdx].Answer, true
}

// Size returns the number of FAQ entries held
func (m *Matcher) Size() int {
	return len(m.entries)
}
