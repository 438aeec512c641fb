package rag

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCompleter records the messages of each call and returns canned replies
type fakeCompleter struct {
	calls   [][]openai.ChatCompletionMessage
	replies []string
	err     error
}

func (c *fakeCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	c.calls = append(c.calls, messages)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "ok", nil
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

func newTestEngine(t *testing.T, completer *fakeCompleter) *Engine {
	t.Helper()
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"leave policy":    {1, 0, 0},
		"expense policy":  {0, 1, 0},
		"code of conduct": {0, 0, 1},
	}}
	idx := NewIndex(embedder, zap.NewNop())
	require.NoError(t, idx.Build(context.Background(), policyChunks()))
	return NewEngine(idx, completer, 2, zap.NewNop())
}

func TestEngine_Ask(t *testing.T) {
	t.Run("conditions the completion on retrieved context", func(t *testing.T) {
		completer := &fakeCompleter{replies: []string{"18 days per year."}}
		engine := newTestEngine(t, completer)

		answer, err := engine.Ask(context.Background(), "How many leave days do I get?")
		require.NoError(t, err)
		assert.Equal(t, "18 days per year.", answer)

		require.Len(t, completer.calls, 1)
		messages := completer.calls[0]
		require.GreaterOrEqual(t, len(messages), 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)

		userMsg := messages[len(messages)-1]
		assert.Equal(t, openai.ChatMessageRoleUser, userMsg.Role)
		assert.Contains(t, userMsg.Content, "Context from company policy documents")
		assert.Contains(t, userMsg.Content, "Question: How many leave days do I get?")
	})

	t.Run("carries conversation history into later turns", func(t *testing.T) {
		completer := &fakeCompleter{replies: []string{"18 days.", "Yes, unused days carry over."}}
		engine := newTestEngine(t, completer)

		_, err := engine.Ask(context.Background(), "How many leave days do I get?")
		require.NoError(t, err)
		_, err = engine.Ask(context.Background(), "Do they carry over?")
		require.NoError(t, err)

		require.Len(t, completer.calls, 2)
		second := completer.calls[1]
		// system + first question + first answer + new question
		require.Len(t, second, 4)
		assert.Equal(t, "How many leave days do I get?", second[1].Content)
		assert.Equal(t, "18 days.", second[2].Content)
	})

	t.Run("reset clears the conversation buffer", func(t *testing.T) {
		completer := &fakeCompleter{}
		engine := newTestEngine(t, completer)

		_, err := engine.Ask(context.Background(), "First question")
		require.NoError(t, err)

		engine.Reset()

		_, err = engine.Ask(context.Background(), "Second question")
		require.NoError(t, err)

		second := completer.calls[1]
		// system + new question only
		assert.Len(t, second, 2)
	})

	t.Run("completion failure propagates", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("upstream unavailable")}
		engine := newTestEngine(t, completer)

		_, err := engine.Ask(context.Background(), "Any question")
		assert.Error(t, err)
	})

	t.Run("failed turns do not pollute history", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("upstream unavailable")}
		engine := newTestEngine(t, completer)

		_, _ = engine.Ask(context.Background(), "Failing question")

		completer.err = nil
		_, err := engine.Ask(context.Background(), "Working question")
		require.NoError(t, err)

		second := completer.calls[1]
		assert.Len(t, second, 2)
	})
}

func TestBuildQuestionPrompt(t *testing.T) {
	t.Run("numbers chunks and names their sources", func(t *testing.T) {
		prompt := buildQuestionPrompt("What is the limit?", []Chunk{
			{Source: "expense.md", Text: "Meals are capped at 50 USD."},
			{Source: "travel.md", Text: "Economy class only."},
		})

		assert.Contains(t, prompt, "[1] (expense.md)")
		assert.Contains(t, prompt, "Meals are capped at 50 USD.")
		assert.Contains(t, prompt, "[2] (travel.md)")
		assert.Contains(t, prompt, "Question: What is the limit?")
	})

	t.Run("notes when no context was found", func(t *testing.T) {
		prompt := buildQuestionPrompt("Anything?", nil)
		assert.Contains(t, prompt, "no relevant policy excerpts found")
	})
}
