package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `You are an HR policy assistant. Answer the employee's question using ONLY the policy excerpts provided in the context. Be concise and factual. If the context does not contain the answer, reply exactly: "I'm sorry, that information is not available in the provided policy."`

// Completer performs a chat completion
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// Engine answers free-form policy questions by retrieving relevant
// chunks and conditioning a chat completion on them. It keeps a running
// conversation buffer so follow-up questions resolve references to
// earlier turns; Reset clears the buffer.
type Engine struct {
	index     *Index
	completer Completer
	topK      int
	logger    *zap.Logger

	mu      sync.Mutex
	history []openai.ChatCompletionMessage
}

// NewEngine creates a new retrieval engine
func NewEngine(index *Index, completer Completer, topK int, logger *zap.Logger) *Engine {
	if topK <= 0 {
		topK = 4
	}
	return &Engine{
		index:     index,
		completer: completer,
		topK:      topK,
		logger:    logger,
	}
}

// Ask answers a question grounded in the policy corpus. This is the only
// chatbot path whose error propagates to the HTTP layer; everything else
// degrades conversationally.
func (e *Engine) Ask(ctx context.Context, question string) (string, error) {
	chunks, err := e.index.Search(ctx, question, e.topK)
	if err != nil {
		return "", fmt.Errorf("policy retrieval failed: %w", err)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
	}

	e.mu.Lock()
	messages = append(messages, e.history...)
	e.mu.Unlock()

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: buildQuestionPrompt(question, chunks),
	})

	answer, err := e.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("policy answer generation failed: %w", err)
	}

	e.mu.Lock()
	e.history = append(e.history,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer},
	)
	e.mu.Unlock()

	e.logger.Debug("Policy question answered",
		zap.Int("context_chunks", len(chunks)),
		zap.Int("history_messages", len(messages)-1))
	return answer, nil
}

// Reset clears the conversation buffer
func (e *Engine) Reset() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
	e.logger.Info("Retrieval engine memory cleared")
}

// buildQuestionPrompt assembles the retrieved context and the question
// into a single user message.
func buildQuestionPrompt(question string, chunks []Chunk) string {
	var sb strings.Builder
	sb.WriteString("Context from company policy documents:\n\n")

	if len(chunks) == 0 {
		sb.WriteString("(no relevant policy excerpts found)\n")
	}
	for i, c := range chunks {
		sb.WriteString(fmt.Sprintf("[%d] (%s)\n%s\n\n", i+1, c.Source, c.Text))
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
