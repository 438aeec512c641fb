package main

// Isolated smoke test for the OpenAI-compatible API: one chat completion
// and one embedding call, so connectivity and credentials can be verified
// without starting the full service.

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/ai"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/config"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
	"github.com/subosito/gotenv"
)

func main() {
	_ = gotenv.Load()

	fmt.Println("=== LLM Connection Test ===")

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewDevelopmentLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	client, err := ai.NewClient(ai.ClientConfig{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		ChatModel:      cfg.OpenAI.ChatModel,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		Temperature:    cfg.OpenAI.Temperature,
		MaxTokens:      cfg.OpenAI.MaxTokens,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OpenAI.Timeout)
	defer cancel()

	fmt.Printf("\n1. Chat completion (%s)...\n", cfg.OpenAI.ChatModel)
	start := time.Now()
	reply, err := client.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "Reply with the single word: pong"},
	})
	if err != nil {
		log.Fatalf("Chat completion failed: %v", err)
	}
	fmt.Printf("   Response in %v: %q\n", time.Since(start).Round(time.Millisecond), reply)

	fmt.Printf("\n2. Embedding (%s)...\n", cfg.OpenAI.EmbeddingModel)
	start = time.Now()
	vectors, err := client.Embed(ctx, []string{"How many leave days do I get per year?"})
	if err != nil {
		log.Fatalf("Embedding failed: %v", err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		log.Fatalf("Embedding returned unexpected shape: %d vectors", len(vectors))
	}
	fmt.Printf("   Vector of %d dimensions in %v\n", len(vectors[0]), time.Since(start).Round(time.Millisecond))

	fmt.Println("\nAll checks passed.")
}
