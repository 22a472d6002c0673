package provider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqVariant talks to Groq through its OpenAI-compatible API.
type GroqVariant struct {
	client *openai.Client
}

func NewGroqVariant(apiKey string) *GroqVariant {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &GroqVariant{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (p *GroqVariant) Name() string { return "groq" }

func (p *GroqVariant) Models() []string {
	return []string{
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
		"mixtral-8x7b-32768",
		"gemma2-9b-it",
	}
}

func (p *GroqVariant) Generate(ctx context.Context, prompt, model string) (*Generation, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("groq chat: %w", err)
	}

	output := ""
	if len(resp.Choices) > 0 {
		output = resp.Choices[0].Message.Content
	}

	return &Generation{
		Output:     output,
		TokenUsage: resp.Usage.TotalTokens,
		Cost:       0, // free tier
	}, nil
}
