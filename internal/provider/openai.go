package provider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIVariant struct {
	client *openai.Client
}

func NewOpenAIVariant(apiKey string) *OpenAIVariant {
	return &OpenAIVariant{
		client: openai.NewClient(apiKey),
	}
}

func (p *OpenAIVariant) Name() string { return "openai" }

func (p *OpenAIVariant) Models() []string {
	return []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"}
}

func (p *OpenAIVariant) Generate(ctx context.Context, prompt, model string) (*Generation, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}

	output := ""
	if len(resp.Choices) > 0 {
		output = resp.Choices[0].Message.Content
	}

	return &Generation{
		Output:     output,
		TokenUsage: resp.Usage.TotalTokens,
		Cost:       CalculateCost(model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}, nil
}
