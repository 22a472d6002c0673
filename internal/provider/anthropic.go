package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicVariant struct {
	client anthropic.Client
}

func NewAnthropicVariant(apiKey string) *AnthropicVariant {
	return &AnthropicVariant{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (p *AnthropicVariant) Name() string { return "anthropic" }

func (p *AnthropicVariant) Models() []string {
	return []string{
		"claude-sonnet-4-20250514",
		"claude-opus-4-20250514",
		"claude-3-haiku-20240307",
	}
}

func (p *AnthropicVariant) Generate(ctx context.Context, prompt, model string) (*Generation, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic message: %w", err)
	}

	output := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			output += block.Text
		}
	}

	inputTokens := int(resp.Usage.InputTokens)
	outputTokens := int(resp.Usage.OutputTokens)

	return &Generation{
		Output:     output,
		TokenUsage: inputTokens + outputTokens,
		Cost:       CalculateCost(model, inputTokens, outputTokens),
	}, nil
}
