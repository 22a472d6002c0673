package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/promptforge/promptforge/internal/config"
)

// Gateway dispatches generate calls to one of the registered variants.
// It owns the concerns the variants must not: provider lookup, wall-clock
// latency measurement, and the optional per-call timeout.
type Gateway struct {
	variants        map[string]Variant
	defaultProvider string
	timeout         time.Duration
}

func NewGateway(cfg config.ProviderConfig) *Gateway {
	g := &Gateway{
		variants:        make(map[string]Variant),
		defaultProvider: strings.ToLower(cfg.DefaultProvider),
		timeout:         cfg.RequestTimeout,
	}

	if cfg.OpenAIKey != "" {
		g.register(NewOpenAIVariant(cfg.OpenAIKey))
	}
	if cfg.GroqKey != "" {
		g.register(NewGroqVariant(cfg.GroqKey))
	}
	if cfg.AnthropicKey != "" {
		g.register(NewAnthropicVariant(cfg.AnthropicKey))
	}
	if cfg.OllamaURL != "" {
		g.register(NewOllamaVariant(cfg.OllamaURL))
	}

	return g
}

func (g *Gateway) register(v Variant) {
	g.variants[strings.ToLower(v.Name())] = v
}

// Generate runs prompt against the named provider. The provider ID is
// matched case-insensitively; an unknown ID fails with ErrUnsupportedProvider
// before any network I/O. Latency is measured here, not trusted from the
// variant, so all variants report it uniformly.
func (g *Gateway) Generate(ctx context.Context, providerID, prompt, model string) (*Generation, error) {
	v, ok := g.variants[strings.ToLower(providerID)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, providerID)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	gen, err := v.Generate(ctx, prompt, model)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, &CallError{Provider: v.Name(), Err: err}
	}

	gen.ProviderID = v.Name()
	gen.Model = model
	gen.LatencyMs = latency
	return gen, nil
}

// modelFamilies routes well-known model name substrings to a provider.
// Checked in order; first match wins.
var modelFamilies = []struct {
	substr   string
	provider string
}{
	{"claude", "anthropic"},
	{"gpt", "openai"},
	{"llama", "groq"},
	{"mixtral", "groq"},
	{"gemma", "groq"},
}

// Resolve guesses a provider ID from a bare model identifier. Model names
// are not a reliable discriminator, so this is a lossy legacy fallback for
// call sites that cannot supply an explicit provider. Anything that can
// pass a provider ID should.
func (g *Gateway) Resolve(model string) string {
	m := strings.ToLower(model)
	for _, f := range modelFamilies {
		if strings.Contains(m, f.substr) {
			return f.provider
		}
	}
	return g.defaultProvider
}

// Supports reports whether a provider ID resolves to a registered variant.
func (g *Gateway) Supports(providerID string) bool {
	_, ok := g.variants[strings.ToLower(providerID)]
	return ok
}

func (g *Gateway) Models() []ModelInfo {
	var models []ModelInfo
	for _, v := range g.variants {
		for _, m := range v.Models() {
			models = append(models, ModelInfo{Provider: v.Name(), Model: m})
		}
	}
	return models
}
