package provider

import (
	"context"
	"errors"
	"fmt"
)

// Generation is the normalized result shape every backend is mapped into.
type Generation struct {
	ProviderID string  `json:"provider_id"`
	Model      string  `json:"model"`
	Output     string  `json:"output"`
	LatencyMs  int64   `json:"latency_ms"`
	TokenUsage int     `json:"token_usage"` // 0 when the backend does not report usage
	Cost       float64 `json:"cost"`        // 0 for free-tier or local backends
}

// Variant is a single text-generation backend. Variants hold only immutable
// configuration (credentials, endpoint) and are safe for concurrent use.
type Variant interface {
	Generate(ctx context.Context, prompt, model string) (*Generation, error)
	Name() string
	Models() []string
}

// ErrUnsupportedProvider is returned when a provider ID does not match any
// registered variant. It is surfaced before any network call is made.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// CallError wraps a failure from a recognized provider: network error,
// rejected request, or an undecodable response. The underlying message is
// preserved for the caller; the gateway never retries.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// ModelInfo describes a model offered by a registered variant.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
