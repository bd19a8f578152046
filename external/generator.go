// Generator adapts CallLLM to the reduction core's TextGenerator interface.
package external

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Generator is a text-generation capability backed by an LLM provider.
// One Generate call maps to one CallLLM invocation; retry policy belongs to
// the caller (the summarizer).
type Generator struct {
	// Provider overrides endpoint-based detection.
	Provider string

	Endpoint  string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration

	// SystemPrompt is sent with every call when set.
	SystemPrompt string

	// HTTPClient overrides the default client. Ignored for Bedrock, which
	// always uses a SigV4 signing client.
	HTTPClient *http.Client

	clientOnce sync.Once
	client     *http.Client
	clientErr  error
}

// Generate maps a prompt to a generated string.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	provider := g.Provider
	if provider == "" {
		provider = DetectProvider(g.Endpoint)
	}

	client, err := g.httpClient(provider)
	if err != nil {
		return "", err
	}

	result, err := CallLLM(ctx, CallLLMParams{
		Provider:     provider,
		Endpoint:     g.Endpoint,
		APIKey:       g.APIKey,
		Model:        g.Model,
		SystemPrompt: g.SystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    g.MaxTokens,
		Timeout:      g.Timeout,
		HTTPClient:   client,
	})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// httpClient returns the client for the provider, building the Bedrock
// signing client once on first use.
func (g *Generator) httpClient(provider string) (*http.Client, error) {
	if provider != "bedrock" {
		return g.HTTPClient, nil
	}
	g.clientOnce.Do(func() {
		g.client, g.clientErr = newBedrockHTTPClient()
	})
	if g.clientErr != nil {
		return nil, fmt.Errorf("failed to create Bedrock HTTP client: %w", g.clientErr)
	}
	return g.client, nil
}
