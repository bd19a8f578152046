// Package external provides the text-generation backend for summarize mode.
//
// CallLLM is the single entry point for calling any supported provider
// (Anthropic, OpenAI, Gemini, Bedrock). The Generator type adapts it to the
// one-method interface the reduction core consumes.
//
// ADDING A NEW PROVIDER:
//  1. Add request/response types to providers.go
//  2. Add cases to DetectProvider(), setAuthHeaders(), buildRequestBody(), parseResponse()
//  3. Add unit tests in llm_test.go
package external

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout for LLM API calls.
	DefaultTimeout = 60 * time.Second

	// maxResponseSize prevents OOM on unexpectedly large API responses (10MB).
	maxResponseSize = 10 * 1024 * 1024

	// maxErrorBodyLen limits error body in error messages to avoid log bloat.
	maxErrorBodyLen = 500

	// anthropicVersion is the Anthropic API version header value.
	anthropicVersion = "2023-06-01"
)

// CallLLMParams contains parameters for calling an LLM provider.
type CallLLMParams struct {
	// Provider overrides auto-detection. One of: "anthropic", "openai",
	// "gemini", "bedrock". If empty, detected from the Endpoint URL.
	Provider string

	Endpoint     string
	APIKey       string
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Timeout      time.Duration

	// HTTPClient overrides the default client. For Bedrock, a client with
	// a SigV4 signing transport must be provided.
	HTTPClient *http.Client
}

func (p *CallLLMParams) validate() error {
	if p.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	// Bedrock auth is SigV4 signing on the transport, not an API key.
	if p.APIKey == "" && p.Provider != "bedrock" {
		return fmt.Errorf("api key required")
	}
	if p.Model == "" {
		return fmt.Errorf("model required")
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultTimeout
	}
	return nil
}

// CallLLMResult contains the response from an LLM call.
type CallLLMResult struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Provider     string
}

// CallLLM calls an LLM provider for text generation.
//
// Provider detection (when params.Provider is empty):
//   - "bedrock" in URL → Bedrock invoke API (Anthropic Messages format)
//   - "anthropic" in URL → Anthropic Messages API
//   - "generativelanguage.googleapis.com" in URL → Gemini generateContent API
//   - otherwise → OpenAI Chat Completions API
func CallLLM(ctx context.Context, params CallLLMParams) (*CallLLMResult, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("invalid CallLLM params: %w", err)
	}

	provider := params.Provider
	if provider == "" {
		provider = DetectProvider(params.Endpoint)
	}

	body, err := buildRequestBody(provider, params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", provider, err)
	}

	ctx, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, params.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", provider, err)
	}

	req.Header.Set("Content-Type", "application/json")
	setAuthHeaders(req, provider, params.APIKey)

	client := params.HTTPClient
	if client == nil {
		client = &http.Client{} // timeout via context, not client
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", provider, err)
	}

	if resp.StatusCode != http.StatusOK {
		errBody := string(respBody)
		if len(errBody) > maxErrorBodyLen {
			errBody = errBody[:maxErrorBodyLen] + "... (truncated)"
		}
		return nil, fmt.Errorf("%s API returned status %d: %s", provider, resp.StatusCode, errBody)
	}

	return parseResponse(provider, respBody)
}

// DetectProvider infers the LLM provider from an endpoint URL.
// For proxy/custom endpoints, set Provider explicitly instead.
func DetectProvider(endpoint string) string {
	switch {
	case strings.Contains(endpoint, "bedrock-runtime") || strings.Contains(endpoint, "bedrock"):
		return "bedrock"
	case strings.Contains(endpoint, "anthropic"):
		return "anthropic"
	case strings.Contains(endpoint, "generativelanguage.googleapis.com"):
		return "gemini"
	default:
		return "openai"
	}
}

func setAuthHeaders(req *http.Request, provider, apiKey string) {
	switch provider {
	case "anthropic":
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("anthropic-version", anthropicVersion)
	case "bedrock":
		// Signed by the SigV4 transport; no API key headers.
	case "gemini":
		req.Header.Set("x-goog-api-key", apiKey)
	default: // openai
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}
}
