// Provider request/response codecs for CallLLM.
package external

import (
	"encoding/json"
	"fmt"
)

// AnthropicRequest is the Anthropic Messages API request body. Bedrock with
// Anthropic models uses the same format with anthropic_version set to
// bedrock-2023-05-31.
type AnthropicRequest struct {
	Model            string             `json:"model,omitempty"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []AnthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature"`
	AnthropicVersion string             `json:"anthropic_version,omitempty"`
}

type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// GeminiRequest is the Gemini generateContent request body.
type GeminiRequest struct {
	SystemInstruction *GeminiContent          `json:"system_instruction,omitempty"`
	Contents          []GeminiContent         `json:"contents"`
	GenerationConfig  *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content GeminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// OpenAIChatRequest is the OpenAI Chat Completions request body.
// Temperature is omitted: o-series models reject the field.
type OpenAIChatRequest struct {
	Model               string          `json:"model"`
	Messages            []OpenAIMessage `json:"messages"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
}

type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIChatResponse struct {
	Choices []struct {
		Message OpenAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Temperature strategy: 0.0 for reproducible summaries where the provider
// supports it.
func buildRequestBody(provider string, params CallLLMParams) ([]byte, error) {
	switch provider {
	case "anthropic", "bedrock":
		req := &AnthropicRequest{
			Model:       params.Model,
			MaxTokens:   params.MaxTokens,
			System:      params.SystemPrompt,
			Messages:    []AnthropicMessage{{Role: "user", Content: params.UserPrompt}},
			Temperature: 0.0,
		}
		if provider == "bedrock" {
			// Bedrock puts the model in the URL, not the body.
			req.Model = ""
			req.AnthropicVersion = "bedrock-2023-05-31"
		}
		return json.Marshal(req)
	case "gemini":
		req := &GeminiRequest{
			Contents: []GeminiContent{
				{Role: "user", Parts: []GeminiPart{{Text: params.UserPrompt}}},
			},
			GenerationConfig: &GeminiGenerationConfig{
				MaxOutputTokens: params.MaxTokens,
				Temperature:     0.0,
			},
		}
		if params.SystemPrompt != "" {
			req.SystemInstruction = &GeminiContent{
				Parts: []GeminiPart{{Text: params.SystemPrompt}},
			}
		}
		return json.Marshal(req)
	default: // openai
		messages := []OpenAIMessage{}
		if params.SystemPrompt != "" {
			messages = append(messages, OpenAIMessage{Role: "system", Content: params.SystemPrompt})
		}
		messages = append(messages, OpenAIMessage{Role: "user", Content: params.UserPrompt})
		return json.Marshal(&OpenAIChatRequest{
			Model:               params.Model,
			Messages:            messages,
			MaxCompletionTokens: params.MaxTokens,
		})
	}
}

func parseResponse(provider string, body []byte) (*CallLLMResult, error) {
	result := &CallLLMResult{Provider: provider}

	switch provider {
	case "anthropic", "bedrock":
		var resp AnthropicResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse %s response: %w", provider, err)
		}
		for _, block := range resp.Content {
			if block.Type == "text" {
				result.Content += block.Text
			}
		}
		if result.Content == "" {
			return nil, fmt.Errorf("%s response contained no text content", provider)
		}
		result.InputTokens = resp.Usage.InputTokens
		result.OutputTokens = resp.Usage.OutputTokens

	case "gemini":
		var resp GeminiResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse gemini response: %w", err)
		}
		if len(resp.Candidates) == 0 {
			return nil, fmt.Errorf("gemini response contained no candidates")
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			result.Content += part.Text
		}
		result.InputTokens = resp.UsageMetadata.PromptTokenCount
		result.OutputTokens = resp.UsageMetadata.CandidatesTokenCount

	default: // openai
		var resp OpenAIChatResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse openai response: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("openai response contained no choices")
		}
		result.Content = resp.Choices[0].Message.Content
		result.InputTokens = resp.Usage.PromptTokens
		result.OutputTokens = resp.Usage.CompletionTokens
	}

	return result, nil
}
