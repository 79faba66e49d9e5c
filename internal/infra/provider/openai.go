// OpenAI-compatible codec (kind "local-openai-compatible").
// Covers local servers exposing POST {base}/v1/chat/completions:
// llama.cpp server, vLLM, LM Studio.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/matiasleandrokruk/vocable/internal/infra/aiconfig"
)

// OpenAIClient implements Client against an OpenAI-compatible server.
type OpenAIClient struct {
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAIClient over the shared HTTP client.
func NewOpenAIClient(hc *http.Client) *OpenAIClient {
	return &OpenAIClient{httpClient: hc}
}

// ─── wire types ──────────────────────────────────────────────────────────────

type openaiChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type openaiChatResponse struct {
	Choices []openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ─── Client implementation ───────────────────────────────────────────────────

// Complete performs one chat completion. The credential is optional: most
// local servers accept anonymous calls, some are started with an API key.
func (c *OpenAIClient) Complete(ctx context.Context, cfg aiconfig.ProviderConfig, req CompletionRequest) (string, error) {
	payload := openaiChatRequest{
		Model:       cfg.ModelID,
		Messages:    req.Messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	var header http.Header
	if cfg.Credential != "" {
		header = http.Header{"Authorization": {"Bearer " + cfg.Credential}}
	}

	url := strings.TrimSuffix(cfg.BaseURL, "/") + "/v1/chat/completions"
	data, err := postJSON(ctx, c.httpClient, url, header, payload)
	if err != nil {
		return "", err
	}

	var parsed openaiChatResponse
	if decErr := json.Unmarshal(data, &parsed); decErr != nil {
		return "", &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("decode completion response: %w", decErr)}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Kind: KindMalformedResponse, Err: errors.New("no choices in response")}
	}
	if parsed.Choices[0].Message.Content == "" {
		return "", &Error{Kind: KindMalformedResponse, Err: errors.New("empty completion message")}
	}
	return parsed.Choices[0].Message.Content, nil
}
