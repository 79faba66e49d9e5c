// Local model runtime codec (kind "local-runtime").
// Speaks the Ollama REST protocol: POST {base}/api/chat, non-streaming.
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

// RuntimeClient implements Client against a local model runtime.
type RuntimeClient struct {
	httpClient *http.Client
}

// NewRuntimeClient creates a RuntimeClient over the shared HTTP client.
func NewRuntimeClient(hc *http.Client) *RuntimeClient {
	return &RuntimeClient{httpClient: hc}
}

// ─── wire types ──────────────────────────────────────────────────────────────

type runtimeChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runtimeChatRequest struct {
	Model    string               `json:"model"`
	Messages []runtimeChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  map[string]any       `json:"options,omitempty"`
}

type runtimeChatResponse struct {
	Message    runtimeChatMessage `json:"message"`
	DoneReason string             `json:"done_reason"`
	Done       bool               `json:"done"`
}

// ─── Client implementation ───────────────────────────────────────────────────

// Complete performs one non-streaming chat completion.
// Generation parameters travel in the runtime's options map.
func (c *RuntimeClient) Complete(ctx context.Context, cfg aiconfig.ProviderConfig, req CompletionRequest) (string, error) {
	msgs := make([]runtimeChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = runtimeChatMessage{Role: m.Role, Content: m.Content}
	}

	payload := runtimeChatRequest{
		Model:    cfg.ModelID,
		Messages: msgs,
		Stream:   false,
		Options: map[string]any{
			"temperature": cfg.Temperature,
			"num_predict": cfg.MaxTokens,
		},
	}

	url := strings.TrimSuffix(cfg.BaseURL, "/") + "/api/chat"
	data, err := postJSON(ctx, c.httpClient, url, nil, payload)
	if err != nil {
		return "", err
	}

	var parsed runtimeChatResponse
	if decErr := json.Unmarshal(data, &parsed); decErr != nil {
		return "", &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("decode chat response: %w", decErr)}
	}
	if parsed.Message.Content == "" {
		return "", &Error{Kind: KindMalformedResponse, Err: errors.New("empty completion message")}
	}
	return parsed.Message.Content, nil
}
