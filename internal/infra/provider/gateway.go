// Hosted completion gateway codec (kind "cloud-gateway").
// The gateway wraps several upstream vendors behind one envelope:
// POST {base}/v1/complete with X-Api-Key auth.
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

// GatewayClient implements Client against the hosted gateway.
type GatewayClient struct {
	httpClient *http.Client
}

// NewGatewayClient creates a GatewayClient over the shared HTTP client.
func NewGatewayClient(hc *http.Client) *GatewayClient {
	return &GatewayClient{httpClient: hc}
}

// ─── wire types ──────────────────────────────────────────────────────────────

type gatewayTurn struct {
	Speaker string `json:"speaker"` // "system" | "user" | "assistant"
	Text    string `json:"text"`
}

type gatewayCompleteRequest struct {
	Model        string           `json:"model"`
	Conversation []gatewayTurn    `json:"conversation"`
	Generation   gatewayGenParams `json:"generation"`
}

type gatewayGenParams struct {
	MaxOutputTokens int     `json:"max_output_tokens"`
	Temperature     float64 `json:"temperature"`
}

type gatewayCompleteResponse struct {
	Status string `json:"status"` // "ok" | "error"
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Detail string `json:"detail,omitempty"`
}

// ─── Client implementation ───────────────────────────────────────────────────

// Complete performs one gateway completion. The gateway always requires a
// credential; a blank one fails fast without a network round trip.
func (c *GatewayClient) Complete(ctx context.Context, cfg aiconfig.ProviderConfig, req CompletionRequest) (string, error) {
	if cfg.Credential == "" {
		return "", &Error{Kind: KindAuthFailed, Err: errors.New("cloud gateway requires a credential")}
	}

	turns := make([]gatewayTurn, len(req.Messages))
	for i, m := range req.Messages {
		turns[i] = gatewayTurn{Speaker: m.Role, Text: m.Content}
	}

	payload := gatewayCompleteRequest{
		Model:        cfg.ModelID,
		Conversation: turns,
		Generation: gatewayGenParams{
			MaxOutputTokens: cfg.MaxTokens,
			Temperature:     cfg.Temperature,
		},
	}
	header := http.Header{"X-Api-Key": {cfg.Credential}}

	url := strings.TrimSuffix(cfg.BaseURL, "/") + "/v1/complete"
	data, err := postJSON(ctx, c.httpClient, url, header, payload)
	if err != nil {
		return "", err
	}

	var parsed gatewayCompleteResponse
	if decErr := json.Unmarshal(data, &parsed); decErr != nil {
		return "", &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("decode gateway response: %w", decErr)}
	}
	if parsed.Status != "ok" {
		return "", &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("gateway status %q: %s", parsed.Status, parsed.Detail)}
	}
	if parsed.Output.Text == "" {
		return "", &Error{Kind: KindMalformedResponse, Err: errors.New("empty completion text")}
	}
	return parsed.Output.Text, nil
}
