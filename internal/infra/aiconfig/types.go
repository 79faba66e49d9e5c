// Package aiconfig holds the AI routing configuration: which completion
// provider serves as primary, which as fallback, and the versioned store that
// lets operators replace both without a restart.
package aiconfig

import (
	"errors"
	"fmt"
)

// Kind identifies a provider protocol family. The set is closed: adding a
// kind means adding a request/response codec, not just a config value.
type Kind string

const (
	// KindLocalRuntime is a local model runtime speaking the Ollama-style
	// /api/chat protocol.
	KindLocalRuntime Kind = "local-runtime"
	// KindCloudGateway is a hosted completion gateway with its own envelope
	// and API-key header auth.
	KindCloudGateway Kind = "cloud-gateway"
	// KindLocalOpenAICompat is a local server exposing the OpenAI
	// /v1/chat/completions surface (llama.cpp server, vLLM, LM Studio).
	KindLocalOpenAICompat Kind = "local-openai-compatible"
)

// ParseKind validates a wire string against the closed kind set.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLocalRuntime, KindCloudGateway, KindLocalOpenAICompat:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown provider kind %q", s)
	}
}

// Generation parameter bounds. Values outside these ranges are rejected at
// the API boundary and by the schema.
const (
	MinTokens      = 64
	MaxTokens      = 4096
	MinTemperature = 0.0
	MaxTemperature = 1.5
)

// ProviderConfig describes one provider slot. It is an immutable value:
// changes replace the whole struct, never mutate a field in place.
type ProviderConfig struct {
	Kind        Kind    `json:"kind"`
	ModelID     string  `json:"model_id"`
	BaseURL     string  `json:"base_url"`
	Credential  string  `json:"credential,omitempty"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Validate checks the closed kind enum, required fields and parameter ranges.
func (p ProviderConfig) Validate() error {
	if _, err := ParseKind(string(p.Kind)); err != nil {
		return err
	}
	if p.ModelID == "" {
		return errors.New("model_id is required")
	}
	if p.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if p.MaxTokens < MinTokens || p.MaxTokens > MaxTokens {
		return fmt.Errorf("max_tokens %d out of range [%d, %d]", p.MaxTokens, MinTokens, MaxTokens)
	}
	if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
		return fmt.Errorf("temperature %g out of range [%g, %g]", p.Temperature, MinTemperature, MaxTemperature)
	}
	return nil
}

// Redacted returns a copy safe for display: the credential is masked but its
// presence is still visible.
func (p ProviderConfig) Redacted() ProviderConfig {
	if p.Credential != "" {
		p.Credential = "********"
	}
	return p
}

// RoutingConfig is one complete routing snapshot. Version increases
// monotonically with every replacement; readers always observe a whole
// snapshot, never fields from two versions.
type RoutingConfig struct {
	Primary  ProviderConfig `json:"primary"`
	Fallback ProviderConfig `json:"fallback"`
	Version  int64          `json:"version"`
}
