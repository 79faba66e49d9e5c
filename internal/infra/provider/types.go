// Package provider routes chat completions to the configured model backends.
// It reads a fresh routing snapshot per call, tries the primary slot once,
// then the fallback slot once, and reports the outcome as a value rather
// than an error: the conversation surface downstream always needs something
// to render.
package provider

// Message is a single conversation turn passed to a provider.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the provider-agnostic input. Generation parameters
// (model, token budget, temperature) come from the active ProviderConfig,
// not from the caller.
type CompletionRequest struct {
	Messages []Message
}

// Slot names a configuration slot for logs and metric labels.
const (
	SlotPrimary  = "primary"
	SlotFallback = "fallback"
)

// CompletionResult is the terminal outcome of one routed completion.
// Exactly one of ReplyText (Succeeded) or ErrorKind (!Succeeded) is
// meaningful. ProviderUsed carries the kind of the provider that served
// the reply; it is empty when both slots failed.
type CompletionResult struct {
	ReplyText    string
	ProviderUsed string
	LatencyMS    int64
	Succeeded    bool
	ErrorKind    ErrorKind
}
