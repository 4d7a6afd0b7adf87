package providers

import (
	"context"
	"time"
)

// Message is a single conversation turn in OpenAI message format.
type Message struct {
	// Role is "system", "user", or "assistant"
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// Usage holds the token counters a provider reports for one completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Request is a fully resolved completion request handed to a provider. All
// attempts of one logical call share the same RequestID; Attempt increments
// per fallback candidate.
type Request struct {
	// Role is the configured use-case name this request was resolved for
	Role string `json:"role"`

	// Messages in the conversation
	Messages []Message `json:"messages"`

	// Model identifier, resolved from role config and overrides
	Model string `json:"model"`

	// Temperature controls randomness
	Temperature float64 `json:"temperature"`

	// JSONMode asks the backend for a JSON object response
	JSONMode bool `json:"json_mode"`

	// MaxTokens limits the response length (0 = backend default)
	MaxTokens int `json:"max_tokens,omitempty"`

	// Timeout is the per-attempt budget
	Timeout time.Duration `json:"-"`

	// RequestID is shared across every attempt of one logical call
	RequestID string `json:"request_id"`

	// Attempt is the zero-based fallback index of this invocation
	Attempt int `json:"attempt"`

	// Workspace is an optional directory context for local backends
	Workspace string `json:"workspace,omitempty"`
}

// Response is the normalized result of a completion call.
type Response struct {
	// Text is the completion content
	Text string `json:"text"`

	// Raw is the backend payload, kept for tracing and debugging
	Raw map[string]any `json:"raw,omitempty"`

	// Usage statistics reported by the backend
	Usage Usage `json:"usage"`

	// RequestID echoes the request that produced this response
	RequestID string `json:"request_id"`

	// Model that actually served the completion
	Model string `json:"model"`

	// Provider adapter name that handled the request
	Provider string `json:"provider"`
}

// Settings holds the opaque backend-specific configuration of one provider
// entry (everything under the entry except its type discriminator).
type Settings map[string]any

// String returns the string value for key, or def when absent or not a string.
func (s Settings) String(key, def string) string {
	if v, ok := s[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// Bool returns the boolean value for key, false when absent or not a bool.
func (s Settings) Bool(key string) bool {
	if v, ok := s[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Float returns the numeric value for key, or def when absent.
func (s Settings) Float(key string, def float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// Merge returns a copy of s with overrides applied on top. The receiver is
// never mutated, so stored provider configuration stays immutable even when
// a routing policy supplies per-call provider overrides.
func (s Settings) Merge(overrides map[string]any) Settings {
	merged := make(Settings, len(s)+len(overrides))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Provider is the capability contract every backend satisfies. Remote HTTP
// APIs, local subprocess CLIs, and the deterministic mock are
// indistinguishable to the orchestrator through this interface.
type Provider interface {
	// Name returns the stable adapter name (e.g. "openrouter_http")
	Name() string

	// Types returns the configuration type discriminators this adapter
	// answers to. Multiple discriminators may alias one implementation.
	Types() []string

	// ValidateConfig fails fast, before any network or process work, when
	// required settings keys are missing or invalid.
	ValidateConfig(settings Settings) error

	// Complete executes one completion attempt. Failures are returned as a
	// *Error already classified into the failure taxonomy.
	Complete(ctx context.Context, req *Request, settings Settings) (*Response, error)
}
