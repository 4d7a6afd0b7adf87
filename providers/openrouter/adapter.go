// Package openrouter implements the remote HTTP backend for OpenRouter and
// other OpenAI-compatible chat completion APIs.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/leebase/lee-llm-router/providers"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
)

// Adapter is the OpenAI-compatible HTTP provider. One instance serves both
// the "openrouter_http" and "openai_http" configuration types.
type Adapter struct {
	httpClient *http.Client
}

// New creates an HTTP adapter. Per-attempt deadlines come from the request
// context, so the underlying client carries no timeout of its own.
func New() *Adapter {
	return &Adapter{httpClient: &http.Client{}}
}

// NewWithClient creates an adapter using a caller-supplied HTTP client.
func NewWithClient(client *http.Client) *Adapter {
	return &Adapter{httpClient: client}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "openrouter_http"
}

// Types returns the configuration discriminators this adapter answers to.
func (a *Adapter) Types() []string {
	return []string{"openrouter_http", "openai_http"}
}

// ValidateConfig requires base_url and api_key_env before any network work.
func (a *Adapter) ValidateConfig(settings providers.Settings) error {
	for _, key := range []string{"base_url", "api_key_env"} {
		if _, ok := settings[key]; !ok {
			return fmt.Errorf("http provider missing required config key: %q", key)
		}
	}
	return nil
}

// chatPayload is the outgoing /chat/completions request body.
type chatPayload struct {
	Model          string              `json:"model"`
	Messages       []providers.Message `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the subset of the /chat/completions body the adapter needs.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message providers.Message `json:"message"`
	} `json:"choices"`
	Usage providers.Usage `json:"usage"`
}

// Complete posts the request to <base_url>/chat/completions and normalizes
// the result. HTTP 429 maps to RATE_LIMIT, other 4xx/5xx to PROVIDER_ERROR,
// unparseable bodies to INVALID_RESPONSE.
func (a *Adapter) Complete(ctx context.Context, req *providers.Request, settings providers.Settings) (*providers.Response, error) {
	baseURL := settings.String("base_url", defaultBaseURL)
	apiKeyEnv := settings.String("api_key_env", "OPENROUTER_API_KEY")
	apiKey := os.Getenv(apiKeyEnv)

	payload := chatPayload{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, providers.WrapError(providers.FailureProviderError, "failed to marshal request payload", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, providers.WrapError(providers.FailureProviderError, "failed to create http request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	if headers, ok := settings["headers"].(map[string]any); ok {
		for k, v := range headers {
			if s, ok := v.(string); ok {
				httpReq.Header.Set(k, s)
			}
		}
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, providers.WrapError(providers.FailureTimeout,
				fmt.Sprintf("request timed out after %s", req.Timeout), err)
		case errors.Is(err, context.Canceled):
			return nil, providers.WrapError(providers.FailureCancelled, "request cancelled", err)
		default:
			return nil, providers.WrapError(providers.FailureProviderError, "http request failed", err)
		}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providers.WrapError(providers.FailureProviderError, "failed to read response body", err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, providers.NewError(providers.FailureRateLimit, "rate limited by provider")
	}
	if httpResp.StatusCode >= 400 {
		return nil, providers.NewError(providers.FailureProviderError,
			fmt.Sprintf("provider returned HTTP %d: %s", httpResp.StatusCode, truncate(string(respBody), 200)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, providers.WrapError(providers.FailureInvalidResponse, "failed to decode response body", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, providers.NewError(providers.FailureInvalidResponse, "response contains no choices")
	}

	var raw map[string]any
	_ = json.Unmarshal(respBody, &raw)

	model := parsed.Model
	if model == "" {
		model = req.Model
	}

	return &providers.Response{
		Text:      parsed.Choices[0].Message.Content,
		Raw:       raw,
		Usage:     parsed.Usage,
		RequestID: req.RequestID,
		Model:     model,
		Provider:  a.Name(),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
