// Package mock provides a deterministic stub backend for tests, CI, and
// config dry-runs. It performs no I/O; its behavior is driven entirely by
// provider settings.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/leebase/lee-llm-router/providers"
)

// Settings keys understood by the adapter. The raise_* switches force a
// classified failure; sleep_ms delays the response so timeout and
// cancellation paths can be exercised.
const (
	keyResponseText           = "response_text"
	keyRaiseTimeout           = "raise_timeout"
	keyRaiseRateLimit         = "raise_rate_limit"
	keyRaiseContractViolation = "raise_contract_violation"
	keySleepMS                = "sleep_ms"
)

// Adapter is the deterministic mock provider.
type Adapter struct{}

// New creates a mock adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "mock"
}

// Types returns the configuration discriminators this adapter answers to.
func (a *Adapter) Types() []string {
	return []string{"mock"}
}

// ValidateConfig always succeeds; the mock has no required settings.
func (a *Adapter) ValidateConfig(settings providers.Settings) error {
	return nil
}

// Complete returns configurable fixed text or a configured failure.
func (a *Adapter) Complete(ctx context.Context, req *providers.Request, settings providers.Settings) (*providers.Response, error) {
	if ms := settings.Float(keySleepMS, 0); ms > 0 {
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-ctx.Done():
			return nil, providers.Classify(ctx.Err())
		}
	}

	switch {
	case settings.Bool(keyRaiseTimeout):
		return nil, providers.NewError(providers.FailureTimeout, "mock timeout")
	case settings.Bool(keyRaiseContractViolation):
		return nil, providers.NewError(providers.FailureContractViolation, "mock contract violation")
	case settings.Bool(keyRaiseRateLimit):
		return nil, providers.NewError(providers.FailureRateLimit, "mock rate limit")
	}

	text := settings.String(keyResponseText, fmt.Sprintf("mock response for role=%s", req.Role))
	model := req.Model
	if model == "" {
		model = "mock-model"
	}

	return &providers.Response{
		Text:      text,
		Raw:       map[string]any{"mock": true, "role": req.Role},
		Usage:     providers.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		RequestID: req.RequestID,
		Model:     model,
		Provider:  a.Name(),
	}, nil
}
