package telemetry

import (
	"time"

	"github.com/leebase/lee-llm-router/providers"
)

// TraceRecord captures one provider attempt from start to outcome. One
// logical call with N fallbacks produces N+1 records sharing a request id.
type TraceRecord struct {
	RequestID   string         `json:"request_id"`
	Role        string         `json:"role"`
	Provider    string         `json:"provider"`
	Model       string         `json:"model"`
	Attempt     int            `json:"attempt"`
	StartedAt   time.Time      `json:"started_at"`
	Workspace   string         `json:"workspace,omitempty"`
	ElapsedMS   float64        `json:"elapsed_ms"`
	FailureKind string         `json:"failure_kind,omitempty"`
	Error       string         `json:"error,omitempty"`
	Usage       map[string]int `json:"usage,omitempty"`
}

// TraceStore persists completed trace records. Stores are best-effort from
// the router's perspective: a write failure is logged, never surfaced.
type TraceStore interface {
	Write(trace *TraceRecord) error
}

// StartTrace creates a record for one attempt against one provider.
func StartTrace(req *providers.Request, provider string) *TraceRecord {
	return &TraceRecord{
		RequestID: req.RequestID,
		Role:      req.Role,
		Provider:  provider,
		Model:     req.Model,
		Attempt:   req.Attempt,
		StartedAt: time.Now().UTC(),
		Workspace: req.Workspace,
	}
}

// RecordSuccess fills the record for a successful attempt.
func (t *TraceRecord) RecordSuccess(resp *providers.Response, elapsed time.Duration) {
	t.ElapsedMS = float64(elapsed.Microseconds()) / 1000.0
	t.Usage = map[string]int{
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	}
}

// RecordError fills the record for a failed attempt.
func (t *TraceRecord) RecordError(perr *providers.Error, elapsed time.Duration) {
	t.ElapsedMS = float64(elapsed.Microseconds()) / 1000.0
	t.FailureKind = string(perr.Kind)
	t.Error = perr.Error()
}
