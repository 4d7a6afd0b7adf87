package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leebase/lee-llm-router/providers"
)

func TestLocalFileTraceStore_Write(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalFileTraceStore(dir)

	trace := &TraceRecord{
		RequestID: "req-123",
		Role:      "planner",
		Provider:  "openrouter_http",
		Model:     "gpt-4o",
		Attempt:   1,
		StartedAt: time.Now().UTC(),
		ElapsedMS: 42.5,
		Usage:     map[string]int{"total_tokens": 10},
	}

	require.NoError(t, store.Write(trace))

	dateDir := filepath.Join(dir, time.Now().UTC().Format("20060102"))
	path := filepath.Join(dateDir, "req-123-1-openrouter_http.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got TraceRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "req-123", got.RequestID)
	assert.Equal(t, "planner", got.Role)
	assert.Equal(t, 1, got.Attempt)
	assert.Equal(t, 42.5, got.ElapsedMS)
	assert.Equal(t, 10, got.Usage["total_tokens"])
}

func TestLocalFileTraceStore_SlugsProviderName(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalFileTraceStore(dir)

	trace := &TraceRecord{
		RequestID: "req-9",
		Provider:  "org/model-gateway",
		StartedAt: time.Now().UTC(),
	}

	require.NoError(t, store.Write(trace))

	dateDir := filepath.Join(dir, time.Now().UTC().Format("20060102"))
	_, err := os.Stat(filepath.Join(dateDir, "req-9-0-org_model-gateway.json"))
	assert.NoError(t, err)
}

func TestStartTrace(t *testing.T) {
	req := &providers.Request{
		RequestID: "req-7",
		Role:      "extractor",
		Model:     "gpt-4o-mini",
		Attempt:   2,
		Workspace: "/tmp/ws",
	}

	trace := StartTrace(req, "mock")

	assert.Equal(t, "req-7", trace.RequestID)
	assert.Equal(t, "extractor", trace.Role)
	assert.Equal(t, "mock", trace.Provider)
	assert.Equal(t, 2, trace.Attempt)
	assert.Equal(t, "/tmp/ws", trace.Workspace)
	assert.False(t, trace.StartedAt.IsZero())
}

func TestTraceRecord_RecordOutcomes(t *testing.T) {
	trace := &TraceRecord{RequestID: "req-8"}

	trace.RecordSuccess(&providers.Response{
		Usage: providers.Usage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7},
	}, 1500*time.Millisecond)

	assert.Equal(t, 1500.0, trace.ElapsedMS)
	assert.Equal(t, 7, trace.Usage["total_tokens"])
	assert.Empty(t, trace.FailureKind)

	perr := providers.NewError(providers.FailureRateLimit, "slow down")
	trace.RecordError(perr, 10*time.Millisecond)

	assert.Equal(t, "RATE_LIMIT", trace.FailureKind)
	assert.Contains(t, trace.Error, "slow down")
}
