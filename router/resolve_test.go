package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leebase/lee-llm-router/config"
	"github.com/leebase/lee-llm-router/providers"
	"github.com/leebase/lee-llm-router/routing"
)

func resolverRouter(t *testing.T) *Router {
	t.Helper()
	snap := &config.Snapshot{
		DefaultRole: "planner",
		Providers: map[string]config.ProviderConfig{
			"a": {Name: "a", Type: "mock", Settings: providers.Settings{}},
		},
		Roles: map[string]config.RoleConfig{
			"planner": {
				Name: "planner", Provider: "a", Model: "base-model",
				Temperature: 0.3, Timeout: 45, MaxTokens: 100,
			},
		},
	}
	r, err := New(snap, WithTraceDir(t.TempDir()))
	require.NoError(t, err)
	return r
}

func TestResolveRole_UnknownFallsBackToDefault(t *testing.T) {
	r := resolverRouter(t)

	rcfg, err := r.resolveRole("missing")

	require.NoError(t, err)
	assert.Equal(t, "planner", rcfg.Name)
}

func TestResolveRole_MissingDefaultIsConfigError(t *testing.T) {
	r := resolverRouter(t)
	r.snap.DefaultRole = "ghost"

	_, err := r.resolveRole("missing")

	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestBuildRequest_OverridePrecedence(t *testing.T) {
	r := resolverRouter(t)
	rcfg := r.snap.Roles["planner"]
	messages := []providers.Message{{Role: "user", Content: "hi"}}

	policyModel := "policy-model"
	policyTemp := 0.9
	callModel := "call-model"

	policyOv := routing.Overrides{Model: &policyModel, Temperature: &policyTemp}
	callOv := &routing.Overrides{Model: &callModel}

	req := r.buildRequest("planner", messages, rcfg, policyOv, callOv)

	// per-call beats policy, policy beats role defaults
	assert.Equal(t, "call-model", req.Model)
	assert.Equal(t, 0.9, req.Temperature)
	assert.Equal(t, 100, req.MaxTokens)
	assert.Equal(t, 45*time.Second, req.Timeout)
}

func TestBuildRequest_RoleDefaultsWhenNoOverrides(t *testing.T) {
	r := resolverRouter(t)
	rcfg := r.snap.Roles["planner"]

	req := r.buildRequest("planner", nil, rcfg, routing.Overrides{}, nil)

	assert.Equal(t, "base-model", req.Model)
	assert.Equal(t, 0.3, req.Temperature)
	assert.False(t, req.JSONMode)
	assert.NotEmpty(t, req.RequestID)
}

func TestBuildRequest_IdempotentExceptRequestID(t *testing.T) {
	r := resolverRouter(t)
	rcfg := r.snap.Roles["planner"]
	messages := []providers.Message{{Role: "user", Content: "same"}}
	temp := 0.5
	ov := &routing.Overrides{Temperature: &temp}

	first := r.buildRequest("planner", messages, rcfg, routing.Overrides{}, ov)
	second := r.buildRequest("planner", messages, rcfg, routing.Overrides{}, ov)

	assert.NotEqual(t, first.RequestID, second.RequestID)

	first.RequestID, second.RequestID = "", ""
	assert.Equal(t, first, second)
}

func TestCandidateProviders(t *testing.T) {
	tests := []struct {
		name      string
		choice    string
		fallbacks []string
		want      []string
	}{
		{
			name:      "choice plus fallbacks",
			choice:    "a",
			fallbacks: []string{"b", "c"},
			want:      []string{"a", "b", "c"},
		},
		{
			name:      "duplicate of choice removed",
			choice:    "b",
			fallbacks: []string{"a", "b", "c"},
			want:      []string{"b", "a", "c"},
		},
		{
			name:   "no fallbacks",
			choice: "a",
			want:   []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rcfg := config.RoleConfig{FallbackProviders: tt.fallbacks}
			assert.Equal(t, tt.want, candidateProviders(tt.choice, rcfg))
		})
	}
}
