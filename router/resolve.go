package router

import (
	"time"

	"github.com/google/uuid"
	"github.com/leebase/lee-llm-router/config"
	"github.com/leebase/lee-llm-router/providers"
	"github.com/leebase/lee-llm-router/routing"
)

// resolveRole looks a role up by name, falling back to the snapshot's default
// role. A miss on both is a configuration error, never a taxonomy failure.
func (r *Router) resolveRole(role string) (config.RoleConfig, error) {
	if rcfg, ok := r.snap.Roles[role]; ok {
		return rcfg, nil
	}
	if rcfg, ok := r.snap.Roles[r.snap.DefaultRole]; ok {
		return rcfg, nil
	}
	return config.RoleConfig{}, config.NewConfigError(
		"role %q not found and default role %q also missing", role, r.snap.DefaultRole)
}

// buildRequest merges role defaults, policy request overrides, and per-call
// overrides into a concrete request. Precedence: per-call beats policy beats
// role config. Pure except for the generated request id.
func (r *Router) buildRequest(role string, messages []providers.Message, rcfg config.RoleConfig, policyOv routing.Overrides, callOv *routing.Overrides) *providers.Request {
	req := &providers.Request{
		Role:        role,
		Messages:    r.compress(messages),
		Model:       rcfg.Model,
		Temperature: rcfg.Temperature,
		JSONMode:    rcfg.JSONMode,
		MaxTokens:   rcfg.MaxTokens,
		Timeout:     time.Duration(rcfg.Timeout * float64(time.Second)),
		RequestID:   uuid.NewString(),
		Workspace:   r.workspace,
	}

	applyOverrides(req, policyOv)
	if callOv != nil {
		applyOverrides(req, *callOv)
	}
	return req
}

func applyOverrides(req *providers.Request, ov routing.Overrides) {
	if ov.Model != nil {
		req.Model = *ov.Model
	}
	if ov.Temperature != nil {
		req.Temperature = *ov.Temperature
	}
	if ov.JSONMode != nil {
		req.JSONMode = *ov.JSONMode
	}
	if ov.MaxTokens != nil {
		req.MaxTokens = *ov.MaxTokens
	}
	if ov.Timeout != nil {
		req.Timeout = *ov.Timeout
	}
}

// candidateProviders builds the attempt order: the policy choice first, then
// the role's fallback chain with any duplicate of the policy choice removed,
// original order otherwise preserved.
func candidateProviders(choice string, rcfg config.RoleConfig) []string {
	candidates := make([]string, 0, 1+len(rcfg.FallbackProviders))
	candidates = append(candidates, choice)
	for _, fb := range rcfg.FallbackProviders {
		if fb == choice {
			continue
		}
		candidates = append(candidates, fb)
	}
	return candidates
}
