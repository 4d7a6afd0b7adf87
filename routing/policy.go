// Package routing defines the pluggable provider-selection policy. A policy
// is a pure decision function: given a role name and the configuration
// snapshot it returns which provider should serve the call and which
// overrides apply. The default policy preserves the role's static
// configuration.
package routing

import (
	"time"

	"github.com/leebase/lee-llm-router/config"
)

// Overrides carries request-field overrides. The vocabulary is exactly the
// RoleConfig request parameters; nil fields leave the resolved value alone.
type Overrides struct {
	Model       *string
	Temperature *float64
	JSONMode    *bool
	MaxTokens   *int
	Timeout     *time.Duration
}

// Choice is the result of a policy decision: the chosen provider plus two
// independent override maps. Request overrides change outgoing request
// fields; provider overrides layer onto the chosen provider's own settings.
// The two never collide; changing request-level behavior requires no
// knowledge of provider-internal settings.
type Choice struct {
	// Provider is the chosen provider key in the snapshot
	Provider string

	// RequestOverrides adjust resolved request fields
	RequestOverrides Overrides

	// ProviderOverrides layer onto the provider's stored settings for this
	// call only; the stored configuration is never mutated
	ProviderOverrides map[string]any
}

// Policy selects the provider serving a role. Implementations must be pure
// with respect to visible effects: same role and snapshot, same choice.
type Policy interface {
	Choose(role string, snap *config.Snapshot) (Choice, error)
}

// StaticPolicy is the default policy: use the role's statically configured
// provider with no overrides. When the requested role is absent it falls
// back to the snapshot's default role, matching the role resolver.
type StaticPolicy struct{}

// Choose implements Policy.
func (StaticPolicy) Choose(role string, snap *config.Snapshot) (Choice, error) {
	rcfg, ok := snap.Roles[role]
	if !ok {
		rcfg, ok = snap.Roles[snap.DefaultRole]
	}
	if !ok {
		return Choice{}, config.NewConfigError(
			"no role config for %q and default role %q also missing", role, snap.DefaultRole)
	}
	return Choice{Provider: rcfg.Provider}, nil
}
