// Package config defines the configuration snapshot the router consumes and
// the YAML loader that produces it. The snapshot is validated at load time
// and is read-only for the router's lifetime; the router core never parses
// files or environment variables itself.
package config

import (
	"fmt"

	"github.com/leebase/lee-llm-router/providers"
)

// Defaults applied when a role entry omits a field.
const (
	DefaultTemperature = 0.2
	DefaultTimeout     = 60.0
)

// ConfigError reports a missing, malformed, or referentially invalid
// configuration. It is always fatal and is never routed through the failure
// taxonomy.
type ConfigError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s (%v)", e.Message, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration error.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// ProviderConfig is one provider entry: a name, a type discriminator used to
// look the adapter up in the registry, and opaque backend-specific settings.
type ProviderConfig struct {
	Name     string
	Type     string
	Settings providers.Settings
}

// RoleConfig is one role entry: a named use case mapped to a provider and
// default request parameters. Timeout is in seconds, matching the file
// format.
type RoleConfig struct {
	Name              string    `yaml:"-"`
	Provider          string    `yaml:"provider"`
	Model             string    `yaml:"model"`
	Temperature       float64   `yaml:"temperature"`
	JSONMode          bool      `yaml:"json_mode"`
	MaxTokens         int       `yaml:"max_tokens"`
	Timeout           float64   `yaml:"timeout"`
	FallbackProviders []string  `yaml:"fallback_providers"`
}

// Snapshot is the complete, immutable configuration the router is built
// from. Every role's provider and fallback entries are guaranteed to
// reference existing provider keys once Validate has passed.
type Snapshot struct {
	DefaultRole string
	Providers   map[string]ProviderConfig
	Roles       map[string]RoleConfig
}

// Validate checks referential integrity: every role references an existing
// primary provider and every fallback entry names an existing provider.
// Violations are configuration errors, never deferred to call time.
func Validate(snap *Snapshot) error {
	if snap == nil {
		return NewConfigError("snapshot is nil")
	}
	if snap.DefaultRole == "" {
		return NewConfigError("missing required field: default_role")
	}
	if len(snap.Providers) == 0 {
		return NewConfigError("missing required field: providers")
	}
	if len(snap.Roles) == 0 {
		return NewConfigError("missing required field: roles")
	}

	for pname, pcfg := range snap.Providers {
		if pcfg.Type == "" {
			return NewConfigError("provider %q missing required field: type", pname)
		}
	}

	for rname, rcfg := range snap.Roles {
		if rcfg.Provider == "" {
			return NewConfigError("role %q missing required field: provider", rname)
		}
		if _, ok := snap.Providers[rcfg.Provider]; !ok {
			return NewConfigError("role %q references unknown provider: %q", rname, rcfg.Provider)
		}
		for _, fb := range rcfg.FallbackProviders {
			if _, ok := snap.Providers[fb]; !ok {
				return NewConfigError("role %q fallback references unknown provider: %q", rname, fb)
			}
		}
	}

	return nil
}
