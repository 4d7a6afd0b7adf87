package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the on-disk YAML shape:
//
//	llm:
//	  default_role: planner
//	  providers:
//	    openrouter:
//	      type: openrouter_http
//	      base_url: https://openrouter.ai/api/v1
//	      api_key_env: OPENROUTER_API_KEY
//	  roles:
//	    planner:
//	      provider: openrouter
//	      model: gpt-4o
//	      temperature: 0.2
type fileConfig struct {
	LLM *llmSection `yaml:"llm" validate:"required"`
}

type llmSection struct {
	DefaultRole string               `yaml:"default_role" validate:"required"`
	Providers   map[string]yaml.Node `yaml:"providers" validate:"required,min=1"`
	Roles       map[string]yaml.Node `yaml:"roles" validate:"required,min=1"`
}

// Load reads, parses, and validates a config file into a Snapshot. A .env
// file next to the process is loaded first so api_key_env style indirections
// resolve. All failures are ConfigError.
func Load(path string) (*Snapshot, error) {
	// Best effort; providers read their key env vars at call time.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("config file not found: %s", path), Err: err}
	}
	return Parse(data)
}

// Parse builds a Snapshot from raw YAML bytes.
func Parse(data []byte) (*Snapshot, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, &ConfigError{Message: "invalid YAML", Err: err}
	}
	if fc.LLM == nil {
		return nil, NewConfigError("config must have a top-level %q key", "llm")
	}

	if err := validator.New().Struct(&fc); err != nil {
		return nil, &ConfigError{Message: "config failed validation", Err: err}
	}

	snap := &Snapshot{
		DefaultRole: fc.LLM.DefaultRole,
		Providers:   make(map[string]ProviderConfig, len(fc.LLM.Providers)),
		Roles:       make(map[string]RoleConfig, len(fc.LLM.Roles)),
	}

	for pname, node := range fc.LLM.Providers {
		pcfg, err := decodeProvider(pname, node)
		if err != nil {
			return nil, err
		}
		snap.Providers[pname] = pcfg
	}

	for rname, node := range fc.LLM.Roles {
		rcfg, err := decodeRole(rname, node)
		if err != nil {
			return nil, err
		}
		snap.Roles[rname] = rcfg
	}

	if err := Validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// decodeProvider splits a provider mapping into its type discriminator and
// the remaining opaque settings.
func decodeProvider(name string, node yaml.Node) (ProviderConfig, error) {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return ProviderConfig{}, &ConfigError{Message: fmt.Sprintf("provider %q is not a mapping", name), Err: err}
	}

	typeName, ok := raw["type"].(string)
	if !ok || typeName == "" {
		return ProviderConfig{}, NewConfigError("provider %q missing required field: type", name)
	}
	delete(raw, "type")

	return ProviderConfig{Name: name, Type: typeName, Settings: raw}, nil
}

// decodeRole decodes a role mapping, applying defaults for absent fields.
func decodeRole(name string, node yaml.Node) (RoleConfig, error) {
	rcfg := RoleConfig{
		Name:        name,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
	if err := node.Decode(&rcfg); err != nil {
		return RoleConfig{}, &ConfigError{Message: fmt.Sprintf("role %q is not a valid mapping", name), Err: err}
	}
	if rcfg.Provider == "" {
		return RoleConfig{}, NewConfigError("role %q missing required field: provider", name)
	}
	return rcfg, nil
}
