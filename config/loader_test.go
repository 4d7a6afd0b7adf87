package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
llm:
  default_role: planner
  providers:
    openrouter:
      type: openrouter_http
      base_url: https://openrouter.ai/api/v1
      api_key_env: OPENROUTER_API_KEY
    codex:
      type: codex_cli
      command: codex
    mock:
      type: mock
  roles:
    planner:
      provider: openrouter
      model: gpt-4o
      temperature: 0.7
      json_mode: true
      max_tokens: 2048
      timeout: 30
      fallback_providers: [codex, mock]
    extractor:
      provider: mock
`

func TestParse_Valid(t *testing.T) {
	snap, err := Parse([]byte(validYAML))

	require.NoError(t, err)
	assert.Equal(t, "planner", snap.DefaultRole)
	assert.Len(t, snap.Providers, 3)
	assert.Len(t, snap.Roles, 2)

	p := snap.Providers["openrouter"]
	assert.Equal(t, "openrouter", p.Name)
	assert.Equal(t, "openrouter_http", p.Type)
	assert.Equal(t, "https://openrouter.ai/api/v1", p.Settings.String("base_url", ""))
	assert.NotContains(t, p.Settings, "type")

	planner := snap.Roles["planner"]
	assert.Equal(t, "planner", planner.Name)
	assert.Equal(t, "openrouter", planner.Provider)
	assert.Equal(t, "gpt-4o", planner.Model)
	assert.Equal(t, 0.7, planner.Temperature)
	assert.True(t, planner.JSONMode)
	assert.Equal(t, 2048, planner.MaxTokens)
	assert.Equal(t, 30.0, planner.Timeout)
	assert.Equal(t, []string{"codex", "mock"}, planner.FallbackProviders)
}

func TestParse_RoleDefaults(t *testing.T) {
	snap, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	extractor := snap.Roles["extractor"]
	assert.Equal(t, DefaultTemperature, extractor.Temperature)
	assert.Equal(t, DefaultTimeout, extractor.Timeout)
	assert.False(t, extractor.JSONMode)
	assert.Zero(t, extractor.MaxTokens)
	assert.Empty(t, extractor.FallbackProviders)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "not yaml",
			yaml: "{{{{",
		},
		{
			name: "missing llm key",
			yaml: "other: {}",
		},
		{
			name: "missing default_role",
			yaml: `
llm:
  providers:
    mock: {type: mock}
  roles:
    r: {provider: mock}
`,
		},
		{
			name: "missing providers",
			yaml: `
llm:
  default_role: r
  roles:
    r: {provider: mock}
`,
		},
		{
			name: "missing roles",
			yaml: `
llm:
  default_role: r
  providers:
    mock: {type: mock}
`,
		},
		{
			name: "provider missing type",
			yaml: `
llm:
  default_role: r
  providers:
    mock: {command: x}
  roles:
    r: {provider: mock}
`,
		},
		{
			name: "role missing provider",
			yaml: `
llm:
  default_role: r
  providers:
    mock: {type: mock}
  roles:
    r: {model: m}
`,
		},
		{
			name: "role references unknown provider",
			yaml: `
llm:
  default_role: r
  providers:
    mock: {type: mock}
  roles:
    r: {provider: nope}
`,
		},
		{
			name: "fallback references unknown provider",
			yaml: `
llm:
  default_role: r
  providers:
    mock: {type: mock}
  roles:
    r:
      provider: mock
      fallback_providers: [ghost]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))

			require.Error(t, err)
			var cerr *ConfigError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	snap, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "planner", snap.DefaultRole)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestValidate_HandBuiltSnapshot(t *testing.T) {
	snap := &Snapshot{
		DefaultRole: "r",
		Providers:   map[string]ProviderConfig{"mock": {Name: "mock", Type: "mock"}},
		Roles:       map[string]RoleConfig{"r": {Name: "r", Provider: "mock"}},
	}

	assert.NoError(t, Validate(snap))

	snap.Roles["bad"] = RoleConfig{Name: "bad", Provider: "ghost"}
	assert.Error(t, Validate(snap))
}
