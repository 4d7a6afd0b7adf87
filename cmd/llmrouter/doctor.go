package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/leebase/lee-llm-router/config"
	"github.com/leebase/lee-llm-router/providers"
	"github.com/leebase/lee-llm-router/router"
)

// checkConfig validates a config file and its environment. Errors are
// blocking; warnings are informational.
func checkConfig(configPath, role string) (errs, warns []string) {
	snap, err := config.Load(configPath)
	if err != nil {
		return []string{fmt.Sprintf("config invalid: %v", err)}, nil
	}

	registry := router.DefaultRegistry()

	for pname, pcfg := range snap.Providers {
		impl, err := registry.Get(pcfg.Type)
		if err != nil {
			warns = append(warns, fmt.Sprintf("provider %q: unknown type %q, cannot validate", pname, pcfg.Type))
			continue
		}
		if err := impl.ValidateConfig(pcfg.Settings); err != nil {
			errs = append(errs, fmt.Sprintf("provider %q: %v", pname, err))
			continue
		}

		switch pcfg.Type {
		case "openrouter_http", "openai_http":
			if env := pcfg.Settings.String("api_key_env", ""); env != "" && os.Getenv(env) == "" {
				errs = append(errs, fmt.Sprintf("provider %q: env var %q is not set", pname, env))
			}
			if pcfg.Settings.String("base_url", "") == "" {
				warns = append(warns, fmt.Sprintf("provider %q: base_url not set, will use default", pname))
			}
		case "codex_cli":
			command := pcfg.Settings.String("command", "codex")
			if _, err := exec.LookPath(command); err != nil {
				errs = append(errs, fmt.Sprintf("provider %q: binary %q not found in PATH", pname, command))
			}
		}
	}

	// Dry-run against the mock adapter to prove the contract plumbing works.
	if role == "" {
		role = snap.DefaultRole
	}
	mockImpl, err := registry.Get("mock")
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req := &providers.Request{
			Role:      role,
			Messages:  []providers.Message{{Role: "user", Content: "doctor dry-run"}},
			RequestID: "doctor",
		}
		if _, err := mockImpl.Complete(ctx, req, providers.Settings{}); err != nil {
			errs = append(errs, fmt.Sprintf("dry-run failed for role %q: %v", role, err))
		}
	}

	return errs, warns
}

func runDoctor(configPath, role string) int {
	fmt.Printf("lee-llm-router doctor\nConfig: %s\n\n", configPath)

	errs, warns := checkConfig(configPath, role)

	for _, w := range warns {
		fmt.Printf("  WARN  %s\n", w)
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  FAIL  %s\n", e)
	}

	switch {
	case len(errs) == 0 && len(warns) == 0:
		fmt.Println("  OK    all checks passed")
	case len(errs) == 0:
		fmt.Printf("\n  OK    %d warning(s), no blocking errors\n", len(warns))
	default:
		fmt.Fprintf(os.Stderr, "\nStatus: %d error(s) found\n", len(errs))
		return 1
	}
	return 0
}
