// Package cliexec implements the local subprocess backend: it shells out to
// a completion CLI (the Codex CLI by default) and returns its stdout.
package cliexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/leebase/lee-llm-router/providers"
)

const (
	defaultCommand    = "codex"
	defaultModelFlag  = "--model"
	defaultOutputFlag = "--output-last-message"
)

// Adapter invokes a CLI binary per completion request.
type Adapter struct{}

// New creates a CLI adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "codex_cli"
}

// Types returns the configuration discriminators this adapter answers to.
func (a *Adapter) Types() []string {
	return []string{"codex_cli"}
}

// ValidateConfig requires the command setting before any process work.
func (a *Adapter) ValidateConfig(settings providers.Settings) error {
	if _, ok := settings["command"]; !ok {
		return fmt.Errorf("codex_cli provider missing required config key: %q", "command")
	}
	return nil
}

// Complete runs the configured binary with the last user message as prompt.
// A non-zero exit is PROVIDER_ERROR, empty stdout is INVALID_RESPONSE, and
// a context deadline is TIMEOUT.
func (a *Adapter) Complete(ctx context.Context, req *providers.Request, settings providers.Settings) (*providers.Response, error) {
	command := settings.String("command", defaultCommand)
	modelFlag := settings.String("model_flag", defaultModelFlag)
	outputFlag := settings.String("output_flag", defaultOutputFlag)

	var prompt string
	for _, m := range req.Messages {
		if m.Role == "user" {
			prompt = m.Content
		}
	}

	args := make([]string, 0, 4)
	if req.Model != "" && modelFlag != "" {
		args = append(args, modelFlag, req.Model)
	}
	if outputFlag != "" {
		args = append(args, outputFlag)
	}
	args = append(args, prompt)

	cmd := exec.CommandContext(ctx, command, args...)
	if req.Workspace != "" {
		cmd.Dir = req.Workspace
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, providers.WrapError(providers.FailureTimeout,
				fmt.Sprintf("%s timed out after %s", command, req.Timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, providers.WrapError(providers.FailureCancelled, "request cancelled", err)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, providers.NewError(providers.FailureProviderError,
				fmt.Sprintf("%s exited %d: %s", command, exitErr.ExitCode(), truncate(stderr.String(), 200)))
		}
		return nil, providers.WrapError(providers.FailureProviderError,
			fmt.Sprintf("failed to run %q", command), err)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return nil, providers.NewError(providers.FailureInvalidResponse,
			fmt.Sprintf("%s returned empty output", command))
	}

	return &providers.Response{
		Text: text,
		Raw: map[string]any{
			"stdout": stdout.String(),
			"stderr": stderr.String(),
		},
		// CLIs report no token counters
		Usage:     providers.Usage{},
		RequestID: req.RequestID,
		Model:     req.Model,
		Provider:  a.Name(),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
