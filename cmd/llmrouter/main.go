// Command llmrouter bundles diagnostic tools for router deployments:
//
//	llmrouter doctor --config <path> [--role <role>]   validate config + environment
//	llmrouter template                                  print example config YAML
//	llmrouter trace [--dir <dir>] [--last <n>]          summarize recent traces
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "doctor":
		fs := flag.NewFlagSet("doctor", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config YAML (required)")
		role := fs.String("role", "", "role to dry-run (default: config default_role)")
		_ = fs.Parse(os.Args[2:])
		if *configPath == "" {
			fmt.Fprintln(os.Stderr, "doctor: --config is required")
			os.Exit(2)
		}
		os.Exit(runDoctor(*configPath, *role))

	case "template":
		fmt.Print(configTemplate)

	case "trace":
		fs := flag.NewFlagSet("trace", flag.ExitOnError)
		dir := fs.String("dir", "", "trace directory (default: .lee-llm-router/traces)")
		last := fs.Int("last", 10, "number of traces to show")
		_ = fs.Parse(os.Args[2:])
		os.Exit(runTrace(*dir, *last))

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: llmrouter <doctor|template|trace> [flags]")
}

const configTemplate = `llm:
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
      temperature: 0.2
      timeout: 60
      fallback_providers: [codex]
    extractor:
      provider: openrouter
      model: gpt-4o-mini
      json_mode: true
      fallback_providers: [mock]
`
