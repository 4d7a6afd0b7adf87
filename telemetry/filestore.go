package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTraceDir is used when no trace directory is configured.
const DefaultTraceDir = ".lee-llm-router/traces"

// LocalFileTraceStore writes trace records as JSON files under
// <dir>/YYYYMMDD/<request_id>-<attempt>-<provider>.json.
type LocalFileTraceStore struct {
	dir string
}

// NewLocalFileTraceStore creates a file store rooted at dir; an empty dir
// selects DefaultTraceDir.
func NewLocalFileTraceStore(dir string) *LocalFileTraceStore {
	if dir == "" {
		dir = DefaultTraceDir
	}
	return &LocalFileTraceStore{dir: dir}
}

// Write implements TraceStore.
func (s *LocalFileTraceStore) Write(trace *TraceRecord) error {
	outDir := filepath.Join(s.dir, time.Now().UTC().Format("20060102"))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}

	provider := trace.Provider
	if provider == "" {
		provider = "provider"
	}
	provider = strings.ReplaceAll(provider, "/", "_")

	name := fmt.Sprintf("%s-%d-%s.json", trace.RequestID, trace.Attempt, provider)

	data, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal trace record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write trace file: %w", err)
	}
	return nil
}
