package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/leebase/lee-llm-router/telemetry"
)

// runTrace prints a one-line summary per recent trace file, newest first.
func runTrace(dir string, last int) int {
	if dir == "" {
		dir = telemetry.DefaultTraceDir
	}
	if _, err := os.Stat(dir); err != nil {
		fmt.Fprintf(os.Stderr, "no trace directory found: %s\n", dir)
		return 1
	}

	type traceFile struct {
		path    string
		modTime int64
	}
	var files []traceFile
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, traceFile{path: path, modTime: info.ModTime().UnixNano()})
		return nil
	})

	if len(files) == 0 {
		fmt.Println("no traces found")
		return 0
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime > files[j].modTime })
	if last < len(files) {
		files = files[:last]
	}

	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [could not read %s: %v]\n", f.path, err)
			continue
		}
		var tr telemetry.TraceRecord
		if err := json.Unmarshal(data, &tr); err != nil {
			fmt.Fprintf(os.Stderr, "  [could not parse %s: %v]\n", f.path, err)
			continue
		}

		status := "OK"
		if tr.Error != "" {
			status = "ERROR"
		}
		fmt.Printf("%-8.8s  %s  %-12s  %-20s  a%-5d  %-20s  %-6s  %.0fms\n",
			tr.RequestID,
			tr.StartedAt.Format("2006-01-02T15:04:05"),
			tr.Role,
			tr.Provider,
			tr.Attempt,
			tr.Model,
			status,
			tr.ElapsedMS)
	}
	return 0
}
