package preflight

import (
	"path/filepath"
	"strings"

	"pulseqr/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The library directory is only checked when the library is enabled.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Log directory", cfg.Paths.LogDir)}
	if cfg.Library.Enabled {
		results = append(results, CheckDirectoryAccess("Library directory", filepath.Dir(cfg.Paths.LibraryDB)))
	}
	if out := strings.TrimSpace(cfg.Paths.OutputFile); out != "" {
		results = append(results, CheckOutputFile(out))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
