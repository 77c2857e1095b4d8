package preflight

import (
	"errors"
	"fmt"
	"strings"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Settings lists the paths a build needs.
type Settings struct {
	CompilerBinary string
	TempDir        string
	// OutputDir is optional; builds default to each source's directory.
	OutputDir string
}

// RunAll executes all applicable preflight checks.
func RunAll(settings Settings) []Result {
	results := []Result{
		CheckCompiler(settings.CompilerBinary),
		CheckTempDir(settings.TempDir),
	}
	if strings.TrimSpace(settings.OutputDir) != "" {
		results = append(results, CheckDirectoryAccess("Output directory", settings.OutputDir))
	}
	return results
}

// FirstFailure converts the first failed required result into an error.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if r.Passed || r.Optional {
			continue
		}
		return fmt.Errorf("%s: %s", r.Name, r.Detail)
	}
	return nil
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	return FirstFailure(results) != nil
}

var errNotConfigured = errors.New("not configured")
