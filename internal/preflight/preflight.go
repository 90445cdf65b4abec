package preflight

import (
	"context"

	"crosstalk/internal/config"
	"crosstalk/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config: external
// binaries, directory access, free disk space and engine credentials.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	_ = ctx

	var results []Result
	for _, status := range deps.CheckBinaries(deps.Requirements()) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Command}
		if !status.Available {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}

	results = append(results,
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckFreeSpace("Output free space", cfg.Paths.OutputDir, MinFreeBytes),
		CheckHFToken(cfg.Diarization.HFToken),
	)
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
