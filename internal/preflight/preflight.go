package preflight

import (
	"gamecatalog/internal/config"
)

// MinFreeBytes is the free space required in the screenshots directory before
// files are rewritten.
const MinFreeBytes uint64 = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Screenshots directory", cfg.Paths.ScreenshotsDir),
		CheckFreeSpace("Screenshots free space", cfg.Paths.ScreenshotsDir, MinFreeBytes),
	}
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
