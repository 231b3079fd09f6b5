package preflight

import (
	"assetgen/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

var kinds = []struct {
	key   string
	title string
}{
	{"image", "Image"},
	{"sound", "Sound"},
	{"font", "Font"},
}

// RunAll executes the filesystem checks for every asset kind.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, kind := range kinds {
		results = append(results,
			CheckFile(kind.title+" manifest", cfg.ManifestPath(kind.key)),
			CheckDirectoryAccess(kind.title+" sources", cfg.SourceDir(kind.key), false),
			CheckOutputDirectory(kind.title+" output", cfg.OutputDir(kind.key)),
		)
	}
	return results
}
