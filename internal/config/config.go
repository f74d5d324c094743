// Package config is the ambient configuration layer: built-in defaults,
// optionally overridden by a project .watchclang.kdl file, in turn
// overridden by CLI flags. Modeled on the teacher's internal/config
// (defaults struct + KDL file layered underneath explicit overrides).
package config

import "runtime"

// Config holds every tunable the watcher reads before a run starts.
// Concurrency == 0 means serial, in-process execution (component F);
// ConcurrencyAuto, when true, means hardware concurrency was requested
// and Concurrency already holds the resolved value.
type Config struct {
	Concurrency     int
	ConcurrencyAuto bool

	DedupEnabled bool
	ColorEnabled bool

	// GraphEdgeLimit is the default -l value; 0 means unlimited.
	GraphEdgeLimit int

	WatchDebounceMs int

	// IsystemC and IsystemCXX are the built-in extra -isystem
	// directories tried once on include-not-found auto-recovery
	// (spec.md §4.E step 5).
	IsystemC   string
	IsystemCXX string
}

// Default returns the built-in configuration used when no .watchclang.kdl
// is present and no CLI flag overrides a field.
func Default() *Config {
	return &Config{
		Concurrency:     runtime.NumCPU(),
		ConcurrencyAuto: true,
		DedupEnabled:    true,
		ColorEnabled:    true,
		GraphEdgeLimit:  0,
		WatchDebounceMs: 50,
		IsystemC:        "/usr/lib/watchclang/include/c",
		IsystemCXX:      "/usr/lib/watchclang/include/c++",
	}
}

// IsystemTable returns the {language: directory} map handed to
// internal/clangfe for include auto-recovery.
func (c *Config) IsystemTable() map[string]string {
	return map[string]string{
		"c":   c.IsystemC,
		"c++": c.IsystemCXX,
	}
}

// Override carries CLI-flag-derived values that should win over whatever
// Default() or a KDL file produced. A nil field means "not specified on
// the command line".
type Override struct {
	Concurrency     *int
	ConcurrencyAuto bool
	DedupEnabled    *bool
	ColorEnabled    *bool
	GraphEdgeLimit  *int
}

// Merge overlays override's set fields onto a copy of c, giving CLI flags
// precedence over whatever Default()/a loaded KDL file produced.
func (c *Config) Merge(override *Override) *Config {
	merged := *c
	if override == nil {
		return &merged
	}
	if override.Concurrency != nil {
		merged.Concurrency = *override.Concurrency
		merged.ConcurrencyAuto = false
	}
	if override.ConcurrencyAuto {
		merged.Concurrency = runtime.NumCPU()
		merged.ConcurrencyAuto = true
	}
	if override.DedupEnabled != nil {
		merged.DedupEnabled = *override.DedupEnabled
	}
	if override.ColorEnabled != nil {
		merged.ColorEnabled = *override.ColorEnabled
	}
	if override.GraphEdgeLimit != nil {
		merged.GraphEdgeLimit = *override.GraphEdgeLimit
	}
	return &merged
}
