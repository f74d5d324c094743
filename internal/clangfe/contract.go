// Package clangfe wraps the Clang front-end contract spec.md §1 treats
// as an external collaborator: parse(argv) → TU | error, TU → diagnostic
// set, TU → inclusion-walk(callback), file → real-path / system-header?.
// Only that slice of a full libclang binding is used here (component E).
package clangfe

import (
	"context"

	"github.com/helixhorned/ljclang-go/internal/diagfmt"
)

// ParseFlags selects the Clang translation-unit options this watcher
// cares about (spec.md §4.E).
type ParseFlags struct {
	DetailedPreprocessingRecord bool
	KeepGoing                   bool
	SkipFunctionBodies          bool
}

// Engine is the front-end entry point: parse(argv) → TU | error.
type Engine interface {
	Parse(ctx context.Context, argv []string, flags ParseFlags) (TranslationUnit, error)
}

// TranslationUnit is a successfully parsed TU: it exposes its diagnostics
// and lets the caller walk its inclusion graph.
type TranslationUnit interface {
	Diagnostics() []diagfmt.Diagnostic
	WalkInclusions(visit func(included File, stack []Location)) error
	Dispose()
}

// File is the file → real-path / system-header? contract.
type File interface {
	RealPath() (string, error)
	IsSystemHeader() bool
}

// Location is one source location on an inclusion-walk stack. The three
// "site" lookups must agree for any stack-top location reachable from a
// real #include; disagreement means the location points into a macro
// expansion, which component D treats as an assertion violation.
type Location interface {
	ExpansionSite() (File, error)
	SpellingSite() (File, error)
	FileSite() (File, error)
}
