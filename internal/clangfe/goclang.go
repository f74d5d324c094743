//go:build cgo

// This file provides the concrete Clang front-end (Engine/TranslationUnit)
// backed by github.com/go-clang/v3.9/clang, the same cgo libclang binding
// used by the retrieval pack's clang-server parser. It is the only file in
// this package that touches cgo.
package clangfe

import (
	"context"
	"fmt"

	"github.com/go-clang/v3.9/clang"

	"github.com/helixhorned/ljclang-go/internal/diagfmt"
)

// GoClangEngine implements Engine on top of a single libclang index. One
// index is reused across parses within a worker process (spec.md's worker
// re-parses at most one command at a time).
type GoClangEngine struct {
	idx clang.Index
}

// NewGoClangEngine creates a libclang index with PCH declaration exclusion
// and diagnostic display both disabled; this package renders diagnostics
// itself (component C).
func NewGoClangEngine() *GoClangEngine {
	return &GoClangEngine{idx: clang.NewIndex(0, 0)}
}

// Dispose releases the underlying libclang index.
func (e *GoClangEngine) Dispose() {
	e.idx.Dispose()
}

func clangOptions(flags ParseFlags) uint32 {
	var opts uint32
	if flags.DetailedPreprocessingRecord {
		opts |= uint32(clang.TranslationUnit_DetailedPreprocessingRecord)
	}
	if flags.KeepGoing {
		opts |= uint32(clang.TranslationUnit_KeepGoing)
	}
	if flags.SkipFunctionBodies {
		opts |= uint32(clang.TranslationUnit_SkipFunctionBodies)
	}
	return opts
}

// Parse implements Engine.
func (e *GoClangEngine) Parse(ctx context.Context, argv []string, flags ParseFlags) (TranslationUnit, error) {
	var tu clang.TranslationUnit
	if cErr := e.idx.ParseTranslationUnit2("", argv, nil, clangOptions(flags), &tu); clang.ErrorCode(cErr) != clang.Error_Success {
		return nil, fmt.Errorf("%s", clang.ErrorCode(cErr).Spelling())
	}
	return &goClangTU{tu: tu}, nil
}

type goClangTU struct {
	tu clang.TranslationUnit
}

func (g *goClangTU) Dispose() { g.tu.Dispose() }

func (g *goClangTU) Diagnostics() []diagfmt.Diagnostic {
	n := uint32(g.tu.NumDiagnostics())
	out := make([]diagfmt.Diagnostic, 0, n)
	for i := uint32(0); i < n; i++ {
		out = append(out, convertDiagnostic(g.tu.Diagnostic(i)))
	}
	return out
}

func convertDiagnostic(d clang.Diagnostic) diagfmt.Diagnostic {
	defer d.Dispose()

	children := d.ChildDiagnostics()
	n := uint32(children.NumDiagnostics())
	kids := make([]diagfmt.Diagnostic, 0, n)
	for i := uint32(0); i < n; i++ {
		kids = append(kids, convertDiagnostic(children.Diagnostic(i)))
	}

	return diagfmt.Diagnostic{
		Severity: diagfmt.Severity(d.Severity()),
		Category: d.CategoryText(),
		Spelling: d.Spelling(),
		Children: kids,
	}
}

func (g *goClangTU) WalkInclusions(visit func(included File, stack []Location)) error {
	g.tu.GetInclusions(func(file clang.File, stack []clang.SourceLocation) {
		locs := make([]Location, len(stack))
		for i, l := range stack {
			locs[i] = &goClangLocation{loc: l}
		}
		visit(&goClangFile{file: file, stack: stack}, locs)
	})
	return nil
}

// goClangFile adapts clang.File. System-header status is determined from
// the innermost stack location, since CXFile itself carries no such flag.
type goClangFile struct {
	file  clang.File
	stack []clang.SourceLocation
}

func (f *goClangFile) RealPath() (string, error) {
	return f.file.Name(), nil
}

func (f *goClangFile) IsSystemHeader() bool {
	if len(f.stack) == 0 {
		return false
	}
	return f.stack[0].IsInSystemHeader()
}

type goClangLocation struct {
	loc clang.SourceLocation
}

func (l *goClangLocation) ExpansionSite() (File, error) {
	file, _, _, _ := l.loc.ExpansionLocation()
	return &goClangFile{file: file}, nil
}

func (l *goClangLocation) SpellingSite() (File, error) {
	file, _, _, _ := l.loc.SpellingLocation()
	return &goClangFile{file: file}, nil
}

func (l *goClangLocation) FileSite() (File, error) {
	file, _, _, _ := l.loc.FileLocation()
	return &goClangFile{file: file}, nil
}
