package clangfe

import (
	"path/filepath"

	"github.com/helixhorned/ljclang-go/internal/inclgraph"
	"github.com/helixhorned/ljclang-go/internal/werrors"
)

// buildGraph walks tu's inclusions and produces a per-TU InclusionGraph
// (component D "building from a TU"). System-header edges are skipped.
// For every stack-top location it checks that the expansion, spelling and
// file sites agree, per the invariant in contract.go's Location doc.
func buildGraph(tu TranslationUnit) (*inclgraph.InclusionGraph, error) {
	g := inclgraph.New()
	var walkErr error

	err := tu.WalkInclusions(func(included File, stack []Location) {
		if walkErr != nil {
			return
		}
		if len(stack) == 0 {
			return
		}
		if included.IsSystemHeader() {
			return
		}

		top := stack[0]
		exp, err1 := top.ExpansionSite()
		spell, err2 := top.SpellingSite()
		fsite, err3 := top.FileSite()
		if err1 != nil || err2 != nil || err3 != nil {
			walkErr = werrors.Internal("clangfe: resolving inclusion site: expansion=%v spelling=%v file=%v", err1, err2, err3)
			return
		}

		expPath, err := exp.RealPath()
		if err != nil {
			walkErr = werrors.PathError("clangfe: resolving expansion site real path: %v", err)
			return
		}
		spellPath, err := spell.RealPath()
		if err != nil {
			walkErr = werrors.PathError("clangfe: resolving spelling site real path: %v", err)
			return
		}
		fsitePath, err := fsite.RealPath()
		if err != nil {
			walkErr = werrors.PathError("clangfe: resolving file site real path: %v", err)
			return
		}
		if expPath != spellPath || spellPath != fsitePath {
			walkErr = werrors.Internal("clangfe: inclusion site disagreement (expansion=%q spelling=%q file=%q), likely a macro-expanded #include", expPath, spellPath, fsitePath)
			return
		}
		if !filepath.IsAbs(fsitePath) {
			walkErr = werrors.Internal("clangfe: inclusion site %q is not an absolute path", fsitePath)
			return
		}

		includedPath, err := included.RealPath()
		if err != nil {
			walkErr = werrors.PathError("clangfe: resolving included file real path: %v", err)
			return
		}
		if !filepath.IsAbs(includedPath) {
			walkErr = werrors.Internal("clangfe: included file %q is not an absolute path", includedPath)
			return
		}

		g.AddInclusion(includedPath, fsitePath)
	})
	if err != nil {
		return nil, werrors.Internal("clangfe: walking inclusions: %v", err)
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return g, nil
}
