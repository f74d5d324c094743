package clangfe

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/helixhorned/ljclang-go/internal/compdb"
	"github.com/helixhorned/ljclang-go/internal/diagfmt"
	"github.com/helixhorned/ljclang-go/internal/inclgraph"
	"github.com/helixhorned/ljclang-go/internal/werrors"
)

// IsystemTable maps a guessed source language ("c", "c++") to the extra
// -isystem directory tried once on include-not-found auto-recovery
// (spec.md §4.E step 5). Built by internal/config from its defaults.
type IsystemTable map[string]string

// Result is the outcome of parsing one compile command.
type Result struct {
	Diagnostics    diagfmt.FormattedDiagSet
	Graph          *inclgraph.InclusionGraph
	HadAutoInclude bool

	// Err is set only for process-fatal failures (unresolvable paths,
	// an inclusion-site assertion violation, or a source language that
	// could not be guessed for auto-recovery). A parse(argv) failure
	// that yields a null TU is NOT an Err: it is reported as a
	// synthetic diagnostic and the run continues with the next command.
	Err error
}

var fileNotFoundFragment = regexp.MustCompile(`'[^']*' file not found`)

// ParseCommand runs the full §4.E algorithm for one compile command:
// sanitize, parse, format diagnostics, build the per-TU inclusion graph,
// and retry at most once with an extra -isystem if the first attempt's
// diagnostics look like a missing standard-library search path.
func ParseCommand(ctx context.Context, engine Engine, cmd compdb.CompileCommand, flags ParseFlags, colors bool, isystem IsystemTable) Result {
	argv := compdb.SanitizeArgs(cmd.Arguments, cmd.Directory)
	return attempt(ctx, engine, argv, flags, colors, isystem, nil)
}

func attempt(ctx context.Context, engine Engine, argv []string, flags ParseFlags, colors bool, isystem IsystemTable, extraIsystemDir *string) Result {
	finalArgv := argv
	if extraIsystemDir != nil {
		finalArgv = append([]string{"-isystem", *extraIsystemDir}, argv...)
	}

	tu, err := engine.Parse(ctx, finalArgv, flags)
	if err != nil {
		return Result{
			Diagnostics: diagfmt.FormattedDiagSet{
				Info: &diagfmt.FormattedDiag{Lines: []string{
					fmt.Sprintf("ERROR: index:parse() failed: %v", err),
				}},
			},
			Graph: inclgraph.New(),
		}
	}
	defer tu.Dispose()

	diags := tu.Diagnostics()

	// Inspect a plain (color-stripped) rendering to decide whether to
	// retry, regardless of the colors the caller actually asked for:
	// ANSI codes can land inside the exact substrings being matched.
	plain := diagfmt.FormatDiagnostics(diags, diagfmt.FormatOptions{Colors: false})
	if extraIsystemDir == nil && looksLikeMissingInclude(plain) {
		lang, ok := guessLanguage(argv)
		if ok {
			if dir, ok := isystem[lang]; ok {
				result := attempt(ctx, engine, argv, flags, colors, isystem, &dir)
				result.HadAutoInclude = true
				return result
			}
		}
		// Can't guess the language (or have no table entry for it):
		// §4.E treats this as the process-fatal case, not a per-command
		// skip, since no sensible retry or fallback exists.
		return Result{Err: werrors.Internal("clangfe: cannot determine source language for include auto-recovery")}
	}

	graph, gerr := buildGraph(tu)
	if gerr != nil {
		return Result{Err: gerr}
	}

	final := diagfmt.FormatDiagnostics(diags, diagfmt.FormatOptions{Colors: colors})
	return Result{Diagnostics: final, Graph: graph}
}

// looksLikeMissingInclude reports whether a formatted diagnostic set
// contains both a "fatal error: " tag and a "'...' file not found"
// fragment, the signature of a missing standard-library search path.
func looksLikeMissingInclude(set diagfmt.FormattedDiagSet) bool {
	var hasFatal, hasNotFound bool
	for _, d := range set.Diags {
		for _, line := range d.Lines {
			if strings.Contains(line, "fatal error: ") {
				hasFatal = true
			}
			if fileNotFoundFragment.MatchString(line) {
				hasNotFound = true
			}
		}
	}
	return hasFatal && hasNotFound
}

// guessLanguage guesses a TU's source language from its sanitized argv:
// a ".c" source file argument means C, an explicit -std=c++* flag means
// C++. Anything else can't be guessed.
func guessLanguage(argv []string) (string, bool) {
	for _, a := range argv {
		if !strings.HasPrefix(a, "-") && strings.HasSuffix(a, ".c") {
			return "c", true
		}
	}
	for _, a := range argv {
		if strings.Contains(a, "-std=c++") {
			return "c++", true
		}
	}
	return "", false
}
