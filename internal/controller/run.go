// Package controller drives one sweep of the worker pool over a set of
// command indexes, merges the resulting per-command inclusion graphs into
// the run's global graph, and prints diagnostics through the dedup filter
// -- the orchestration the teacher keeps in cmd/lci/main.go rather than in
// a reusable package, pulled out here since the watcher re-drives it on
// every file-change event (component G re-entering component F).
package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/helixhorned/ljclang-go/internal/compdb"
	"github.com/helixhorned/ljclang-go/internal/diagfmt"
	"github.com/helixhorned/ljclang-go/internal/inclgraph"
	"github.com/helixhorned/ljclang-go/internal/workerpool"
)

// Options configures one Run.
type Options struct {
	CompDBPath   string
	WorkerExe    string
	WorkerArgs   []string
	Concurrency  int
	Colors       bool
	DedupEnabled bool
	IsystemTable map[string]string

	// Indexes restricts the run to this subset; nil means every command.
	Indexes []int

	Out io.Writer
}

// Result accumulates what a Run produced across all its commands.
type Result struct {
	PerCommand     map[int]*inclgraph.InclusionGraph
	Merged         *inclgraph.InclusionGraph
	HadAutoInclude bool
}

// Run sweeps cmds (restricted to opts.Indexes, if set) through the worker
// pool, printing each command's diagnostics to opts.Out in ascending
// index order as they arrive, and returns the accumulated graphs.
func Run(ctx context.Context, cmds *compdb.CompileCommandSet, opts Options) (*Result, error) {
	result := &Result{
		PerCommand: make(map[int]*inclgraph.InclusionGraph),
		Merged:     inclgraph.New(),
	}

	var dedup *diagfmt.PrinterState
	if opts.DedupEnabled {
		dedup = diagfmt.NewPrinterState()
	}

	poolOpts := workerpool.Options{
		Concurrency:  opts.Concurrency,
		Colors:       opts.Colors,
		IsystemTable: opts.IsystemTable,
		CompDBPath:   opts.CompDBPath,
		WorkerExe:    opts.WorkerExe,
		WorkerArgs:   opts.WorkerArgs,
		Indexes:      opts.Indexes,
	}

	err := workerpool.Sweep(ctx, cmds, poolOpts, func(cr workerpool.CommandResult) error {
		set := cr.Diagnostics
		if dedup != nil {
			set = dedup.Filter(set)
		}
		printDiagSet(opts.Out, set)

		result.PerCommand[cr.Index] = cr.Graph
		result.Merged.Merge(cr.Graph)
		if cr.HadAutoInclude {
			result.HadAutoInclude = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if dedup != nil {
		if line, ok := dedup.Summary(); ok {
			fmt.Fprintln(opts.Out, line)
		}
	}

	return result, nil
}

func printDiagSet(w io.Writer, set diagfmt.FormattedDiagSet) {
	for _, d := range set.Diags {
		for _, line := range d.Lines {
			fmt.Fprintln(w, line)
		}
	}
	if set.Info != nil {
		for _, line := range set.Info.Lines {
			fmt.Fprintln(w, line)
		}
	}
}
