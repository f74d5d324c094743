package workerpool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"golang.org/x/sync/semaphore"

	"github.com/helixhorned/ljclang-go/internal/clangfe"
	"github.com/helixhorned/ljclang-go/internal/compdb"
	"github.com/helixhorned/ljclang-go/internal/diagfmt"
	"github.com/helixhorned/ljclang-go/internal/inclgraph"
	"github.com/helixhorned/ljclang-go/internal/werrors"
)

// CommandResult is one command's parse outcome, ready to print or fold
// into the merged global inclusion graph.
type CommandResult struct {
	Index          int
	Diagnostics    diagfmt.FormattedDiagSet
	Graph          *inclgraph.InclusionGraph
	HadAutoInclude bool
}

// Options configures a Sweep.
type Options struct {
	// Concurrency is the number of compile commands that may be parsed
	// at once. 0 means serial, in-process execution; no subprocess is
	// ever spawned in that mode.
	Concurrency int

	Colors       bool
	IsystemTable map[string]string

	// CompDBPath and WorkerExe are only used in subprocess mode: the
	// re-exec'd worker loads the compile database itself from
	// CompDBPath, and WorkerExe is normally the running binary's own
	// path (os.Executable()) invoked with the worker-mode flag.
	CompDBPath string
	WorkerExe  string
	WorkerArgs []string // flags prepended before "<compdb> <index>", e.g. ["-worker"]

	// Indexes restricts the sweep to this subset, which must already be
	// in ascending order (used by the watcher to re-drive only the
	// commands affected by a file change). Nil means every command in
	// cmds, in order.
	Indexes []int
}

// Sweep parses every requested command in cmds and delivers results to
// onResult in strictly ascending command-index order, even though
// individual commands may finish out of order.
func Sweep(ctx context.Context, cmds *compdb.CompileCommandSet, opts Options, onResult func(CommandResult) error) error {
	if opts.Concurrency <= 0 {
		return sweepSerial(ctx, cmds, opts, onResult)
	}
	return sweepSubprocess(ctx, cmds, opts, onResult)
}

func indexesOf(cmds *compdb.CompileCommandSet, opts Options) []int {
	if opts.Indexes != nil {
		return opts.Indexes
	}
	return cmds.AllIndexes()
}

func sweepSerial(ctx context.Context, cmds *compdb.CompileCommandSet, opts Options, onResult func(CommandResult) error) error {
	engine := clangfe.NewGoClangEngine()
	defer engine.Dispose()

	for _, idx := range indexesOf(cmds, opts) {
		cmd, _ := cmds.Get(idx)
		result := clangfe.ParseCommand(ctx, engine, cmd, clangfe.ParseFlags{KeepGoing: true}, opts.Colors, opts.IsystemTable)
		if result.Err != nil {
			return result.Err
		}
		if err := onResult(CommandResult{
			Index:          idx,
			Diagnostics:    result.Diagnostics,
			Graph:          result.Graph,
			HadAutoInclude: result.HadAutoInclude,
		}); err != nil {
			return err
		}
	}
	return nil
}

type workerOutcome struct {
	result CommandResult
	err    error
}

func sweepSubprocess(ctx context.Context, cmds *compdb.CompileCommandSet, opts Options, onResult func(CommandResult) error) error {
	indexes := indexesOf(cmds, opts)
	if len(indexes) == 0 {
		return nil
	}
	sem := semaphore.NewWeighted(int64(opts.Concurrency))
	outcomes := make(chan workerOutcome, len(indexes))

	for _, idx := range indexes {
		if err := sem.Acquire(ctx, 1); err != nil {
			return werrors.Internal("workerpool: acquiring concurrency slot: %v", err)
		}
		go func(idx int) {
			defer sem.Release(1)
			res, err := runOne(ctx, opts, idx)
			outcomes <- workerOutcome{res, err}
		}(idx)
	}

	pending := make(map[int]CommandResult, len(indexes))
	pos := 0
	for range indexes {
		o := <-outcomes
		if o.err != nil {
			return o.err
		}
		pending[o.result.Index] = o.result
		for pos < len(indexes) {
			res, ok := pending[indexes[pos]]
			if !ok {
				break
			}
			if err := onResult(res); err != nil {
				return err
			}
			delete(pending, indexes[pos])
			pos++
		}
	}
	return nil
}

func runOne(ctx context.Context, opts Options, idx int) (CommandResult, error) {
	args := append(append([]string{}, opts.WorkerArgs...), opts.CompDBPath, strconv.Itoa(idx))
	cmd := exec.CommandContext(ctx, opts.WorkerExe, args...)
	cmd.Env = append(os.Environ(),
		EnvIsystemC+"="+opts.IsystemTable["c"],
		EnvIsystemCXX+"="+opts.IsystemTable["c++"],
		EnvColors+"="+boolEnv(opts.Colors),
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return CommandResult{}, werrors.Internal("workerpool: worker for command %d exited abnormally: %v", idx, err)
	}

	kind, payload, err := readFrame(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return CommandResult{}, werrors.Internal("workerpool: reading worker output for command %d: %v", idx, err)
	}

	switch kind {
	case kindFail:
		code, msg := decodeFail(payload)
		return CommandResult{}, werrors.New(code, fmt.Errorf("command %d: %s", idx, msg))
	case kindDone:
		diags, g, hadAutoInclude, err := decodeDone(payload)
		if err != nil {
			return CommandResult{}, werrors.Internal("workerpool: decoding result for command %d: %v", idx, err)
		}
		return CommandResult{Index: idx, Diagnostics: diags, Graph: g, HadAutoInclude: hadAutoInclude}, nil
	default:
		return CommandResult{}, werrors.Internal("workerpool: unknown frame kind %d for command %d", kind, idx)
	}
}

func boolEnv(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
