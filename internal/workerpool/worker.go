package workerpool

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/helixhorned/ljclang-go/internal/clangfe"
	"github.com/helixhorned/ljclang-go/internal/compdb"
	"github.com/helixhorned/ljclang-go/internal/werrors"
)

// Environment variables the driver sets for a worker subprocess. They
// carry the handful of knobs a single-shot worker needs that don't fit
// on a short argv (spec.md §4.E's built-in -isystem table).
const (
	EnvIsystemC   = "WATCHCLANG_ISYSTEM_C"
	EnvIsystemCXX = "WATCHCLANG_ISYSTEM_CXX"
	EnvColors     = "WATCHCLANG_COLORS"
)

// WorkerArgs is what the driver passes on argv to a re-exec'd worker:
// the compile database path and the 1-based command index to parse.
type WorkerArgs struct {
	CompDBPath string
	Index      int
}

// ParseWorkerArgs decodes the positional arguments cmd/watchclang's
// worker entrypoint receives after its worker-mode flag.
func ParseWorkerArgs(args []string) (WorkerArgs, error) {
	if len(args) != 2 {
		return WorkerArgs{}, fmt.Errorf("workerpool: worker mode expects exactly 2 arguments, got %d", len(args))
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		return WorkerArgs{}, fmt.Errorf("workerpool: invalid command index %q: %w", args[1], err)
	}
	return WorkerArgs{CompDBPath: args[0], Index: idx}, nil
}

// RunWorker is the full body of a worker subprocess: load the compile
// database, parse its one assigned command, and write exactly one
// framed result to stdout. A parse failure becomes a normal Done frame
// with synthetic diagnostics; a condition that should abort the whole
// run becomes a Fail frame carrying its exit code. The returned error is
// non-nil only when writing the frame itself fails.
func RunWorker(ctx context.Context, engine clangfe.Engine, w WorkerArgs) error {
	set, err := compdb.Load(w.CompDBPath)
	if err != nil {
		return writeFail(err)
	}
	cmd, ok := set.Get(w.Index)
	if !ok {
		return writeFail(werrors.Internal("workerpool: command index %d out of range (1..%d)", w.Index, set.Len()))
	}

	isystem := map[string]string{
		"c":   os.Getenv(EnvIsystemC),
		"c++": os.Getenv(EnvIsystemCXX),
	}
	colors := os.Getenv(EnvColors) == "1"

	result := clangfe.ParseCommand(ctx, engine, cmd, clangfe.ParseFlags{KeepGoing: true}, colors, isystem)
	if result.Err != nil {
		return writeFail(result.Err)
	}

	payload, err := encodeDone(result.Diagnostics, result.Graph, result.HadAutoInclude)
	if err != nil {
		return writeFail(werrors.Internal("workerpool: encoding result: %v", err))
	}
	return writeFrame(os.Stdout, kindDone, payload)
}

func writeFail(err error) error {
	code := werrors.ExitInternal
	if ee, ok := err.(*werrors.ExitError); ok {
		code = ee.Code
	}
	return writeFrame(os.Stdout, kindFail, encodeFail(code, err.Error()))
}
