// Command watchclang incrementally parses the translation units named by
// a compile_commands.json database through Clang, renders deduplicated
// diagnostics, and re-parses the affected subset whenever a watched file
// changes. It doubles as its own worker subprocess entrypoint (the hidden
// -worker flag), the same re-exec pattern the retrieval pack's
// syz-declextract driver/worker split uses instead of a literal fork().
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/helixhorned/ljclang-go/internal/clangfe"
	"github.com/helixhorned/ljclang-go/internal/compdb"
	"github.com/helixhorned/ljclang-go/internal/config"
	"github.com/helixhorned/ljclang-go/internal/controller"
	"github.com/helixhorned/ljclang-go/internal/watch"
	"github.com/helixhorned/ljclang-go/internal/werrors"
	"github.com/helixhorned/ljclang-go/internal/wlog"
	"github.com/helixhorned/ljclang-go/internal/workerpool"
)

const workerFlagName = "worker"

func main() {
	app := &cli.App{
		Name:                   "watchclang",
		Usage:                  "incrementally parse a compile_commands.json database and watch it for changes",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "m",
				Usage: "reserved machine-interface mode (no-op; rejects combination with other flags)",
			},
			&cli.StringFlag{
				Name:  "c",
				Usage: "concurrency: \"auto\" or a non-negative integer (0 = serial)",
			},
			&cli.StringFlag{
				Name:  "g",
				Usage: "emit a DOT graph and exit: \"includes\" or \"isIncludedBy\"",
			},
			&cli.IntFlag{
				Name:  "l",
				Usage: "node fan-out limit for DOT emission (only with -g isIncludedBy)",
			},
			&cli.BoolFlag{
				Name:  "N",
				Usage: "disable cross-command diagnostic dedup",
			},
			&cli.BoolFlag{
				Name:  "P",
				Usage: "disable color output",
			},
			&cli.BoolFlag{
				Name:  "x",
				Usage: "exit after one sweep",
			},
			&cli.BoolFlag{
				Name:   "debug",
				Usage:  "enable internal debug logging to stderr",
				Hidden: true,
			},
			&cli.BoolFlag{
				Name:   workerFlagName,
				Usage:  "internal: run as a worker subprocess for one command",
				Hidden: true,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		var exitErr *werrors.ExitError
		if ee, ok := err.(*werrors.ExitError); ok {
			exitErr = ee
		} else {
			exitErr = werrors.CLIError("%v", err)
		}
		fmt.Fprintln(os.Stderr, exitErr.Error())
		os.Exit(exitErr.Code)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		wlog.Enable(os.Stderr)
	}

	if c.Bool(workerFlagName) {
		return runWorkerMode(c)
	}

	return runDriverMode(c)
}

func runWorkerMode(c *cli.Context) error {
	wargs, err := workerpool.ParseWorkerArgs(c.Args().Slice())
	if err != nil {
		return werrors.CLIError("%v", err)
	}
	engine := clangfe.NewGoClangEngine()
	defer engine.Dispose()
	return workerpool.RunWorker(context.Background(), engine, wargs)
}

func runDriverMode(c *cli.Context) error {
	if c.Bool("m") {
		if c.NumFlags() > 1 {
			return werrors.CLIError("-m cannot be combined with any other flag")
		}
		return nil
	}

	if c.Args().Len() != 1 {
		return werrors.CLIError("expected exactly one compile_commands.json path, got %d", c.Args().Len())
	}
	compDBPath, err := filepath.Abs(c.Args().First())
	if err != nil {
		return werrors.PathError("resolving %s: %v", c.Args().First(), err)
	}

	graphMode := c.String("g")
	if graphMode != "" && graphMode != "includes" && graphMode != "isIncludedBy" {
		return werrors.CLIError("-g must be \"includes\" or \"isIncludedBy\", got %q", graphMode)
	}
	if c.IsSet("l") && graphMode != "isIncludedBy" {
		return werrors.CLIError("-l is only valid together with -g isIncludedBy")
	}

	cfg, err := loadConfigWithOverrides(c, filepath.Dir(compDBPath))
	if err != nil {
		return err
	}

	cmds, err := compdb.Load(compDBPath)
	if err != nil {
		return werrors.LoadError("%v", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return werrors.Internal("resolving own executable path: %v", err)
	}

	// Restore the default SIGINT disposition before any subprocess is
	// spawned so workers terminate cleanly on ^C instead of inheriting a
	// custom handler (spec.md §4.F).
	if cfg.Concurrency > 0 {
		signal.Reset(syscall.SIGINT)
	}

	ctx := context.Background()
	opts := controller.Options{
		CompDBPath:   compDBPath,
		WorkerExe:    exe,
		WorkerArgs:   []string{"-" + workerFlagName},
		Concurrency:  cfg.Concurrency,
		Colors:       cfg.ColorEnabled,
		DedupEnabled: cfg.DedupEnabled,
		IsystemTable: cfg.IsystemTable(),
		Out:          os.Stdout,
	}

	res, err := controller.Run(ctx, cmds, opts)
	if err != nil {
		return err
	}

	if graphMode != "" {
		// Stored edges already run included -> includer (spec.md §4.D's
		// add_inclusion(to, from)), i.e. native "isIncludedBy" direction;
		// "includes" is the flipped view.
		reverse := graphMode == "includes"
		return res.Merged.EmitDOT(os.Stdout, graphMode, reverse, "", cfg.GraphEdgeLimit)
	}

	if c.Bool("x") {
		return nil
	}

	return watchLoop(ctx, cmds, compDBPath, opts, cfg, res)
}

func watchLoop(ctx context.Context, cmds *compdb.CompileCommandSet, compDBPath string, opts controller.Options, cfg *config.Config, res *controller.Result) error {
	w, err := watch.New(compDBPath, cfg.WatchDebounceMs)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Register(res.Merged); err != nil {
		return err
	}

	for {
		ev, err := w.Next(ctx)
		if err != nil {
			return err
		}

		affected := watch.AffectedCommands(res.PerCommand, ev.Paths)
		if len(affected) == 0 {
			continue
		}

		reRunOpts := opts
		reRunOpts.Indexes = affected

		next, err := controller.Run(ctx, cmds, reRunOpts)
		if err != nil {
			return err
		}

		for idx, g := range next.PerCommand {
			res.PerCommand[idx] = g
		}
		res.Merged.Merge(next.Merged)
		if next.HadAutoInclude {
			res.HadAutoInclude = true
		}
		if err := w.Register(res.Merged); err != nil {
			return err
		}
	}
}

func loadConfigWithOverrides(c *cli.Context, dir string) (*config.Config, error) {
	cfg, err := config.LoadKDL(dir)
	if err != nil {
		return nil, werrors.Internal("loading .watchclang.kdl: %v", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	override := &config.Override{}
	if c.IsSet("c") {
		val := c.String("c")
		if val == "auto" {
			override.ConcurrencyAuto = true
		} else {
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return nil, werrors.CLIError("-c must be \"auto\" or a non-negative integer, got %q", val)
			}
			override.Concurrency = &n
		}
	}
	if c.Bool("N") {
		disabled := false
		override.DedupEnabled = &disabled
	}
	if c.Bool("P") {
		disabled := false
		override.ColorEnabled = &disabled
	}
	if c.IsSet("l") {
		limit := c.Int("l")
		override.GraphEdgeLimit = &limit
	}

	return cfg.Merge(override), nil
}
