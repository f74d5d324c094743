// Package watch implements component G: watching every file reachable
// from a run's merged inclusion graph (plus the compile database itself)
// and reporting which commands need re-parsing after a change. Grounded
// on the teacher's internal/indexing/watcher.go (fsnotify.Watcher plus a
// debounced event batcher), adapted to watch individual files instead of
// walking and registering whole directory trees.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/helixhorned/ljclang-go/internal/inclgraph"
	"github.com/helixhorned/ljclang-go/internal/werrors"
	"github.com/helixhorned/ljclang-go/internal/wlog"
)

// Watcher watches a fixed set of individual files.
type Watcher struct {
	fsw        *fsnotify.Watcher
	compDBPath string
	debounce   time.Duration
}

// New creates a watcher for compDBPath's companion source tree.
func New(compDBPath string, debounceMs int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, werrors.Internal("watch: creating fsnotify watcher: %v", err)
	}
	return &Watcher{
		fsw:        fsw,
		compDBPath: compDBPath,
		debounce:   time.Duration(debounceMs) * time.Millisecond,
	}, nil
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Register adds a watch for the compile database and for every file in
// graph. It is safe to call repeatedly across runs as the merged graph
// grows; fsnotify tolerates re-adding an already-watched path.
func (w *Watcher) Register(graph *inclgraph.InclusionGraph) error {
	if err := w.fsw.Add(w.compDBPath); err != nil {
		return werrors.Internal("watch: registering compile database %s: %v", w.compDBPath, err)
	}
	for _, path := range graph.IterateFileNames() {
		if err := w.fsw.Add(path); err != nil {
			return werrors.Internal("watch: registering %s: %v", path, err)
		}
	}
	return nil
}

// ChangeEvent is one debounced batch of modified file paths.
type ChangeEvent struct {
	Paths []string
}

// Next blocks until a debounced batch of write events arrives, ctx is
// canceled, or a fatal watch condition is hit: a watched file being
// moved or deleted (werrors.WatchedMoved, exit 100) or the compile
// database itself changing (werrors.CompDBModified, exit 101; reloading
// it is out of scope).
func (w *Watcher) Next(ctx context.Context) (ChangeEvent, error) {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ChangeEvent{}, ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ChangeEvent{}, werrors.Internal("watch: fsnotify event channel closed")
			}
			wlog.Debugf("watch: event %v for %s", ev.Op, ev.Name)

			if ev.Name == w.compDBPath {
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) != 0 {
					return ChangeEvent{}, werrors.CompDBModified("compile database %s was modified", w.compDBPath)
				}
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					return ChangeEvent{}, werrors.WatchedMoved("compile database %s was moved or removed", w.compDBPath)
				}
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return ChangeEvent{}, werrors.WatchedMoved("watched file %s was moved or removed", ev.Name)
			}
			if ev.Op&fsnotify.Write == 0 {
				continue
			}

			pending[filepath.Clean(ev.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timerC
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			return ChangeEvent{Paths: paths}, nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ChangeEvent{}, werrors.Internal("watch: fsnotify error channel closed")
			}
			return ChangeEvent{}, werrors.Internal("watch: fsnotify error: %v", err)
		}
	}
}

// AffectedCommands returns, in ascending order, every command index
// whose per-command inclusion graph contains one of the changed paths.
func AffectedCommands(perCommand map[int]*inclgraph.InclusionGraph, changed []string) []int {
	var affected []int
	for idx, g := range perCommand {
		for _, p := range changed {
			if g.Contains(p) {
				affected = append(affected, idx)
				break
			}
		}
	}
	sort.Ints(affected)
	return affected
}
