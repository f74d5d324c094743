// Package wlog is a small leveled logger for diagnostics about the
// watcher's own operation (not the C/C++ diagnostics it renders).
// It stays silent unless explicitly enabled, so a normal run's stdout/
// stderr carries only what internal/diagfmt prints.
package wlog

import (
	"fmt"
	"io"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer // nil means disabled
	enabled bool
)

// Enable turns on debug logging to w.
func Enable(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	enabled = true
}

// Disable turns off debug logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	out = nil
	enabled = false
}

// Enabled reports whether debug logging is currently on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Debugf writes a formatted debug line if logging is enabled.
func Debugf(format string, args ...any) {
	mu.Lock()
	w, on := out, enabled
	mu.Unlock()
	if !on {
		return
	}
	fmt.Fprintf(w, "[debug] "+format+"\n", args...)
}

// Warnf writes a formatted warning line if logging is enabled.
func Warnf(format string, args ...any) {
	mu.Lock()
	w, on := out, enabled
	mu.Unlock()
	if !on {
		return
	}
	fmt.Fprintf(w, "[warn] "+format+"\n", args...)
}
