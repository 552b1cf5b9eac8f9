// Package debuglog is the process-wide logger every component writes
// through. It intentionally stays a thin named-subsystem writer rather than
// a structured logging framework: the indexer is a library first, a CLI
// second, and a library should not force a logging stack on its host.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug can be set at build time: -ldflags "-X .../debuglog.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer
)

// SetOutput sets the writer debug lines are sent to. Pass nil to disable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Enabled reports whether logging is active, via the build flag or DEBUG env var.
func Enabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

// Log writes a line tagged with subsystem, one of "graph", "pipeline",
// "orchestrator", "reachability", "quality", "store", "scan", "config".
func Log(subsystem, format string, args ...any) {
	if !Enabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]any{subsystem}, args...)...)
}

// Warn writes a warning line regardless of the debug flag — warnings are
// always surfaced since they precede a skip-and-continue decision.
func Warn(subsystem, format string, args ...any) {
	w := writer()
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "[%s:warn] "+format+"\n", append([]any{subsystem}, args...)...)
}
