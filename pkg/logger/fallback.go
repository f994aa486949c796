package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Fallback is a last-resort log channel with no dependencies beyond the
// standard library. The terminal exception handler writes here when the
// configured logger itself fails, so a broken logging pipeline can never
// silence a fault report.
type Fallback struct {
	out io.Writer
	mu  sync.Mutex
}

// NewFallback creates a fallback channel. A nil writer defaults to stderr.
func NewFallback(out io.Writer) *Fallback {
	if out == nil {
		out = os.Stderr
	}
	return &Fallback{out: out}
}

// Write emits one timestamped line. Errors are swallowed: there is nowhere
// left to report them.
func (f *Fallback) Write(msg string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ts := time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		fmt.Fprintf(f.out, "%s [emergency] %s: %v\n", ts, msg, err)
		return
	}
	fmt.Fprintf(f.out, "%s [emergency] %s\n", ts, msg)
}
