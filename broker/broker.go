// Package broker defines the privileged file-open contract: the core
// never opens a device node itself, it always goes through a
// caller-supplied broker. This mirrors how a seat daemon runs
// unprivileged and asks a setuid/logind-style helper to hand back an
// already-open fd.
package broker

import (
	"os"
	"syscall"
)

// Broker opens and closes device nodes on the core's behalf.
type Broker interface {
	// OpenRestricted opens path with the given flags and returns an open
	// file. A negative-errno failure from the privileged helper is
	// surfaced as a non-nil error.
	OpenRestricted(path string, flags int) (*os.File, error)

	// CloseRestricted releases a file previously returned by
	// OpenRestricted.
	CloseRestricted(f *os.File)
}

// Direct is a Broker that opens files directly in this process, useful
// for the demo driver and for tests where no separate privileged helper
// exists. Production callers embedding this core behind an actual
// privilege boundary supply their own Broker.
type Direct struct{}

// OpenRestricted opens path with os.OpenFile, OR-ing in O_NONBLOCK so
// reads never block the caller's event loop even if a caller forgets to
// ask for it.
func (Direct) OpenRestricted(path string, flags int) (*os.File, error) {
	return os.OpenFile(path, flags|syscall.O_NONBLOCK, 0)
}

// CloseRestricted closes f, ignoring the result: best effort, nothing
// upstream cares.
func (Direct) CloseRestricted(f *os.File) {
	_ = f.Close()
}

var _ Broker = Direct{}
