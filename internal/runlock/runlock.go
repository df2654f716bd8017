// Package runlock guards the scrape workspace with a file lock so two runs
// never interleave their request pacing or fight over the cache database.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld reports that another run already owns the workspace.
var ErrHeld = errors.New("another run is already in progress")

// Lock is a filesystem lock scoped to one data directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// New prepares a lock file under dir. The file is not acquired yet.
func New(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runlock: create lock dir: %w", err)
	}
	path := filepath.Join(dir, "ttabscan.lock")
	return &Lock{path: path, lock: flock.New(path)}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Acquire takes the lock without blocking. ErrHeld means a concurrent run
// owns it.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("runlock: acquire: %w", err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// Release gives the lock back. Safe to call when not held.
func (l *Lock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("runlock: release: %w", err)
	}
	return nil
}
