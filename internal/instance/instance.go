// SPDX-License-Identifier: EPL-2.0

// Package instance keeps a single upmix process working at a time across
// the machine, matching the one-job-at-a-time rule of the task engine.
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/ik5/upmix/internal/failure"
)

// LockName is the lock file created in the temp directory.
const LockName = "upmix.lock"

// Lock is a held process lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// DefaultPath is the lock file location shared by all invocations.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), LockName)
}

// Acquire takes the lock at path without blocking. It fails with a
// concurrency error when another process holds it.
func Acquire(path string) (*Lock, error) {
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, failure.Busy(fmt.Sprintf("another upmix process holds %s", path))
	}
	return &Lock{path: path, lock: l}, nil
}

// Path of the lock file.
func (l *Lock) Path() string { return l.path }

// Release unlocks. The lock file is left in place for the next process.
func (l *Lock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
