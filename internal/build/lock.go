package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the compiler temp directory while a run is active.
const LockFileName = "inform-compile.lock"

// ErrLocked indicates another run holds the temp directory.
var ErrLocked = errors.New("temp directory is in use by another inform-compile run")

func acquireLock(tempDir string) (*flock.Flock, error) {
	if tempDir == "" {
		return nil, nil
	}
	path := filepath.Join(tempDir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return lock, nil
}

// releaseLock removes the lock file while still holding the lock, then
// unlocks. A run that opens the path afterwards creates a fresh file.
func releaseLock(lock *flock.Flock) error {
	removeErr := os.Remove(lock.Path())
	if errors.Is(removeErr, fs.ErrNotExist) {
		removeErr = nil
	}
	return errors.Join(removeErr, lock.Unlock())
}
