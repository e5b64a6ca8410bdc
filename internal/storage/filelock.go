package storage

import (
	"errors"
	"os"
)

// ErrWouldBlock signals that a non-blocking lock attempt failed due to the
// store being locked by another process.
var ErrWouldBlock = errors.New("file lock would block")

// lockHeld reports whether the lock at path is currently held by another
// open handle. A missing lock file means nobody holds it.
func lockHeld(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	f, err := acquireFileLock(path)
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return true, nil
		}
		return false, err
	}
	// Close the descriptor but leave the artifact in place.
	_ = f.Close()
	return false, nil
}
