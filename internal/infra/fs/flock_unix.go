//go:build !windows
// +build !windows

package fs

import (
	"os"
	"syscall"
)

// flockExclusive blocks until an exclusive lock on f is held
func flockExclusive(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

// flockUnlock releases the lock on f
func flockUnlock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
