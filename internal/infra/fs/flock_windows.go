//go:build windows
// +build windows

package fs

import (
	"os"
)

// flockExclusive is a no-op on Windows.
// TODO: Implement Windows file locking using LockFileEx
func flockExclusive(f *os.File) error {
	return nil
}

// flockUnlock is a no-op on Windows.
func flockUnlock(f *os.File) error {
	return nil
}
