package fs

import (
	"fmt"
	"os"
	"sync"
)

// Locker grants exclusive access to one path for the duration of a
// load-mutate-save cycle. The returned release func must be called on
// every exit path.
type Locker interface {
	Lock(path string) (release func() error, err error)
}

// FileLocker holds an flock on "<path>.lock". It coordinates separate
// processes on the real filesystem. The lock file is left in place;
// removing it would let a waiter lock an unlinked inode.
type FileLocker struct{}

// LockPath returns the lock file used for path.
func LockPath(path string) string {
	return path + ".lock"
}

func (FileLocker) Lock(path string) (func() error, error) {
	lockPath := LockPath(path)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", lockPath, err)
	}
	if err := flockExclusive(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", lockPath, err)
	}

	var once sync.Once
	var releaseErr error
	return func() error {
		once.Do(func() {
			uerr := flockUnlock(f)
			cerr := f.Close()
			if uerr != nil {
				releaseErr = fmt.Errorf("unlock %s: %w", lockPath, uerr)
			} else if cerr != nil {
				releaseErr = cerr
			}
		})
		return releaseErr
	}, nil
}

// MutexLocker serializes access within one process. It backs in-memory
// filesystems where no lock file can be taken.
type MutexLocker struct {
	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

// NewMutexLocker creates an empty MutexLocker
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{paths: make(map[string]*sync.Mutex)}
}

func (l *MutexLocker) Lock(path string) (func() error, error) {
	l.mu.Lock()
	m, ok := l.paths[path]
	if !ok {
		m = &sync.Mutex{}
		l.paths[path] = m
	}
	l.mu.Unlock()

	m.Lock()
	var once sync.Once
	return func() error {
		once.Do(m.Unlock)
		return nil
	}, nil
}
