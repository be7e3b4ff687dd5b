package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// WriteFileAtomic writes data to path via a temp file in the same directory
// followed by a rename, so readers see either the old or the new content.
// An existing file keeps its permissions; new files get perm.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmpFile, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	renamed := false

	defer func() {
		if !renamed {
			_ = fsys.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	renamed = true

	if _, ok := fsys.(*afero.OsFs); ok && runtime.GOOS != "windows" {
		if err := FsyncDir(dir); err != nil {
			GetLogger().Warn("rename of %s succeeded but directory sync failed: %v", path, err)
		}
	}

	return nil
}
