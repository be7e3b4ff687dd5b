package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	model "github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
	"github.com/YoshitsuguKoike/uatreport/internal/infra/fs"
)

// FileReportRepository loads and persists a report document on an afero.Fs.
// Writes replace the whole file atomically; Update additionally holds an
// exclusive lock for the load-mutate-save cycle.
type FileReportRepository struct {
	FS     afero.Fs
	Locker fs.Locker
	Logger fs.Logger
}

// NewFileReportRepository creates a repository over fsys. The real
// filesystem gets an flock-based locker, anything else an in-process one.
func NewFileReportRepository(fsys afero.Fs) *FileReportRepository {
	var locker fs.Locker = fs.NewMutexLocker()
	if _, ok := fsys.(*afero.OsFs); ok {
		locker = fs.FileLocker{}
	}
	return &FileReportRepository{
		FS:     fsys,
		Locker: locker,
		Logger: fs.GetLogger(),
	}
}

// Load reads and parses the report at path.
func (r *FileReportRepository) Load(path string) (*model.Report, error) {
	data, err := afero.ReadFile(r.FS, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	rep, err := model.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Logger.Debug("loaded report %s (%d suites)", path, len(rep.TestSuites))
	return rep, nil
}

// Save serializes rep and replaces the file at path. The previous content
// stays intact if serialization or writing fails.
func (r *FileReportRepository) Save(rep *model.Report, path string) error {
	data, err := rep.Encode()
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", model.ErrWrite, path, err)
	}
	if err := fs.WriteFileAtomic(r.FS, path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrWrite, path, err)
	}
	r.Logger.Debug("saved report %s (%d bytes)", path, len(data))
	return nil
}

// Update runs mutate against the current report while holding the lock for
// path and saves the result. Nothing is written when mutate fails.
func (r *FileReportRepository) Update(path string, mutate func(*model.Report) error) (*model.Report, error) {
	if _, err := r.FS.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat report %s: %w", path, err)
	}

	release, err := r.Locker.Lock(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lock report %s: %w", path, err)
	}
	defer func() {
		if err := release(); err != nil {
			r.Logger.Warn("failed to release lock on %s: %v", path, err)
		}
	}()
	r.Logger.Debug("acquired lock on %s", path)

	rep, err := r.Load(path)
	if err != nil {
		return nil, err
	}
	if err := mutate(rep); err != nil {
		return nil, err
	}
	if err := r.Save(rep, path); err != nil {
		return nil, err
	}
	return rep, nil
}
