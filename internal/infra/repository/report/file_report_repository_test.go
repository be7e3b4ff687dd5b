package report_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	model "github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
	infraReport "github.com/YoshitsuguKoike/uatreport/internal/infra/repository/report"
)

const uatDoc = `{
  "test_plan": "MOSS UAT",
  "test_suites": [
    {"suite_id": "TS-001", "suite_name": "Companies"},
    {"suite_id": "TS-002", "suite_name": "Locations"}
  ]
}`

func writeDoc(t *testing.T, fsys afero.Fs, path, doc string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(doc), 0o644))
}

func TestFileReportRepository_Load(t *testing.T) {
	tests := []struct {
		name    string
		setupFS func(t *testing.T, fsys afero.Fs)
		wantErr error
	}{
		{
			name:    "valid report",
			setupFS: func(t *testing.T, fsys afero.Fs) { writeDoc(t, fsys, "qa/UAT.json", uatDoc) },
		},
		{
			name:    "missing file",
			setupFS: func(t *testing.T, fsys afero.Fs) {},
			wantErr: model.ErrNotFound,
		},
		{
			name:    "invalid json",
			setupFS: func(t *testing.T, fsys afero.Fs) { writeDoc(t, fsys, "qa/UAT.json", "{not json") },
			wantErr: model.ErrMalformedReport,
		},
		{
			name:    "missing test_suites",
			setupFS: func(t *testing.T, fsys afero.Fs) { writeDoc(t, fsys, "qa/UAT.json", `{"test_results": {}}`) },
			wantErr: model.ErrMalformedReport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			tt.setupFS(t, fsys)
			repo := infraReport.NewFileReportRepository(fsys)

			rep, err := repo.Load("qa/UAT.json")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "qa/UAT.json")
				return
			}
			require.NoError(t, err)
			assert.Len(t, rep.TestSuites, 2)
		})
	}
}

func TestFileReportRepository_RoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "qa/UAT.json", uatDoc)
	repo := infraReport.NewFileReportRepository(fsys)

	first, err := repo.Load("qa/UAT.json")
	require.NoError(t, err)
	require.NoError(t, repo.Save(first, "qa/UAT.json"))

	second, err := repo.Load("qa/UAT.json")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	saved, err := afero.ReadFile(fsys, "qa/UAT.json")
	require.NoError(t, err)
	assert.JSONEq(t, uatDoc, string(saved))
}

func TestFileReportRepository_UpdateFailureLeavesFileUnchanged(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "qa/UAT.json", uatDoc)
	repo := infraReport.NewFileReportRepository(fsys)

	boom := errors.New("boom")
	_, err := repo.Update("qa/UAT.json", func(r *model.Report) error {
		r.EnsureResultsSection(model.ResultsMeta{Tester: "qa"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Update("qa/UAT.json", func(r *model.Report) error {
		r.EnsureResultsSection(model.ResultsMeta{Tester: "qa"})
		return r.AppendScenarios("TS-404", []*model.ScenarioResult{{ScenarioID: "TS-404-SC-001", Status: model.StatusPassed}})
	})
	assert.ErrorIs(t, err, model.ErrSuiteNotFound)

	saved, err := afero.ReadFile(fsys, "qa/UAT.json")
	require.NoError(t, err)
	assert.Equal(t, uatDoc, string(saved))
}

func TestFileReportRepository_UpdateMissingFile(t *testing.T) {
	repo := infraReport.NewFileReportRepository(afero.NewMemMapFs())
	called := false
	_, err := repo.Update("qa/UAT.json", func(*model.Report) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, called)
}

func TestFileReportRepository_SaveWriteError(t *testing.T) {
	base := afero.NewMemMapFs()
	writeDoc(t, base, "qa/UAT.json", uatDoc)
	repo := infraReport.NewFileReportRepository(afero.NewReadOnlyFs(base))

	rep, err := repo.Load("qa/UAT.json")
	require.NoError(t, err)
	rep.EnsureResultsSection(model.ResultsMeta{})

	err = repo.Save(rep, "qa/UAT.json")
	assert.ErrorIs(t, err, model.ErrWrite)

	saved, err := afero.ReadFile(base, "qa/UAT.json")
	require.NoError(t, err)
	assert.Equal(t, uatDoc, string(saved))
}

func TestFileReportRepository_ConcurrentUpdates(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "UAT.json")
	osFs := afero.NewOsFs()
	writeDoc(t, osFs, path, uatDoc)

	const writers = 6
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Separate repositories mimic separate updater invocations.
			repo := infraReport.NewFileReportRepository(osFs)
			_, err := repo.Update(path, func(r *model.Report) error {
				r.EnsureResultsSection(model.ResultsMeta{Tester: "qa"})
				return r.AppendScenarios("TS-001", []*model.ScenarioResult{{
					ScenarioID: fmt.Sprintf("TS-001-SC-%03d", w),
					Status:     model.StatusPassed,
				}})
			})
			assert.NoError(t, err)
		}(w)
	}
	wg.Wait()

	rep, err := infraReport.NewFileReportRepository(osFs).Load(path)
	require.NoError(t, err)
	require.NotNil(t, rep.TestResults)
	assert.Len(t, rep.TestResults.ScenariosTested, writers, "no update may be lost")
}
