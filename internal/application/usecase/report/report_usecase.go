package report

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/uatreport/internal/app/config"
	"github.com/YoshitsuguKoike/uatreport/internal/application/dto"
	"github.com/YoshitsuguKoike/uatreport/internal/application/port/output"
	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

// ExecutionDateLayout is the format of generated execution_date values.
const ExecutionDateLayout = "2006-01-02T15:04:05"

// ReportUseCase runs each report command as one locked read-modify-write.
type ReportUseCase struct {
	repo output.ReportRepository
	fs   afero.Fs
	cfg  config.Config

	now           func() time.Time
	newRevisionID func(time.Time) string
}

// NewReportUseCase creates a new ReportUseCase
func NewReportUseCase(repo output.ReportRepository, fsys afero.Fs, cfg config.Config) *ReportUseCase {
	return &ReportUseCase{
		repo:          repo,
		fs:            fsys,
		cfg:           cfg,
		now:           time.Now,
		newRevisionID: newULIDGenerator(),
	}
}

// newULIDGenerator returns a goroutine-safe monotonic ULID source.
func newULIDGenerator() func(time.Time) string {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func(t time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		return ulid.MustNew(ulid.Timestamp(t), entropy).String()
	}
}

func (u *ReportUseCase) reportPath(p string) string {
	if p != "" {
		return p
	}
	return u.cfg.ReportPath()
}

func (u *ReportUseCase) resultsMeta() report.ResultsMeta {
	return report.ResultsMeta{
		ExecutionDate:   u.now().Format(ExecutionDateLayout),
		Tester:          u.cfg.Tester(),
		TestEnvironment: u.cfg.TestEnvironment(),
	}
}

func (u *ReportUseCase) revisionStamp() *report.RevisionStamp {
	if !u.cfg.TrackDefectRevisions() {
		return nil
	}
	at := u.now()
	return &report.RevisionStamp{ID: u.newRevisionID(at), At: at}
}

// Init ensures the report has a test_results section.
func (u *ReportUseCase) Init(ctx context.Context, reportPath string) (*dto.InitOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := u.reportPath(reportPath)

	var created bool
	_, err := u.repo.Update(path, func(rep *report.Report) error {
		created = rep.EnsureResultsSection(u.resultsMeta())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.InitOutput{ReportPath: path, Created: created}, nil
}

// Record applies a batch and recomputes the summaries of the suites it touches.
func (u *ReportUseCase) Record(ctx context.Context, input dto.RecordInput) (*dto.RecordOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := input.BatchData
	if data == nil {
		var err error
		data, err = u.readBatch(input.BatchPath)
		if err != nil {
			return nil, err
		}
	}
	batch, err := ParseBatch(data)
	if err != nil {
		if input.BatchPath != "" {
			return nil, fmt.Errorf("%s: %w", input.BatchPath, err)
		}
		return nil, err
	}

	out := &dto.RecordOutput{}
	_, err = u.repo.Update(u.reportPath(input.ReportPath), func(rep *report.Report) error {
		*out = dto.RecordOutput{}
		rep.EnsureResultsSection(u.resultsMeta())
		return u.apply(rep, batch, input.SkipExisting, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *ReportUseCase) readBatch(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no batch given")
	}
	f, err := u.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBatchSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read batch %s: %w", path, err)
	}
	return data, nil
}

func (u *ReportUseCase) apply(rep *report.Report, batch *Batch, skipExisting bool, out *dto.RecordOutput) error {
	stampDate := u.now().Format(ExecutionDateLayout)

	for _, sb := range batch.Suites {
		scenarios := make([]*report.ScenarioResult, 0, len(sb.Scenarios))
		for _, sc := range sb.Scenarios {
			if sc != nil {
				if skipExisting && sameScenario(rep, sc) {
					out.SkippedScenarios++
					continue
				}
				if sc.ExecutionDate == "" {
					sc.ExecutionDate = stampDate
				}
			}
			scenarios = append(scenarios, sc)
		}
		if err := rep.AppendScenarios(sb.SuiteID, scenarios); err != nil {
			return err
		}
		out.AddedScenarios += len(scenarios)
	}

	defects := make([]*report.Defect, 0, len(batch.Defects))
	for _, d := range batch.Defects {
		if skipExisting && d != nil && sameDefect(rep, d) {
			out.SkippedDefects = append(out.SkippedDefects, d.DefectID)
			continue
		}
		defects = append(defects, d)
	}
	if err := rep.AppendDefects(defects); err != nil {
		return err
	}
	for _, d := range defects {
		out.AddedDefects = append(out.AddedDefects, d.DefectID)
	}

	for _, upd := range batch.DefectUpdates {
		changed, err := rep.UpdateDefect(upd.DefectID, upd.Patch, u.revisionStamp())
		if err != nil {
			return err
		}
		if len(changed) > 0 {
			out.UpdatedDefects = append(out.UpdatedDefects, upd.DefectID)
		}
	}

	for _, sb := range batch.Suites {
		summary, err := rep.RecomputeSummary(sb.SuiteID, sb.SummaryNotes)
		if err != nil {
			return err
		}
		out.Suites = append(out.Suites, dto.SuiteTally{SuiteID: sb.SuiteID, Summary: *summary})
	}
	return nil
}

// sameScenario reports whether an identical result is already recorded.
// A result without execution_date matches any recorded date.
func sameScenario(rep *report.Report, sc *report.ScenarioResult) bool {
	for _, existing := range rep.TestResults.ScenariosTested {
		if existing.ScenarioID != sc.ScenarioID {
			continue
		}
		candidate := *sc
		if candidate.ExecutionDate == "" {
			candidate.ExecutionDate = existing.ExecutionDate
		}
		return sameJSON(existing, &candidate)
	}
	return false
}

func sameDefect(rep *report.Report, d *report.Defect) bool {
	existing := rep.Defect(d.DefectID)
	if existing == nil {
		return false
	}
	// History is appended by revisions and never part of a batch.
	trimmed := *existing
	trimmed.RevisionHistory = nil
	return sameJSON(&trimmed, d)
}

func sameJSON(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

// UpdateDefect revises one defect in place.
func (u *ReportUseCase) UpdateDefect(ctx context.Context, input dto.UpdateDefectInput) (*dto.UpdateDefectOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := canonicalizePatch(input.DefectID, input.Patch); err != nil {
		return nil, err
	}

	out := &dto.UpdateDefectOutput{DefectID: input.DefectID}
	_, err := u.repo.Update(u.reportPath(input.ReportPath), func(rep *report.Report) error {
		stamp := u.revisionStamp()
		changed, err := rep.UpdateDefect(input.DefectID, input.Patch, stamp)
		if err != nil {
			return err
		}
		out.ChangedFields = changed
		if stamp != nil && len(changed) > 0 {
			out.RevisionID = stamp.ID
		}
		out.Severity = rep.Defect(input.DefectID).Severity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Recompute rewrites one suite's test_summary from its recorded results.
func (u *ReportUseCase) Recompute(ctx context.Context, reportPath, suiteID string, notes *string) (*dto.SuiteTally, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out dto.SuiteTally
	_, err := u.repo.Update(u.reportPath(reportPath), func(rep *report.Report) error {
		summary, err := rep.RecomputeSummary(suiteID, notes)
		if err != nil {
			return err
		}
		out = dto.SuiteTally{SuiteID: suiteID, Summary: *summary}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize writes test_execution_summary, refreshing every suite summary.
func (u *ReportUseCase) Summarize(ctx context.Context, reportPath, notes string) (*report.ExecutionSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out *report.ExecutionSummary
	_, err := u.repo.Update(u.reportPath(reportPath), func(rep *report.Report) error {
		out = rep.ComputeExecutionSummary(notes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Show computes current tallies without writing. An empty suiteID covers
// every suite.
func (u *ReportUseCase) Show(ctx context.Context, reportPath, suiteID string) (*dto.ShowOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep, err := u.repo.Load(u.reportPath(reportPath))
	if err != nil {
		return nil, err
	}

	ids := []string{suiteID}
	if suiteID == "" {
		ids = ids[:0]
		for _, s := range rep.TestSuites {
			ids = append(ids, s.SuiteID)
		}
	}

	out := &dto.ShowOutput{
		DefectsBySeverity: rep.DefectsBySeverity(),
		MissingDefects:    rep.MissingDefectRefs(suiteID),
	}
	for _, id := range ids {
		summary, err := rep.RecomputeSummary(id, nil)
		if err != nil {
			return nil, err
		}
		out.Suites = append(out.Suites, dto.SuiteTally{SuiteID: id, Summary: *summary})
	}
	for _, n := range out.DefectsBySeverity {
		out.TotalDefects += n
	}
	return out, nil
}
