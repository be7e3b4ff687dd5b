package input

import (
	"context"

	"github.com/YoshitsuguKoike/uatreport/internal/application/dto"
	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

// ReportUseCase is the set of report commands the CLI drives.
type ReportUseCase interface {
	Init(ctx context.Context, reportPath string) (*dto.InitOutput, error)
	Record(ctx context.Context, input dto.RecordInput) (*dto.RecordOutput, error)
	UpdateDefect(ctx context.Context, input dto.UpdateDefectInput) (*dto.UpdateDefectOutput, error)
	Recompute(ctx context.Context, reportPath, suiteID string, notes *string) (*dto.SuiteTally, error)
	Summarize(ctx context.Context, reportPath, notes string) (*report.ExecutionSummary, error)
	Show(ctx context.Context, reportPath, suiteID string) (*dto.ShowOutput, error)
}
