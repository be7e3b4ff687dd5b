package common

import (
	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/uatreport/internal/application/port/input"
	usecase "github.com/YoshitsuguKoike/uatreport/internal/application/usecase/report"
	infraReport "github.com/YoshitsuguKoike/uatreport/internal/infra/repository/report"
)

var _ input.ReportUseCase = (*usecase.ReportUseCase)(nil)

// NewReportUseCase wires the report use case to the report file on disk.
func NewReportUseCase() input.ReportUseCase {
	fsys := afero.NewOsFs()
	repo := infraReport.NewFileReportRepository(fsys)
	repo.Logger = GetLogger()
	return usecase.NewReportUseCase(repo, fsys, GetGlobalConfig())
}
