package output

import (
	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

// ReportRepository loads and persists the report document.
type ReportRepository interface {
	// Load reads the report at path
	Load(path string) (*report.Report, error)

	// Save replaces the report at path atomically
	Save(rep *report.Report, path string) error

	// Update runs mutate under an exclusive lock and saves the result.
	// If mutate fails nothing is written.
	Update(path string, mutate func(*report.Report) error) (*report.Report, error)
}
