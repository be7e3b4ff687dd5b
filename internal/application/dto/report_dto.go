package dto

import (
	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

// InitOutput is the result of ensuring the results section
type InitOutput struct {
	ReportPath string
	Created    bool
}

// RecordInput represents a batch of results to record
type RecordInput struct {
	ReportPath string
	BatchPath  string // Read from file
	BatchData  []byte // Pre-loaded batch (for testing or stdin)

	// SkipExisting ignores scenarios and defects already recorded with
	// identical content, so re-running the same batch is a no-op.
	SkipExisting bool
}

// SuiteTally is a suite's recomputed summary
type SuiteTally struct {
	SuiteID string             `json:"suite_id"`
	Summary report.TestSummary `json:"test_summary"`
}

// RecordOutput represents the result of recording a batch
type RecordOutput struct {
	Suites           []SuiteTally
	AddedScenarios   int
	SkippedScenarios int
	AddedDefects     []string
	SkippedDefects   []string
	UpdatedDefects   []string
}

// UpdateDefectInput represents a revision of one defect
type UpdateDefectInput struct {
	ReportPath string
	DefectID   string
	Patch      report.Patch
}

// UpdateDefectOutput represents the result of a defect revision
type UpdateDefectOutput struct {
	DefectID      string
	ChangedFields []string
	RevisionID    string // Empty when revisions are not tracked or nothing changed
	Severity      report.Severity
}

// ShowOutput is a read-only view of current tallies
type ShowOutput struct {
	Suites            []SuiteTally            `json:"suites"`
	DefectsBySeverity map[report.Severity]int `json:"defects_by_severity"`
	TotalDefects      int                     `json:"total_defects"`
	MissingDefects    []string                `json:"missing_defects,omitempty"`
}
