package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/YoshitsuguKoike/uatreport/internal/application/usecase/report"
	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

func TestParseBatch_YAMLShorthand(t *testing.T) {
	data := `
suite_id: TS-001
summary_notes: first pass
scenarios:
  - scenario_id: TS-001-SC-001
    status: passed
    execution_date: 2025-10-10T15:08:00
    actual_results: |
      Company list renders
    notes: ok
  - scenario_id: TS-001-SC-002
    status: not tested
    execution_date: 2025-10-10
    actual_results: "Cafe\u0301 filter"
    notes: ""
`
	b, err := usecase.ParseBatch([]byte(data))
	require.NoError(t, err)

	require.Len(t, b.Suites, 1)
	sb := b.Suites[0]
	assert.Equal(t, "TS-001", sb.SuiteID)
	require.NotNil(t, sb.SummaryNotes)
	assert.Equal(t, "first pass", *sb.SummaryNotes)
	assert.Equal(t, []string{"TS-001"}, suiteIDs(b))

	require.Len(t, sb.Scenarios, 2)
	assert.Equal(t, report.StatusPassed, sb.Scenarios[0].Status)
	assert.Equal(t, "2025-10-10T15:08:00", sb.Scenarios[0].ExecutionDate)
	assert.Equal(t, "Company list renders", sb.Scenarios[0].ActualResults)

	assert.Equal(t, report.StatusNotTested, sb.Scenarios[1].Status)
	assert.Equal(t, "2025-10-10", sb.Scenarios[1].ExecutionDate)
	assert.Equal(t, "Caf\u00e9 filter", sb.Scenarios[1].ActualResults)
}

func TestParseBatch_JSON(t *testing.T) {
	data := `{
  "suites": [
    {"suite_id": "TS-001", "scenarios": [{"scenario_id": "TS-001-SC-001", "status": "FAILED", "defect_id": "DEF-001"}]},
    {"suite_id": "TS-002", "scenarios": []}
  ],
  "defects": [{"defect_id": "DEF-001", "scenario_id": "TS-001-SC-001", "severity": "High", "title": "Save fails"}],
  "defect_updates": [{"defect_id": "DEF-000", "patch": {"severity": "LOW", "retest_count": 2}}]
}`
	b, err := usecase.ParseBatch([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"TS-001", "TS-002"}, suiteIDs(b))
	assert.Equal(t, "DEF-001", b.Suites[0].Scenarios[0].DefectID)
	require.Len(t, b.Defects, 1)
	assert.Equal(t, report.SeverityHigh, b.Defects[0].Severity)
	require.Len(t, b.DefectUpdates, 1)
	assert.Equal(t, "low", b.DefectUpdates[0].Patch["severity"])
	assert.EqualValues(t, 2, b.DefectUpdates[0].Patch["retest_count"])
}

func TestParseBatch_ShorthandAndSuites(t *testing.T) {
	data := `
suite_id: TS-001
scenarios:
  - {scenario_id: TS-001-SC-001, status: PASSED}
suites:
  - suite_id: TS-002
    scenarios:
      - {scenario_id: TS-002-SC-001, status: BLOCKED}
`
	b, err := usecase.ParseBatch([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"TS-001", "TS-002"}, suiteIDs(b))
	assert.Empty(t, b.SuiteID)
	assert.Nil(t, b.Scenarios)
}

func TestParseBatch_Aliases(t *testing.T) {
	data := `
suite_id: TS-001
scenarios:
  - &base {scenario_id: TS-001-SC-001, status: PASSED, notes: shared}
  - scenario_id: TS-001-SC-002
    status: PASSED
    notes: *base
`
	_, err := usecase.ParseBatch([]byte(data))
	// an alias to a mapping in a string field is a type error
	assert.Error(t, err)

	data = `
suite_id: TS-001
scenarios:
  - {scenario_id: TS-001-SC-001, status: PASSED, notes: &n shared}
  - {scenario_id: TS-001-SC-002, status: PASSED, notes: *n}
`
	b, err := usecase.ParseBatch([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "shared", b.Suites[0].Scenarios[1].Notes)
}

func TestParseBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty document",
			data:    "",
			wantMsg: "must be a mapping",
		},
		{
			name:    "list at top level",
			data:    "- a\n- b\n",
			wantMsg: "must be a mapping",
		},
		{
			name:    "unknown top-level key",
			data:    "summary_notes_typo: x\n",
			wantMsg: "unknown field",
		},
		{
			name:    "empty batch",
			data:    "defects: []\n",
			wantMsg: "batch is empty",
		},
		{
			name:    "unknown status",
			data:    "suite_id: TS-001\nscenarios:\n  - {scenario_id: TS-001-SC-001, status: DONE}\n",
			wantErr: report.ErrInvalidRecord,
		},
		{
			name:    "unknown severity",
			data:    "defects:\n  - {defect_id: DEF-001, severity: urgent}\n",
			wantErr: report.ErrInvalidRecord,
		},
		{
			name:    "unknown patch severity",
			data:    "defect_updates:\n  - {defect_id: DEF-001, patch: {severity: urgent}}\n",
			wantErr: report.ErrInvalidRecord,
		},
		{
			name:    "suite without id",
			data:    "suites:\n  - scenarios: []\n",
			wantErr: report.ErrInvalidRecord,
		},
		{
			name:    "suite listed twice",
			data:    "suites:\n  - {suite_id: TS-001}\n  - {suite_id: TS-001}\n",
			wantErr: report.ErrInvalidRecord,
		},
		{
			name:    "update without id",
			data:    "defect_updates:\n  - {patch: {title: x}}\n",
			wantErr: report.ErrInvalidRecord,
		},
		{
			name:    "invalid yaml",
			data:    "suite_id: [unterminated\n",
			wantMsg: "failed to parse batch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.ParseBatch([]byte(tt.data))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseBatch_TooLarge(t *testing.T) {
	data := "notes: " + strings.Repeat("x", usecase.MaxBatchSize)
	_, err := usecase.ParseBatch([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func suiteIDs(b *usecase.Batch) []string {
	ids := make([]string, 0, len(b.Suites))
	for _, sb := range b.Suites {
		ids = append(ids, sb.SuiteID)
	}
	return ids
}
