package report_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

func TestFormatPassRate(t *testing.T) {
	tests := []struct {
		passed, tested int
		want           string
	}{
		{0, 0, "0%"},
		{0, 4, "0%"},
		{1, 4, "25%"},
		{4, 6, "66.7%"},
		{2, 2, "100%"},
		{20, 73, "27.4%"},
		{1, 3, "33.3%"},
		{1, 8, "12.5%"},
		{3, 4, "75%"},
		{1999, 2000, "99.9%"},
		{1, 2000, "0.1%"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.passed, tt.tested), func(t *testing.T) {
			assert.Equal(t, tt.want, report.FormatPassRate(tt.passed, tt.tested))
		})
	}
}

func TestRecomputeSummary_Example(t *testing.T) {
	r := mustParse(t, `{"test_suites": [{"suite_id": "TS-001"}]}`)
	r.EnsureResultsSection(report.ResultsMeta{})

	statuses := []report.Status{
		report.StatusPassed, report.StatusPassed, report.StatusPassed, report.StatusPassed,
		report.StatusFailed, report.StatusBlocked,
	}
	var batch []*report.ScenarioResult
	for i, s := range statuses {
		batch = append(batch, scenario(fmt.Sprintf("TS-001-SC-%03d", i+1), s))
	}
	require.NoError(t, r.AppendScenarios("TS-001", batch))

	summary, err := r.RecomputeSummary("TS-001", nil)
	require.NoError(t, err)
	assert.Equal(t, &report.TestSummary{
		TotalScenarios:  6,
		ScenariosTested: 6,
		Passed:          4,
		Failed:          1,
		Blocked:         1,
		PassRate:        "66.7%",
	}, summary)
	assert.Same(t, summary, r.Suite("TS-001").TestSummary)
}

func TestRecomputeSummary_Idempotent(t *testing.T) {
	r := emptyReport(t)
	require.NoError(t, r.AppendScenarios("TS-002", []*report.ScenarioResult{
		scenario("TS-002-SC-001", report.StatusPassed),
		scenario("TS-002-SC-002", report.StatusPartial),
		scenario("TS-002-SC-003", report.StatusNotTested),
	}))
	notes := "Location CRUD works"

	first, err := r.RecomputeSummary("TS-002", &notes)
	require.NoError(t, err)
	firstCopy := *first

	second, err := r.RecomputeSummary("TS-002", nil)
	require.NoError(t, err)
	assert.Equal(t, firstCopy, *second)
	assert.Equal(t, "Location CRUD works", second.Notes)
}

func TestRecomputeSummary_Invariants(t *testing.T) {
	r := mustParse(t, `{"test_suites": [
		{"suite_id": "TS-001", "test_scenarios": [{}, {}, {}, {}, {}, {}, {}, {}, {}, {}]},
		{"suite_id": "TS-010"}
	]}`)
	r.EnsureResultsSection(report.ResultsMeta{})

	for round := 0; round < 3; round++ {
		var batch []*report.ScenarioResult
		for i := 0; i < 3; i++ {
			n := round*3 + i
			batch = append(batch, scenario(fmt.Sprintf("TS-001-SC-%03d", n), report.AllStatuses[n%len(report.AllStatuses)]))
		}
		require.NoError(t, r.AppendScenarios("TS-001", batch))
		require.NoError(t, r.AppendScenarios("TS-010", []*report.ScenarioResult{
			scenario(fmt.Sprintf("TS-010-SC-%03d", round), report.StatusFailed),
		}))

		for _, s := range r.TestSuites {
			sum, err := r.RecomputeSummary(s.SuiteID, nil)
			require.NoError(t, err)
			assert.Equal(t, sum.ScenariosTested, sum.Passed+sum.Failed+sum.Blocked+sum.Partial+sum.NotTested)
			assert.LessOrEqual(t, sum.ScenariosTested, sum.TotalScenarios)
			assert.Len(t, r.ScenariosFor(s.SuiteID), sum.ScenariosTested)
		}
	}

	assert.Equal(t, 10, r.Suite("TS-001").TestSummary.TotalScenarios)
	assert.Equal(t, 9, r.Suite("TS-001").TestSummary.ScenariosTested)
	assert.Equal(t, 3, r.Suite("TS-010").TestSummary.TotalScenarios, "TS-010 must not absorb TS-001 results")
}

func TestRecomputeSummary_SuiteNotFound(t *testing.T) {
	r := emptyReport(t)
	_, err := r.RecomputeSummary("TS-404", nil)
	assert.ErrorIs(t, err, report.ErrSuiteNotFound)
}

func TestRecomputeSummary_NoResults(t *testing.T) {
	r := mustParse(t, `{"test_suites": [{"suite_id": "TS-001"}]}`)
	summary, err := r.RecomputeSummary("TS-001", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ScenariosTested)
	assert.Equal(t, "0%", summary.PassRate)
}

func TestComputeExecutionSummary_Empty(t *testing.T) {
	r := mustParse(t, `{"test_suites": [{"suite_id": "TS-001"}]}`)

	var es *report.ExecutionSummary
	assert.NotPanics(t, func() { es = r.ComputeExecutionSummary("") })
	assert.Equal(t, "0%", es.PassRate)
	assert.Equal(t, 0, es.ScenariosExecuted)
	assert.Nil(t, es.TestPeriod)
	assert.Same(t, es, r.ExecutionSummary)
}

func TestComputeExecutionSummary(t *testing.T) {
	r := emptyReport(t)
	first := scenario("TS-001-SC-001", report.StatusPassed)
	first.ExecutionDate = "2025-10-10T14:00:00"
	last := scenario("TS-002-SC-002", report.StatusBlocked)
	last.ExecutionDate = "2025-10-10T16:05:00"
	undated := scenario("TS-001-SC-002", report.StatusFailed)
	undated.ExecutionDate = "sometime"

	require.NoError(t, r.AppendScenarios("TS-001", []*report.ScenarioResult{first, undated}))
	require.NoError(t, r.AppendScenarios("TS-002", []*report.ScenarioResult{
		scenario("TS-002-SC-001", report.StatusPartial),
		last,
	}))
	require.NoError(t, r.AppendDefects([]*report.Defect{
		defect("DEF-001", report.SeverityCritical),
		defect("DEF-002", report.SeverityMedium),
		defect("DEF-003", report.SeverityCritical),
	}))

	es := r.ComputeExecutionSummary("needs fixes before re-test")

	assert.Equal(t, 4, es.TotalScenarios)
	assert.Equal(t, 4, es.ScenariosExecuted)
	assert.Equal(t, report.ResultCounts{Passed: 1, Failed: 1, Blocked: 1, Partial: 1}, es.Results)
	assert.Equal(t, "25%", es.PassRate)
	assert.Equal(t, 2, es.CriticalDefects)
	assert.Equal(t, 0, es.HighDefects)
	assert.Equal(t, 1, es.MediumDefects)
	assert.Equal(t, "needs fixes before re-test", es.Notes)
	require.NotNil(t, es.TestPeriod)
	assert.Equal(t, "2025-10-10T14:00:00", es.TestPeriod.StartDate)
	assert.Equal(t, "2025-10-10T16:05:00", es.TestPeriod.EndDate)
	assert.Equal(t, 2.08, es.TestPeriod.DurationHours)

	require.NotNil(t, r.Suite("TS-001").TestSummary)
	assert.Equal(t, "50%", r.Suite("TS-001").TestSummary.PassRate)

	again := r.ComputeExecutionSummary("")
	assert.Equal(t, "needs fixes before re-test", again.Notes)
}

func TestSummaries_KeepForeignKeysAcrossRecompute(t *testing.T) {
	r := mustParse(t, `{
	  "test_suites": [
	    {"suite_id": "TS-001", "test_summary": {"total_scenarios": 1, "scenarios_tested": 0, "passed": 0, "failed": 0, "blocked": 0, "partial": 0, "pass_rate": "0%", "notes": "", "reviewer": "kim"}}
	  ],
	  "test_execution_summary": {
	    "test_period": {"start_date": "2025-10-09T09:00:00", "end_date": "2025-10-09T10:00:00", "duration_hours": 1, "timezone": "JST"},
	    "total_scenarios": 1,
	    "scenarios_executed": 0,
	    "results": {"passed": 0, "failed": 0, "blocked": 0, "partial": 0, "not_tested": 0, "skipped": 2},
	    "pass_rate": "0%",
	    "critical_defects": 0, "high_defects": 0, "medium_defects": 0, "low_defects": 0,
	    "notes": "",
	    "tester_signoff": "bob"
	  }
	}`)
	r.EnsureResultsSection(report.ResultsMeta{})
	passed := scenario("TS-001-SC-001", report.StatusPassed)
	passed.ExecutionDate = "2025-10-10T14:00:00"
	require.NoError(t, r.AppendScenarios("TS-001", []*report.ScenarioResult{passed}))

	r.ComputeExecutionSummary("")
	data, err := r.Encode()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	summary := doc["test_suites"].([]interface{})[0].(map[string]interface{})["test_summary"].(map[string]interface{})
	assert.Equal(t, "kim", summary["reviewer"])
	assert.Equal(t, "100%", summary["pass_rate"])
	assert.NotContains(t, summary, "partial", "a recomputed zero partial count is omitted")

	es := doc["test_execution_summary"].(map[string]interface{})
	assert.Equal(t, "bob", es["tester_signoff"])
	assert.Equal(t, "JST", es["test_period"].(map[string]interface{})["timezone"])
	results := es["results"].(map[string]interface{})
	assert.Equal(t, float64(2), results["skipped"])
	assert.NotContains(t, results, "not_tested")
}
