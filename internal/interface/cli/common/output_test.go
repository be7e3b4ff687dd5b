package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YoshitsuguKoike/uatreport/internal/application/dto"
	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

func TestOutput_SuiteTally(t *testing.T) {
	var buf bytes.Buffer
	o := NewOutput(&buf, false)

	o.SuiteTally(dto.SuiteTally{
		SuiteID: "TS-001",
		Summary: report.TestSummary{
			TotalScenarios:  4,
			ScenariosTested: 3,
			Passed:          1,
			Failed:          1,
			Partial:         1,
			PassRate:        "33.3%",
			Notes:           "save broken",
		},
	})

	assert.Equal(t,
		"TS-001  3/4 tested  passed 1  failed 1  blocked 0  partial 1  pass rate 33.3%\n  save broken\n",
		buf.String())
}

func TestOutput_NotTestedShownWhenPresent(t *testing.T) {
	var buf bytes.Buffer
	o := NewOutput(&buf, false)

	o.SuiteTally(dto.SuiteTally{
		SuiteID: "TS-002",
		Summary: report.TestSummary{TotalScenarios: 2, ScenariosTested: 2, NotTested: 2, PassRate: "0%"},
	})
	assert.Contains(t, buf.String(), "not tested 2")
}

func TestOutput_Color(t *testing.T) {
	var plain, colored bytes.Buffer
	tally := dto.SuiteTally{
		SuiteID: "TS-001",
		Summary: report.TestSummary{TotalScenarios: 1, ScenariosTested: 1, Passed: 1, PassRate: "100%"},
	}

	NewOutput(&plain, false).SuiteTally(tally)
	NewOutput(&colored, true).SuiteTally(tally)

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestOutput_Defects(t *testing.T) {
	var buf bytes.Buffer
	NewOutput(&buf, false).Defects(map[report.Severity]int{
		report.SeverityHigh: 2,
		report.SeverityLow:  1,
	}, 3)

	assert.Equal(t, "defects 3  critical 0  high 2  medium 0  low 1\n", buf.String())
}

func TestOutput_ExecutionSummary(t *testing.T) {
	var buf bytes.Buffer
	NewOutput(&buf, false).ExecutionSummary(&report.ExecutionSummary{
		TestPeriod: &report.TestPeriod{
			StartDate:     "2025-10-10T15:08:00",
			EndDate:       "2025-10-10T17:13:00",
			DurationHours: 2.08,
		},
		TotalScenarios:    4,
		ScenariosExecuted: 4,
		Results:           report.ResultCounts{Passed: 1, Failed: 1, Blocked: 1, Partial: 1},
		PassRate:          "25%",
		CriticalDefects:   1,
	})

	assert.Equal(t, ""+
		"period  2025-10-10T15:08:00 .. 2025-10-10T17:13:00 (2.08h)\n"+
		"4/4 executed  passed 1  failed 1  blocked 1  partial 1  pass rate 25%\n"+
		"defects 1  critical 1  high 0  medium 0  low 0\n",
		buf.String())
}

func TestOutput_Record(t *testing.T) {
	var buf bytes.Buffer
	NewOutput(&buf, false).Record(&dto.RecordOutput{
		AddedScenarios:   2,
		SkippedScenarios: 1,
		AddedDefects:     []string{"DEF-002"},
		UpdatedDefects:   []string{"DEF-003", "DEF-001"},
	})

	out := buf.String()
	assert.Contains(t, out, "✓ recorded 2 scenario(s)")
	assert.Contains(t, out, "skipped 1 already recorded scenario(s)")
	assert.Contains(t, out, "new defects: DEF-002")
	assert.Contains(t, out, "revised defects: DEF-001, DEF-003")
}
