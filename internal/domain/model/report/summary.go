package report

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Tally counts scenario results by status.
type Tally struct {
	Passed    int
	Failed    int
	Blocked   int
	Partial   int
	NotTested int
}

// Add counts one result.
func (t *Tally) Add(s Status) {
	switch s {
	case StatusPassed:
		t.Passed++
	case StatusFailed:
		t.Failed++
	case StatusBlocked:
		t.Blocked++
	case StatusPartial:
		t.Partial++
	case StatusNotTested:
		t.NotTested++
	}
}

// Merge adds o into t.
func (t *Tally) Merge(o Tally) {
	t.Passed += o.Passed
	t.Failed += o.Failed
	t.Blocked += o.Blocked
	t.Partial += o.Partial
	t.NotTested += o.NotTested
}

// Total is the number of results counted.
func (t Tally) Total() int {
	return t.Passed + t.Failed + t.Blocked + t.Partial + t.NotTested
}

// Count returns the count for one status.
func (t Tally) Count(s Status) int {
	switch s {
	case StatusPassed:
		return t.Passed
	case StatusFailed:
		return t.Failed
	case StatusBlocked:
		return t.Blocked
	case StatusPartial:
		return t.Partial
	case StatusNotTested:
		return t.NotTested
	}
	return 0
}

// PassRate formats passed/total as a percentage.
func (t Tally) PassRate() string {
	return FormatPassRate(t.Passed, t.Total())
}

// FormatPassRate renders passed/tested as "25%", or "66.7%" when the
// percentage is not whole. Zero tested yields "0%". Rounding never reaches
// "100%" with a failure or "0%" with a pass.
func FormatPassRate(passed, tested int) string {
	if tested <= 0 {
		return "0%"
	}
	if passed*100%tested == 0 {
		return strconv.Itoa(passed*100/tested) + "%"
	}
	pct := math.Round(float64(passed)*1000/float64(tested)) / 10
	switch {
	case pct >= 100:
		pct = 99.9
	case pct <= 0:
		pct = 0.1
	}
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

// TallySuite counts the results owned by suiteID.
func (r *Report) TallySuite(suiteID string) Tally {
	var t Tally
	for _, sc := range r.ScenariosFor(suiteID) {
		t.Add(sc.Status)
	}
	return t
}

// RecomputeSummary derives the suite's test_summary from the current
// scenario list. notes replaces the summary notes when non-nil; otherwise
// the previous notes are kept.
func (r *Report) RecomputeSummary(suiteID string, notes *string) (*TestSummary, error) {
	suite := r.Suite(suiteID)
	if suite == nil {
		return nil, fmt.Errorf("%w: %s", ErrSuiteNotFound, suiteID)
	}
	return r.recomputeSuite(suite, notes), nil
}

func (r *Report) recomputeSuite(suite *Suite, notes *string) *TestSummary {
	t := r.TallySuite(suite.SuiteID)
	summary := &TestSummary{
		TotalScenarios:  max(suite.DefinedScenarios(), t.Total()),
		ScenariosTested: t.Total(),
		Passed:          t.Passed,
		Failed:          t.Failed,
		Blocked:         t.Blocked,
		Partial:         t.Partial,
		NotTested:       t.NotTested,
		PassRate:        t.PassRate(),
	}
	if prev := suite.TestSummary; prev != nil {
		summary.Notes = prev.Notes
		summary.Extra = prev.Extra.without("partial", "not_tested")
	}
	if notes != nil {
		summary.Notes = *notes
	}
	suite.TestSummary = summary
	return summary
}

// ExecutionSummary is the whole-report rollup written to test_execution_summary.
type ExecutionSummary struct {
	TestPeriod        *TestPeriod  `json:"test_period,omitempty"`
	TotalScenarios    int          `json:"total_scenarios"`
	ScenariosExecuted int          `json:"scenarios_executed"`
	Results           ResultCounts `json:"results"`
	PassRate          string       `json:"pass_rate"`
	CriticalDefects   int          `json:"critical_defects"`
	HighDefects       int          `json:"high_defects"`
	MediumDefects     int          `json:"medium_defects"`
	LowDefects        int          `json:"low_defects"`
	Notes             string       `json:"notes"`

	Extra Extra `json:"-"`
}

// TestPeriod spans the earliest and latest scenario execution dates.
type TestPeriod struct {
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DurationHours float64 `json:"duration_hours"`

	Extra Extra `json:"-"`
}

// ResultCounts is the per-status total across all suites.
type ResultCounts struct {
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Blocked   int `json:"blocked"`
	Partial   int `json:"partial"`
	NotTested int `json:"not_tested,omitempty"`

	Extra Extra `json:"-"`
}

func (e *ExecutionSummary) UnmarshalJSON(data []byte) error {
	type plain ExecutionSummary
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*e = ExecutionSummary(p)
	e.Extra = extra
	return nil
}

func (e ExecutionSummary) MarshalJSON() ([]byte, error) {
	type plain ExecutionSummary
	return encodeWithExtra(plain(e), e.Extra)
}

func (p *TestPeriod) UnmarshalJSON(data []byte) error {
	type plain TestPeriod
	var v plain
	extra, err := decodeWithExtra(data, &v)
	if err != nil {
		return err
	}
	*p = TestPeriod(v)
	p.Extra = extra
	return nil
}

func (p TestPeriod) MarshalJSON() ([]byte, error) {
	type plain TestPeriod
	return encodeWithExtra(plain(p), p.Extra)
}

func (c *ResultCounts) UnmarshalJSON(data []byte) error {
	type plain ResultCounts
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	if extra, err = keepZeros(data, extra, "not_tested"); err != nil {
		return err
	}
	*c = ResultCounts(p)
	c.Extra = extra
	return nil
}

func (c ResultCounts) MarshalJSON() ([]byte, error) {
	type plain ResultCounts
	return encodeWithExtra(plain(c), c.Extra)
}

// ComputeExecutionSummary recomputes every suite summary and writes the
// aggregate onto the report. Empty notes keep the previous summary notes.
func (r *Report) ComputeExecutionSummary(notes string) *ExecutionSummary {
	var (
		total int
		all   Tally
	)
	for _, s := range r.TestSuites {
		total += r.recomputeSuite(s, nil).TotalScenarios
		all.Merge(r.TallySuite(s.SuiteID))
	}

	es := &ExecutionSummary{
		TestPeriod:        r.testPeriod(),
		TotalScenarios:    total,
		ScenariosExecuted: all.Total(),
		Results: ResultCounts{
			Passed:    all.Passed,
			Failed:    all.Failed,
			Blocked:   all.Blocked,
			Partial:   all.Partial,
			NotTested: all.NotTested,
		},
		PassRate: all.PassRate(),
		Notes:    notes,
	}
	if prev := r.ExecutionSummary; prev != nil {
		if notes == "" {
			es.Notes = prev.Notes
		}
		es.Extra = prev.Extra
		es.Results.Extra = prev.Results.Extra.without("not_tested")
		if es.TestPeriod != nil && prev.TestPeriod != nil {
			es.TestPeriod.Extra = prev.TestPeriod.Extra
		}
	}
	for sev, n := range r.DefectsBySeverity() {
		switch sev {
		case SeverityCritical:
			es.CriticalDefects = n
		case SeverityHigh:
			es.HighDefects = n
		case SeverityMedium:
			es.MediumDefects = n
		case SeverityLow:
			es.LowDefects = n
		}
	}

	r.ExecutionSummary = es
	return es
}

// DefectsBySeverity counts recorded defects per severity.
func (r *Report) DefectsBySeverity() map[Severity]int {
	counts := make(map[Severity]int, len(AllSeverities))
	if r.TestResults == nil {
		return counts
	}
	for _, d := range r.TestResults.Defects {
		counts[d.Severity]++
	}
	return counts
}

var executionDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseExecutionDate accepts ISO-8601 with or without zone.
func ParseExecutionDate(v string) (time.Time, bool) {
	for _, layout := range executionDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// testPeriod returns nil when no scenario carries a parseable date.
func (r *Report) testPeriod() *TestPeriod {
	if r.TestResults == nil {
		return nil
	}
	var (
		start, end       time.Time
		startRaw, endRaw string
	)
	for _, sc := range r.TestResults.ScenariosTested {
		t, ok := ParseExecutionDate(sc.ExecutionDate)
		if !ok {
			continue
		}
		if startRaw == "" || t.Before(start) {
			start, startRaw = t, sc.ExecutionDate
		}
		if endRaw == "" || t.After(end) {
			end, endRaw = t, sc.ExecutionDate
		}
	}
	if startRaw == "" {
		return nil
	}
	return &TestPeriod{
		StartDate:     startRaw,
		EndDate:       endRaw,
		DurationHours: math.Round(end.Sub(start).Hours()*100) / 100,
	}
}
