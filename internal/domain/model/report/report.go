package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Report is the UAT report document. Only test_suites is required.
type Report struct {
	TestSuites       []*Suite          `json:"test_suites"`
	TestResults      *TestResults      `json:"test_results,omitempty"`
	ExecutionSummary *ExecutionSummary `json:"test_execution_summary,omitempty"`

	Extra Extra `json:"-"`
}

// Suite is a named group of scenarios. Everything besides suite_id and
// test_summary (name, description, scenario definitions) is kept in Extra.
type Suite struct {
	SuiteID     string       `json:"suite_id"`
	TestSummary *TestSummary `json:"test_summary,omitempty"`

	Extra Extra `json:"-"`
}

// TestSummary is derived from the scenario results owned by a suite.
type TestSummary struct {
	TotalScenarios  int    `json:"total_scenarios"`
	ScenariosTested int    `json:"scenarios_tested"`
	Passed          int    `json:"passed"`
	Failed          int    `json:"failed"`
	Blocked         int    `json:"blocked"`
	Partial         int    `json:"partial,omitempty"`
	NotTested       int    `json:"not_tested,omitempty"`
	PassRate        string `json:"pass_rate"`
	Notes           string `json:"notes"`

	Extra Extra `json:"-"`
}

// TestResults holds execution metadata and the recorded results.
type TestResults struct {
	ExecutionDate   string            `json:"execution_date,omitempty"`
	Tester          string            `json:"tester,omitempty"`
	TestEnvironment string            `json:"test_environment,omitempty"`
	ScenariosTested []*ScenarioResult `json:"scenarios_tested"`
	Defects         []*Defect         `json:"defects"`

	Extra Extra `json:"-"`
}

// ScenarioResult is one executed scenario. Results are append-only.
type ScenarioResult struct {
	ScenarioID    string `json:"scenario_id"`
	Status        Status `json:"status"`
	ExecutionDate string `json:"execution_date"`
	ActualResults string `json:"actual_results"`
	Notes         string `json:"notes"`
	DefectID      string `json:"defect_id,omitempty"`

	Extra Extra `json:"-"`
}

// Defect is a recorded bug. Unlike scenario results, defects are revised in place.
type Defect struct {
	DefectID         string           `json:"defect_id"`
	ScenarioID       string           `json:"scenario_id"`
	Severity         Severity         `json:"severity"`
	Title            string           `json:"title"`
	StepsToReproduce []string         `json:"steps_to_reproduce"`
	ExpectedResult   string           `json:"expected_result"`
	ActualResult     string           `json:"actual_result"`
	RootCause        string           `json:"root_cause"`
	FixRequired      string           `json:"fix_required"`
	BrowserVersion   string           `json:"browser_version"`
	AdditionalNotes  string           `json:"additional_notes"`
	RevisionHistory  []DefectRevision `json:"revision_history,omitempty"`

	Extra Extra `json:"-"`
}

// DefectRevision records one patch applied to a defect.
type DefectRevision struct {
	RevisionID string                 `json:"revision_id"`
	RevisedAt  string                 `json:"revised_at"`
	Changes    map[string]FieldChange `json:"changes"`
}

// FieldChange holds the JSON value of a field before and after a patch.
// From is empty when the field did not exist.
type FieldChange struct {
	From json.RawMessage `json:"from,omitempty"`
	To   json.RawMessage `json:"to"`
}

// New returns an empty report.
func New() *Report {
	return &Report{TestSuites: []*Suite{}}
}

// Parse decodes and validates a report document.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Encode renders the report as 2-space indented JSON with a trailing newline.
func (r *Report) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Validate checks the structural invariants of a loaded report.
func (r *Report) Validate() error {
	if r.TestSuites == nil {
		return fmt.Errorf("%w: missing required key test_suites", ErrMalformedReport)
	}
	suites := make(map[string]bool, len(r.TestSuites))
	for i, s := range r.TestSuites {
		if s == nil || s.SuiteID == "" {
			return fmt.Errorf("%w: test_suites[%d] has no suite_id", ErrMalformedReport, i)
		}
		if suites[s.SuiteID] {
			return fmt.Errorf("%w: suite_id %s appears more than once", ErrMalformedReport, s.SuiteID)
		}
		suites[s.SuiteID] = true
	}
	if r.TestResults == nil {
		return nil
	}

	scenarios := make(map[string]bool, len(r.TestResults.ScenariosTested))
	for i, sc := range r.TestResults.ScenariosTested {
		if sc == nil || sc.ScenarioID == "" {
			return fmt.Errorf("%w: scenarios_tested[%d] has no scenario_id", ErrMalformedReport, i)
		}
		if scenarios[sc.ScenarioID] {
			return fmt.Errorf("%w: scenario_id %s appears more than once", ErrMalformedReport, sc.ScenarioID)
		}
		if !sc.Status.IsValid() {
			return fmt.Errorf("%w: scenario %s has unknown status %q", ErrMalformedReport, sc.ScenarioID, sc.Status)
		}
		scenarios[sc.ScenarioID] = true
	}

	defects := make(map[string]bool, len(r.TestResults.Defects))
	for i, d := range r.TestResults.Defects {
		if d == nil || d.DefectID == "" {
			return fmt.Errorf("%w: defects[%d] has no defect_id", ErrMalformedReport, i)
		}
		if defects[d.DefectID] {
			return fmt.Errorf("%w: defect_id %s appears more than once", ErrMalformedReport, d.DefectID)
		}
		if !d.Severity.IsValid() {
			return fmt.Errorf("%w: defect %s has unknown severity %q", ErrMalformedReport, d.DefectID, d.Severity)
		}
		defects[d.DefectID] = true
	}
	return nil
}

// Suite returns the suite with the given id, or nil.
func (r *Report) Suite(suiteID string) *Suite {
	for _, s := range r.TestSuites {
		if s.SuiteID == suiteID {
			return s
		}
	}
	return nil
}

// Defect returns the defect with the given id, or nil.
func (r *Report) Defect(defectID string) *Defect {
	if r.TestResults == nil {
		return nil
	}
	for _, d := range r.TestResults.Defects {
		if d.DefectID == defectID {
			return d
		}
	}
	return nil
}

// ScenariosFor returns the results owned by suiteID in recorded order.
func (r *Report) ScenariosFor(suiteID string) []*ScenarioResult {
	if r.TestResults == nil {
		return nil
	}
	var out []*ScenarioResult
	for _, sc := range r.TestResults.ScenariosTested {
		if sc.BelongsTo(suiteID) {
			out = append(out, sc)
		}
	}
	return out
}

// BelongsTo reports whether the scenario id carries the suite id prefix,
// e.g. TS-001-SC-004 belongs to TS-001.
func (s *ScenarioResult) BelongsTo(suiteID string) bool {
	return suiteID != "" && strings.HasPrefix(s.ScenarioID, suiteID+"-")
}

// DefectIDs splits the comma-joined defect_id reference list.
func (s *ScenarioResult) DefectIDs() []string {
	var ids []string
	for _, id := range strings.Split(s.DefectID, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// MissingDefectRefs lists defect ids referenced by the results of suiteID
// (every result when suiteID is empty) that have no defect record.
func (r *Report) MissingDefectRefs(suiteID string) []string {
	if r.TestResults == nil {
		return nil
	}
	seen := make(map[string]bool)
	var missing []string
	for _, sc := range r.TestResults.ScenariosTested {
		if suiteID != "" && !sc.BelongsTo(suiteID) {
			continue
		}
		for _, id := range sc.DefectIDs() {
			if seen[id] || r.Defect(id) != nil {
				continue
			}
			seen[id] = true
			missing = append(missing, id)
		}
	}
	return missing
}

// DefinedScenarios counts the scenario definitions the suite carries under
// test_scenarios or scenarios. Zero when the suite defines none.
func (s *Suite) DefinedScenarios() int {
	for _, key := range []string{"test_scenarios", "scenarios"} {
		raw, ok := s.Extra[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			return len(items)
		}
	}
	return 0
}

func (r *Report) UnmarshalJSON(data []byte) error {
	type plain Report
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*r = Report(p)
	r.Extra = extra
	return nil
}

func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	if r.TestSuites == nil {
		r.TestSuites = []*Suite{}
	}
	return encodeWithExtra(plain(r), r.Extra)
}

func (s *Suite) UnmarshalJSON(data []byte) error {
	type plain Suite
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = Suite(p)
	s.Extra = extra
	return nil
}

func (s Suite) MarshalJSON() ([]byte, error) {
	type plain Suite
	return encodeWithExtra(plain(s), s.Extra)
}

func (t *TestSummary) UnmarshalJSON(data []byte) error {
	type plain TestSummary
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	if extra, err = keepZeros(data, extra, "partial", "not_tested"); err != nil {
		return err
	}
	*t = TestSummary(p)
	t.Extra = extra
	return nil
}

func (t TestSummary) MarshalJSON() ([]byte, error) {
	type plain TestSummary
	return encodeWithExtra(plain(t), t.Extra)
}

func (t *TestResults) UnmarshalJSON(data []byte) error {
	type plain TestResults
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*t = TestResults(p)
	t.Extra = extra
	if t.ScenariosTested == nil {
		t.ScenariosTested = []*ScenarioResult{}
	}
	if t.Defects == nil {
		t.Defects = []*Defect{}
	}
	return nil
}

func (t TestResults) MarshalJSON() ([]byte, error) {
	type plain TestResults
	if t.ScenariosTested == nil {
		t.ScenariosTested = []*ScenarioResult{}
	}
	if t.Defects == nil {
		t.Defects = []*Defect{}
	}
	return encodeWithExtra(plain(t), t.Extra)
}

func (s *ScenarioResult) UnmarshalJSON(data []byte) error {
	type plain ScenarioResult
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = ScenarioResult(p)
	s.Extra = extra
	return nil
}

func (s ScenarioResult) MarshalJSON() ([]byte, error) {
	type plain ScenarioResult
	return encodeWithExtra(plain(s), s.Extra)
}

func (d *Defect) UnmarshalJSON(data []byte) error {
	type plain Defect
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*d = Defect(p)
	d.Extra = extra
	if d.StepsToReproduce == nil {
		d.StepsToReproduce = []string{}
	}
	return nil
}

func (d Defect) MarshalJSON() ([]byte, error) {
	type plain Defect
	if d.StepsToReproduce == nil {
		d.StepsToReproduce = []string{}
	}
	return encodeWithExtra(plain(d), d.Extra)
}
