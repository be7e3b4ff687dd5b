package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ResultsMeta seeds a new test_results section.
type ResultsMeta struct {
	ExecutionDate   string
	Tester          string
	TestEnvironment string
}

// EnsureResultsSection creates test_results when it is absent and reports
// whether it did. An existing section is left untouched.
func (r *Report) EnsureResultsSection(meta ResultsMeta) bool {
	if r.TestResults != nil {
		return false
	}
	r.TestResults = &TestResults{
		ExecutionDate:   meta.ExecutionDate,
		Tester:          meta.Tester,
		TestEnvironment: meta.TestEnvironment,
		ScenariosTested: []*ScenarioResult{},
		Defects:         []*Defect{},
	}
	return true
}

// AppendScenarios appends results for suiteID in the given order. The whole
// batch is validated first; on error the report is unchanged.
func (r *Report) AppendScenarios(suiteID string, results []*ScenarioResult) error {
	if r.Suite(suiteID) == nil {
		return fmt.Errorf("%w: %s", ErrSuiteNotFound, suiteID)
	}
	if r.TestResults == nil {
		return fmt.Errorf("%w: test_results section is missing", ErrMalformedReport)
	}

	seen := make(map[string]bool, len(r.TestResults.ScenariosTested)+len(results))
	for _, sc := range r.TestResults.ScenariosTested {
		seen[sc.ScenarioID] = true
	}
	for i, sc := range results {
		switch {
		case sc == nil || sc.ScenarioID == "":
			return fmt.Errorf("%w: scenario #%d has no scenario_id", ErrInvalidRecord, i+1)
		case !sc.BelongsTo(suiteID):
			return fmt.Errorf("%w: scenario %s does not belong to suite %s", ErrInvalidRecord, sc.ScenarioID, suiteID)
		case !sc.Status.IsValid():
			return fmt.Errorf("%w: scenario %s has unknown status %q", ErrInvalidRecord, sc.ScenarioID, sc.Status)
		case seen[sc.ScenarioID]:
			return fmt.Errorf("%w: %s", ErrDuplicateScenarioID, sc.ScenarioID)
		}
		seen[sc.ScenarioID] = true
	}

	r.TestResults.ScenariosTested = append(r.TestResults.ScenariosTested, results...)
	return nil
}

// AppendDefects appends defects in the given order. On error the report is unchanged.
func (r *Report) AppendDefects(defects []*Defect) error {
	if r.TestResults == nil {
		return fmt.Errorf("%w: test_results section is missing", ErrMalformedReport)
	}

	seen := make(map[string]bool, len(r.TestResults.Defects)+len(defects))
	for _, d := range r.TestResults.Defects {
		seen[d.DefectID] = true
	}
	for i, d := range defects {
		switch {
		case d == nil || d.DefectID == "":
			return fmt.Errorf("%w: defect #%d has no defect_id", ErrInvalidRecord, i+1)
		case !d.Severity.IsValid():
			return fmt.Errorf("%w: defect %s has unknown severity %q", ErrInvalidRecord, d.DefectID, d.Severity)
		case seen[d.DefectID]:
			return fmt.Errorf("%w: %s", ErrDuplicateDefectID, d.DefectID)
		}
		if d.StepsToReproduce == nil {
			d.StepsToReproduce = []string{}
		}
		seen[d.DefectID] = true
	}

	r.TestResults.Defects = append(r.TestResults.Defects, defects...)
	return nil
}

// Patch maps defect json field names to new values.
type Patch map[string]interface{}

// RevisionStamp identifies one defect revision.
type RevisionStamp struct {
	ID string
	At time.Time
}

// UpdateDefect applies patch to the defect in place, keeping every field the
// patch does not name. When stamp is non-nil and the patch changed anything,
// a revision entry with the previous values is appended to revision_history.
// Returns the names of the fields that changed.
func (r *Report) UpdateDefect(defectID string, patch Patch, stamp *RevisionStamp) ([]string, error) {
	d := r.Defect(defectID)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrDefectNotFound, defectID)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty patch for defect %s", ErrInvalidRecord, defectID)
	}

	current, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(current, &fields); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		if k == "defect_id" || k == "revision_history" {
			return nil, fmt.Errorf("%w: field %s of defect %s cannot be patched", ErrInvalidRecord, k, defectID)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	changes := make(map[string]FieldChange)
	for _, k := range keys {
		next, err := json.Marshal(patch[k])
		if err != nil {
			return nil, fmt.Errorf("%w: field %s of defect %s: %v", ErrInvalidRecord, k, defectID, err)
		}
		prev := fields[k]
		if bytes.Equal(prev, next) {
			continue
		}
		changes[k] = FieldChange{From: prev, To: next}
		fields[k] = next
	}
	if len(changes) == 0 {
		return nil, nil
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var updated Defect
	if err := json.Unmarshal(merged, &updated); err != nil {
		return nil, fmt.Errorf("%w: patch for defect %s: %v", ErrInvalidRecord, defectID, err)
	}
	if !updated.Severity.IsValid() {
		return nil, fmt.Errorf("%w: defect %s severity %q", ErrInvalidRecord, defectID, updated.Severity)
	}

	if stamp != nil {
		updated.RevisionHistory = append(updated.RevisionHistory, DefectRevision{
			RevisionID: stamp.ID,
			RevisedAt:  stamp.At.UTC().Format(time.RFC3339),
			Changes:    changes,
		})
	}
	*d = updated

	changed := make([]string, 0, len(changes))
	for _, k := range keys {
		if _, ok := changes[k]; ok {
			changed = append(changed, k)
		}
	}
	return changed, nil
}
