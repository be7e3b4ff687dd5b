package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

// MaxBatchSize bounds the batch document read from a file or stdin.
const MaxBatchSize = 4 * 1024 * 1024

// Batch is one literal update: results for one or more suites, new
// defects, and revisions of existing defects. The top-level suite_id,
// scenarios and summary_notes are shorthand for a single entry in suites.
type Batch struct {
	SuiteID      string                   `json:"suite_id"`
	Scenarios    []*report.ScenarioResult `json:"scenarios"`
	SummaryNotes *string                  `json:"summary_notes"`

	Suites        []SuiteBatch     `json:"suites"`
	Defects       []*report.Defect `json:"defects"`
	DefectUpdates []DefectUpdate   `json:"defect_updates"`
}

// SuiteBatch holds the results recorded for one suite.
type SuiteBatch struct {
	SuiteID      string                   `json:"suite_id"`
	Scenarios    []*report.ScenarioResult `json:"scenarios"`
	SummaryNotes *string                  `json:"summary_notes"`
}

// DefectUpdate revises one existing defect.
type DefectUpdate struct {
	DefectID string       `json:"defect_id"`
	Patch    report.Patch `json:"patch"`
}

// ParseBatch decodes a YAML or JSON batch document. Scalars keep their
// literal text (an unquoted 2025-10-10T15:08:00 stays that string), text
// is NFC-normalized, and status/severity values are canonicalized.
func ParseBatch(data []byte) (*Batch, error) {
	if len(data) > MaxBatchSize {
		return nil, fmt.Errorf("batch exceeds %d bytes", MaxBatchSize)
	}

	var tree interface{}
	if json.Valid(data) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, fmt.Errorf("failed to parse batch: %w", err)
		}
		tree = normalizeTree(tree)
	} else {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse batch: %w", err)
		}
		if doc.Kind == 0 {
			return nil, fmt.Errorf("batch must be a mapping")
		}
		v, err := nodeValue(&doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse batch: %w", err)
		}
		tree = v
	}
	if _, ok := tree.(map[string]interface{}); !ok {
		return nil, fmt.Errorf("batch must be a mapping")
	}

	canonical, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(canonical))
	dec.DisallowUnknownFields()
	var b Batch
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("invalid batch: %w", err)
	}

	b.fold()
	if err := b.canonicalize(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// fold moves the top-level shorthand into Suites.
func (b *Batch) fold() {
	if b.SuiteID == "" && len(b.Scenarios) == 0 && b.SummaryNotes == nil {
		return
	}
	b.Suites = append([]SuiteBatch{{
		SuiteID:      b.SuiteID,
		Scenarios:    b.Scenarios,
		SummaryNotes: b.SummaryNotes,
	}}, b.Suites...)
	b.SuiteID, b.Scenarios, b.SummaryNotes = "", nil, nil
}

func (b *Batch) canonicalize() error {
	for _, sb := range b.Suites {
		for _, sc := range sb.Scenarios {
			if sc == nil {
				continue
			}
			status, ok := report.ParseStatus(string(sc.Status))
			if !ok {
				return fmt.Errorf("%w: scenario %s has unknown status %q", report.ErrInvalidRecord, sc.ScenarioID, sc.Status)
			}
			sc.Status = status
		}
	}
	for _, d := range b.Defects {
		if d == nil {
			continue
		}
		sev, ok := report.ParseSeverity(string(d.Severity))
		if !ok {
			return fmt.Errorf("%w: defect %s has unknown severity %q", report.ErrInvalidRecord, d.DefectID, d.Severity)
		}
		d.Severity = sev
	}
	for _, u := range b.DefectUpdates {
		if err := canonicalizePatch(u.DefectID, u.Patch); err != nil {
			return err
		}
	}
	return nil
}

// canonicalizePatch rewrites a severity given in any case to its stored form.
func canonicalizePatch(defectID string, p report.Patch) error {
	raw, ok := p["severity"].(string)
	if !ok {
		return nil
	}
	sev, ok := report.ParseSeverity(raw)
	if !ok {
		return fmt.Errorf("%w: defect %s patch has unknown severity %q", report.ErrInvalidRecord, defectID, raw)
	}
	p["severity"] = string(sev)
	return nil
}

func (b *Batch) validate() error {
	if len(b.Suites) == 0 && len(b.Defects) == 0 && len(b.DefectUpdates) == 0 {
		return fmt.Errorf("batch is empty: expected suites, scenarios, defects or defect_updates")
	}
	seen := make(map[string]bool, len(b.Suites))
	for i, sb := range b.Suites {
		if sb.SuiteID == "" {
			return fmt.Errorf("%w: suites[%d] has no suite_id", report.ErrInvalidRecord, i)
		}
		if seen[sb.SuiteID] {
			return fmt.Errorf("%w: suite %s listed more than once", report.ErrInvalidRecord, sb.SuiteID)
		}
		seen[sb.SuiteID] = true
	}
	for i, u := range b.DefectUpdates {
		if u.DefectID == "" {
			return fmt.Errorf("%w: defect_updates[%d] has no defect_id", report.ErrInvalidRecord, i)
		}
	}
	return nil
}

// nodeValue converts a YAML node into plain maps, slices and scalars.
func nodeValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := nodeValue(val)
			if err != nil {
				return nil, err
			}
			m[normalizeText(key.Value)] = v
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

func scalarValue(n *yaml.Node) (interface{}, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	}
	return normalizeText(n.Value), nil
}

// normalizeTree NFC-normalizes every string in a decoded JSON value.
func normalizeTree(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return normalizeText(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[normalizeText(k)] = normalizeTree(val)
		}
		return out
	case []interface{}:
		for i := range t {
			t[i] = normalizeTree(t[i])
		}
		return t
	}
	return v
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimRight(s, "\r\n"))
}
