package common

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/YoshitsuguKoike/uatreport/internal/application/dto"
	"github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
)

// Output prints command results for humans, optionally in color.
type Output struct {
	writer io.Writer

	ok, bad, warn, dim, bold *color.Color
}

// NewOutput creates an Output writing to w.
func NewOutput(w io.Writer, colorEnabled bool) *Output {
	o := &Output{
		writer: w,
		ok:     color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{o.ok, o.bad, o.warn, o.dim, o.bold} {
		if colorEnabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return o
}

// Success prints a success message
func (o *Output) Success(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, "%s %s\n", o.ok.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Warning prints a warning message
func (o *Output) Warning(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, "%s %s\n", o.warn.Sprint("⚠"), fmt.Sprintf(format, args...))
}

// Info prints an informational message
func (o *Output) Info(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, "%s\n", fmt.Sprintf(format, args...))
}

// JSON prints v as indented JSON.
func (o *Output) JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(o.writer, string(data))
	return err
}

// SuiteTally prints one line per suite:
//
//	TS-001  3/4 tested  passed 1  failed 1  blocked 0  partial 1  pass rate 33.3%
func (o *Output) SuiteTally(t dto.SuiteTally) {
	s := t.Summary
	parts := []string{
		o.bold.Sprint(t.SuiteID),
		fmt.Sprintf("%d/%d tested", s.ScenariosTested, s.TotalScenarios),
		o.count("passed", s.Passed, o.ok),
		o.count("failed", s.Failed, o.bad),
		o.count("blocked", s.Blocked, o.warn),
		o.count("partial", s.Partial, o.warn),
	}
	if s.NotTested > 0 {
		parts = append(parts, o.count("not tested", s.NotTested, o.dim))
	}
	parts = append(parts, "pass rate "+o.rate(s.PassRate, s.Passed, s.ScenariosTested))
	fmt.Fprintln(o.writer, strings.Join(parts, "  "))
	if s.Notes != "" {
		fmt.Fprintf(o.writer, "  %s\n", o.dim.Sprint(s.Notes))
	}
}

// Defects prints defect counts by severity, most severe first.
func (o *Output) Defects(bySeverity map[report.Severity]int, total int) {
	parts := make([]string, 0, len(report.AllSeverities))
	for _, sev := range report.AllSeverities {
		c := o.dim
		if bySeverity[sev] > 0 && (sev == report.SeverityCritical || sev == report.SeverityHigh) {
			c = o.bad
		}
		parts = append(parts, o.count(string(sev), bySeverity[sev], c))
	}
	fmt.Fprintf(o.writer, "defects %d  %s\n", total, strings.Join(parts, "  "))
}

// ExecutionSummary prints the whole-report rollup.
func (o *Output) ExecutionSummary(es *report.ExecutionSummary) {
	if es.TestPeriod != nil {
		fmt.Fprintf(o.writer, "period  %s .. %s (%.2fh)\n", es.TestPeriod.StartDate, es.TestPeriod.EndDate, es.TestPeriod.DurationHours)
	}
	r := es.Results
	fmt.Fprintf(o.writer, "%d/%d executed  %s  %s  %s  %s  pass rate %s\n",
		es.ScenariosExecuted, es.TotalScenarios,
		o.count("passed", r.Passed, o.ok),
		o.count("failed", r.Failed, o.bad),
		o.count("blocked", r.Blocked, o.warn),
		o.count("partial", r.Partial, o.warn),
		o.rate(es.PassRate, r.Passed, es.ScenariosExecuted),
	)
	o.Defects(map[report.Severity]int{
		report.SeverityCritical: es.CriticalDefects,
		report.SeverityHigh:     es.HighDefects,
		report.SeverityMedium:   es.MediumDefects,
		report.SeverityLow:      es.LowDefects,
	}, es.CriticalDefects+es.HighDefects+es.MediumDefects+es.LowDefects)
	if es.Notes != "" {
		fmt.Fprintf(o.writer, "  %s\n", o.dim.Sprint(es.Notes))
	}
}

// Record prints what a batch added, skipped and revised.
func (o *Output) Record(out *dto.RecordOutput) {
	o.Success("recorded %d scenario(s)", out.AddedScenarios)
	if out.SkippedScenarios > 0 {
		o.Info("skipped %d already recorded scenario(s)", out.SkippedScenarios)
	}
	if len(out.AddedDefects) > 0 {
		o.Info("new defects: %s", strings.Join(out.AddedDefects, ", "))
	}
	if len(out.SkippedDefects) > 0 {
		o.Info("already recorded defects: %s", strings.Join(out.SkippedDefects, ", "))
	}
	if len(out.UpdatedDefects) > 0 {
		updated := append([]string(nil), out.UpdatedDefects...)
		sort.Strings(updated)
		o.Info("revised defects: %s", strings.Join(updated, ", "))
	}
	for _, t := range out.Suites {
		o.SuiteTally(t)
	}
}

func (o *Output) count(label string, n int, c *color.Color) string {
	s := fmt.Sprintf("%s %d", label, n)
	if n == 0 {
		return o.dim.Sprint(s)
	}
	return c.Sprint(s)
}

func (o *Output) rate(rate string, passed, tested int) string {
	switch {
	case tested == 0:
		return o.dim.Sprint(rate)
	case passed == tested:
		return o.ok.Sprint(rate)
	case passed*2 < tested:
		return o.bad.Sprint(rate)
	}
	return o.warn.Sprint(rate)
}
