package report

import "strings"

// Status is the outcome of one executed scenario.
type Status string

const (
	StatusPassed    Status = "PASSED"
	StatusFailed    Status = "FAILED"
	StatusBlocked   Status = "BLOCKED"
	StatusPartial   Status = "PARTIAL"
	StatusNotTested Status = "NOT_TESTED"
)

// AllStatuses lists statuses in tally order.
var AllStatuses = []Status{StatusPassed, StatusFailed, StatusBlocked, StatusPartial, StatusNotTested}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusBlocked, StatusPartial, StatusNotTested:
		return true
	}
	return false
}

// ParseStatus accepts any casing and "-" or " " in place of "_".
func ParseStatus(v string) (Status, bool) {
	s := Status(strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(v))))
	return s, s.IsValid()
}

// Severity grades a defect.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// AllSeverities lists severities from most to least severe.
var AllSeverities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ParseSeverity is case-insensitive.
func ParseSeverity(v string) (Severity, bool) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	return s, s.IsValid()
}
