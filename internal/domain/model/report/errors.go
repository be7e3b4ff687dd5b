package report

import "errors"

// Report errors. Callers should match them with errors.Is; the wrapped
// message names the offending id or path.
var (
	ErrNotFound            = errors.New("report not found")
	ErrMalformedReport     = errors.New("malformed report")
	ErrDuplicateScenarioID = errors.New("duplicate scenario id")
	ErrDuplicateDefectID   = errors.New("duplicate defect id")
	ErrSuiteNotFound       = errors.New("suite not found")
	ErrDefectNotFound      = errors.New("defect not found")
	ErrWrite               = errors.New("report write failed")
	ErrInvalidRecord       = errors.New("invalid record")
)
