package report

import "time"

// WithClock pins the use case clock for tests.
func WithClock(u *ReportUseCase, now time.Time) *ReportUseCase {
	u.now = func() time.Time { return now }
	return u
}
