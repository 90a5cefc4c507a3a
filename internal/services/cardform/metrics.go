package cardform

import "time"

// MetricsCollector receives submission outcomes. Outcome is the terminal
// Status; reason is empty on success.
type MetricsCollector interface {
	RecordSubmission(outcome Status, reason Reason, duration time.Duration)
	RecordIgnoredSubmit()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSubmission(Status, Reason, time.Duration) {}
func (NoopMetricsCollector) RecordIgnoredSubmit()                           {}
