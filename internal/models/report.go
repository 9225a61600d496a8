package models

import "time"

// AuditReport aggregates the results of a single audit run.
// All lists are kept in bucket selection order.
type AuditReport struct {
	StartedAt  time.Time
	Cutoff     time.Time
	MaxAgeDays int
	Duration   time.Duration

	Passed  []BucketResult
	Failed  []BucketResult
	Errored []BucketResult

	// Skipped holds buckets named in the include list that were excluded
	Skipped []string
}

// Add files a result under the list that matches its status
func (r *AuditReport) Add(result BucketResult) {
	switch result.Status {
	case StatusPass:
		r.Passed = append(r.Passed, result)
	case StatusFail:
		r.Failed = append(r.Failed, result)
	default:
		r.Errored = append(r.Errored, result)
	}
}

// HasFailures reports whether the run must be considered failed
func (r *AuditReport) HasFailures() bool {
	return len(r.Failed) > 0 || len(r.Errored) > 0
}

// Total returns the number of audited buckets
func (r *AuditReport) Total() int {
	return len(r.Passed) + len(r.Failed) + len(r.Errored)
}

// Names returns bucket names of the given results
func Names(results []BucketResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	return names
}
