package models

import "time"

// BucketRef identifies a bucket returned by the storage account listing
type BucketRef struct {
	Name         string
	CreationDate time.Time
}

// ObjectInfo is a read-only snapshot of a single object taken at enumeration time
type ObjectInfo struct {
	Key          string
	LastModified time.Time // UTC
	Size         int64     // in bytes
}

// BucketStatus is the outcome of auditing a single bucket
type BucketStatus string

const (
	StatusPass  BucketStatus = "pass"
	StatusFail  BucketStatus = "fail"
	StatusError BucketStatus = "error"
)

// BucketResult holds the audit outcome for one bucket
type BucketResult struct {
	Name   string
	Status BucketStatus

	// Diagnostics, only collected for failing buckets
	Youngest    *ObjectInfo // Most recently modified object, nil if empty or unknown
	ObjectCount int64       // Objects seen during the diagnostic scan
	LookupErr   error       // Set when the diagnostic scan itself failed

	Err      error // Scan error, set when Status is StatusError
	Duration time.Duration
}

// YoungestKnown reports whether a youngest object timestamp is available
func (r BucketResult) YoungestKnown() bool {
	return r.LookupErr == nil && r.Youngest != nil
}
