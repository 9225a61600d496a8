package audit

import (
	"errors"
	"fmt"
)

// ErrScanTimeout indicates that a bucket scan exceeded the per-bucket timeout
var ErrScanTimeout = errors.New("audit: scan timed out")

// ScanError is a recoverable failure to determine a bucket's freshness.
// It is distinct from the bucket being stale.
type ScanError struct {
	// Op is the scan step that failed (e.g., "head", "list", "youngest")
	Op string

	// Bucket is the bucket being audited
	Bucket string

	// Key is the object being examined (if applicable)
	Key string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("scan %s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("scan %s %s: %v", e.Op, e.Bucket, e.Err)
}

// Unwrap returns the underlying error for error chaining support
func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsScanError reports whether err carries a ScanError
func IsScanError(err error) bool {
	var se *ScanError
	return errors.As(err, &se)
}
