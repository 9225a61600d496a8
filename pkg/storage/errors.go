package storage

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared by storage backends.
// These can be used with errors.Is() for error checking.
var (
	// ErrBucketNotFound indicates that the bucket does not exist
	ErrBucketNotFound = errors.New("storage: bucket not found")

	// ErrAccessDenied indicates that the credentials cannot read the bucket
	ErrAccessDenied = errors.New("storage: access denied")

	// ErrMalformedTimestamp indicates an object modification time that does not follow the wire format
	ErrMalformedTimestamp = errors.New("storage: malformed timestamp")
)

// TimestampLayout is the ISO 8601 format object-storage APIs use for
// modification times, e.g. 2023-01-02T03:04:05.678Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ParseTimestamp parses a modification time in the wire format. Fractional
// seconds and the UTC designator are mandatory; anything else is rejected.
func ParseTimestamp(s string) (time.Time, error) {
	dot := len("2006-01-02T15:04:05")
	if len(s) < dot+3 || s[dot] != '.' || s[len(s)-1] != 'Z' {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	for _, r := range s[dot+1 : len(s)-1] {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
		}
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, s, err)
	}
	return t.UTC(), nil
}
