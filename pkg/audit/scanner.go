// Package audit implements the bucket freshness check: the early-exit
// scanner, bucket selection and the orchestrating auditor.
package audit

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/younsl/bucketwatch/internal/models"
	"github.com/younsl/bucketwatch/pkg/storage"
)

// ObjectLister is the part of storage.Store the scanner needs
type ObjectLister interface {
	Objects(ctx context.Context, bucket string) iter.Seq2[models.ObjectInfo, error]
}

// BucketStats is the result of a full diagnostic scan
type BucketStats struct {
	Youngest    *models.ObjectInfo
	ObjectCount int64
}

// Scanner decides bucket freshness over a lazy object listing
type Scanner struct {
	store ObjectLister
}

// NewScanner creates a Scanner reading from store
func NewScanner(store ObjectLister) *Scanner {
	return &Scanner{store: store}
}

// IsFresh reports whether the bucket holds at least one object modified at
// or after cutoff. Enumeration stops at the first qualifying object. An empty
// bucket is not fresh.
func (s *Scanner) IsFresh(ctx context.Context, bucket string, cutoff time.Time) (bool, error) {
	fresh := false
	err := s.consume(ctx, "list", bucket, func(obj models.ObjectInfo) bool {
		if !obj.LastModified.Before(cutoff) {
			fresh = true
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}
	return fresh, nil
}

// Youngest scans the whole bucket and returns its most recently modified
// object (first encountered on ties) together with the object count. The
// object is nil for an empty bucket.
func (s *Scanner) Youngest(ctx context.Context, bucket string) (BucketStats, error) {
	var stats BucketStats
	err := s.consume(ctx, "youngest", bucket, func(obj models.ObjectInfo) bool {
		stats.ObjectCount++
		if stats.Youngest == nil || obj.LastModified.After(stats.Youngest.LastModified) {
			o := obj
			stats.Youngest = &o
		}
		return true
	})
	if err != nil {
		return BucketStats{}, err
	}
	return stats, nil
}

// consume ranges over the bucket listing, handing each object to visit until
// it returns false or the listing ends
func (s *Scanner) consume(ctx context.Context, op, bucket string, visit func(models.ObjectInfo) bool) error {
	for obj, err := range s.store.Objects(ctx, bucket) {
		if err != nil {
			return scanErr(ctx, op, bucket, "", err)
		}
		if obj.LastModified.IsZero() {
			return &ScanError{
				Op:     op,
				Bucket: bucket,
				Key:    obj.Key,
				Err:    fmt.Errorf("%w: missing modification time", storage.ErrMalformedTimestamp),
			}
		}
		if !visit(obj) {
			return nil
		}
	}
	return nil
}

// scanErr wraps err into a ScanError, mapping an expired deadline to ErrScanTimeout
func scanErr(ctx context.Context, op, bucket, key string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", ErrScanTimeout, err)
	}
	return &ScanError{Op: op, Bucket: bucket, Key: key, Err: err}
}
