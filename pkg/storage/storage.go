// Package storage defines the narrow interface bucketwatch needs from an
// object-storage account, independent of the backend that serves it.
package storage

import (
	"context"
	"iter"

	"github.com/younsl/bucketwatch/internal/models"
)

// Store is the storage collaborator used by the auditor.
type Store interface {
	// ListBuckets returns every bucket reachable from the account, in listing order.
	ListBuckets(ctx context.Context) ([]models.BucketRef, error)

	// HeadBucket confirms the named bucket exists and is accessible.
	HeadBucket(ctx context.Context, bucket string) error

	// Objects returns a lazy sequence over the objects of a bucket.
	// Every range over the sequence starts a fresh listing. Breaking out of
	// the range stops fetching further pages. An enumeration error is yielded
	// once and ends the sequence.
	Objects(ctx context.Context, bucket string) iter.Seq2[models.ObjectInfo, error]
}
