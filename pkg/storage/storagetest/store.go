// Package storagetest provides an in-memory storage.Store for tests.
package storagetest

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/younsl/bucketwatch/internal/models"
	"github.com/younsl/bucketwatch/pkg/storage"
)

// Object is a fixture object. LastModified uses the wire timestamp format so
// malformed values can be exercised.
type Object struct {
	Key          string
	LastModified string
	Size         int64
}

// Bucket is a fixture bucket.
type Bucket struct {
	Name    string
	Objects []Object

	// ListErr is yielded after Objects have been produced
	ListErr error
	// HeadErr is returned by HeadBucket
	HeadErr error
	// Block makes Objects wait for context cancellation before yielding anything
	Block bool
}

// Store is an in-memory storage.Store that counts how many objects each
// bucket yielded, so tests can assert on early exit.
type Store struct {
	ListBucketsErr error

	mu      sync.Mutex
	buckets []Bucket
	yielded map[string]int
	listed  map[string]int
}

var _ storage.Store = (*Store)(nil)

// New creates a Store holding the given buckets in listing order.
func New(buckets ...Bucket) *Store {
	return &Store{
		buckets: buckets,
		yielded: make(map[string]int),
		listed:  make(map[string]int),
	}
}

// At renders t in the wire timestamp format.
func At(t time.Time) string {
	return t.UTC().Format(storage.TimestampLayout)
}

// ListBuckets implements storage.Store.
func (s *Store) ListBuckets(ctx context.Context) ([]models.BucketRef, error) {
	if s.ListBucketsErr != nil {
		return nil, s.ListBucketsErr
	}
	refs := make([]models.BucketRef, 0, len(s.buckets))
	for _, b := range s.buckets {
		refs = append(refs, models.BucketRef{Name: b.Name})
	}
	return refs, nil
}

// HeadBucket implements storage.Store.
func (s *Store) HeadBucket(ctx context.Context, bucket string) error {
	b, ok := s.bucket(bucket)
	if !ok {
		return fmt.Errorf("head bucket %s: %w", bucket, storage.ErrBucketNotFound)
	}
	return b.HeadErr
}

// Objects implements storage.Store.
func (s *Store) Objects(ctx context.Context, bucket string) iter.Seq2[models.ObjectInfo, error] {
	return func(yield func(models.ObjectInfo, error) bool) {
		s.mu.Lock()
		s.listed[bucket]++
		s.mu.Unlock()

		b, ok := s.bucket(bucket)
		if !ok {
			yield(models.ObjectInfo{}, fmt.Errorf("list objects %s: %w", bucket, storage.ErrBucketNotFound))
			return
		}

		if b.Block {
			<-ctx.Done()
			yield(models.ObjectInfo{}, ctx.Err())
			return
		}

		for _, o := range b.Objects {
			if err := ctx.Err(); err != nil {
				yield(models.ObjectInfo{}, err)
				return
			}

			lm, err := storage.ParseTimestamp(o.LastModified)
			if err != nil {
				yield(models.ObjectInfo{}, fmt.Errorf("object %s: %w", o.Key, err))
				return
			}

			s.mu.Lock()
			s.yielded[bucket]++
			s.mu.Unlock()

			if !yield(models.ObjectInfo{Key: o.Key, LastModified: lm, Size: o.Size}, nil) {
				return
			}
		}

		if b.ListErr != nil {
			yield(models.ObjectInfo{}, b.ListErr)
		}
	}
}

// Yielded returns how many objects the bucket produced across all listings.
func (s *Store) Yielded(bucket string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.yielded[bucket]
}

// Listings returns how many times the bucket's objects were enumerated.
func (s *Store) Listings(bucket string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listed[bucket]
}

func (s *Store) bucket(name string) (Bucket, bool) {
	for _, b := range s.buckets {
		if b.Name == name {
			return b, true
		}
	}
	return Bucket{}, false
}
