// Package minio implements the bucket store on top of S3-compatible
// servers such as MinIO, Ceph RGW or OpenShift MCG.
package minio

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/younsl/bucketwatch/internal/models"
	"github.com/younsl/bucketwatch/pkg/storage"
)

// Options are the storage passthrough settings understood by the MinIO backend
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	PathStyle bool
}

// OptionsFromMap interprets the [storage] passthrough section.
// Unknown keys are returned so callers can report them.
func OptionsFromMap(m map[string]string) (Options, []string, error) {
	opts := Options{UseSSL: true, PathStyle: true}
	var unknown []string

	for key, value := range m {
		value = strings.TrimSpace(value)
		var err error

		switch strings.ToLower(key) {
		case "backend":
		case "endpoint":
			opts.Endpoint = value
		case "access_key":
			opts.AccessKey = value
		case "secret_key":
			opts.SecretKey = value
		case "region":
			opts.Region = value
		case "use_ssl":
			opts.UseSSL, err = strconv.ParseBool(value)
		case "path_style":
			opts.PathStyle, err = strconv.ParseBool(value)
		default:
			unknown = append(unknown, key)
		}

		if err != nil {
			return Options{}, nil, fmt.Errorf("invalid storage option %s=%q: %w", key, value, err)
		}
	}

	if opts.Endpoint == "" {
		return Options{}, nil, fmt.Errorf("storage option endpoint is required for the minio backend")
	}
	return opts, unknown, nil
}

// Client implements storage.Store with minio-go
type Client struct {
	mc *miniogo.Client
}

var _ storage.Store = (*Client)(nil)

// New creates a client for the configured endpoint
func New(opts Options) (*Client, error) {
	endpoint, secure := normalizeEndpoint(opts.Endpoint, opts.UseSSL)

	lookup := miniogo.BucketLookupAuto
	if opts.PathStyle {
		lookup = miniogo.BucketLookupPath
	}

	mc, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       secure,
		Region:       opts.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating minio client for %s: %w", endpoint, err)
	}
	return &Client{mc: mc}, nil
}

// ListBuckets returns every bucket visible to the credentials
func (c *Client) ListBuckets(ctx context.Context) ([]models.BucketRef, error) {
	buckets, err := c.mc.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing buckets: %w", classifyError(err))
	}

	refs := make([]models.BucketRef, 0, len(buckets))
	for _, b := range buckets {
		refs = append(refs, models.BucketRef{Name: b.Name, CreationDate: b.CreationDate.UTC()})
	}
	return refs, nil
}

// HeadBucket checks the bucket exists and is accessible
func (c *Client) HeadBucket(ctx context.Context, bucket string) error {
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket not accessible: %w", classifyError(err))
	}
	if !exists {
		return fmt.Errorf("bucket not accessible: %w: %s", storage.ErrBucketNotFound, bucket)
	}
	return nil
}

// Objects lazily lists every object in the bucket. Stopping the iteration
// cancels the underlying listing.
func (c *Client) Objects(ctx context.Context, bucket string) iter.Seq2[models.ObjectInfo, error] {
	return func(yield func(models.ObjectInfo, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for obj := range c.mc.ListObjects(ctx, bucket, miniogo.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				yield(models.ObjectInfo{}, fmt.Errorf("error listing objects: %w", classifyError(obj.Err)))
				return
			}

			info := models.ObjectInfo{
				Key:          obj.Key,
				LastModified: obj.LastModified.UTC(),
				Size:         obj.Size,
			}
			if !yield(info, nil) {
				return
			}
		}
	}
}

// normalizeEndpoint strips a URL scheme from the endpoint. A scheme wins
// over the use_ssl option.
func normalizeEndpoint(endpoint string, useSSL bool) (host string, secure bool) {
	secure = useSSL
	if endpoint == "" {
		return "", secure
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if u, err := url.Parse(endpoint); err == nil {
			secure = u.Scheme == "https"
			return u.Host, secure
		}
	}
	return strings.TrimSuffix(endpoint, "/"), secure
}

func classifyError(err error) error {
	switch miniogo.ToErrorResponse(err).Code {
	case "NoSuchBucket":
		return fmt.Errorf("%w: %w", storage.ErrBucketNotFound, err)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("%w: %w", storage.ErrAccessDenied, err)
	default:
		return err
	}
}
