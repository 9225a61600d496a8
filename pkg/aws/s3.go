package aws

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/younsl/bucketwatch/internal/models"
	"github.com/younsl/bucketwatch/pkg/storage"
)

// S3API is the subset of the S3 client used by S3Client
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ S3API = (*s3.Client)(nil)

// S3Client implements storage.Store on top of Amazon S3
type S3Client struct {
	client     S3API
	region     string
	pageSize   int32
	regionOnly bool

	// Bucket regions are resolved once per bucket, unless a custom
	// endpoint serves every bucket itself
	resolveRegions bool
	regions        sync.Map // bucket name -> region
}

var _ storage.Store = (*S3Client)(nil)

// NewS3Client creates a new S3Client from the storage passthrough options
func NewS3Client(ctx context.Context, opts Options) (*S3Client, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return newS3Client(s3Client, cfg.Region, opts), nil
}

func newS3Client(api S3API, region string, opts Options) *S3Client {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &S3Client{
		client:         api,
		region:         region,
		pageSize:       pageSize,
		regionOnly:     opts.RegionOnly,
		resolveRegions: opts.Endpoint == "",
	}
}

// ListBuckets returns the account's buckets in listing order
func (c *S3Client) ListBuckets(ctx context.Context) ([]models.BucketRef, error) {
	result, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("error listing S3 buckets: %w", classifyError(err))
	}

	refs := make([]models.BucketRef, 0, len(result.Buckets))
	for _, bucket := range result.Buckets {
		name := aws.ToString(bucket.Name)
		if r := aws.ToString(bucket.BucketRegion); r != "" {
			c.regions.Store(name, r)
		}

		if c.regionOnly {
			location, err := c.bucketRegion(ctx, name)
			if err != nil {
				// Keep buckets we can't locate, the scan reports why they are unreadable
				refs = append(refs, models.BucketRef{Name: name, CreationDate: aws.ToTime(bucket.CreationDate)})
				continue
			}
			if location != c.region {
				continue
			}
		}

		refs = append(refs, models.BucketRef{Name: name, CreationDate: aws.ToTime(bucket.CreationDate)})
	}
	return refs, nil
}

// HeadBucket checks the bucket exists and is accessible
func (c *S3Client) HeadBucket(ctx context.Context, bucket string) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	}, c.regionOptions(ctx, bucket)...)
	if err != nil {
		return fmt.Errorf("bucket not accessible: %w", classifyError(err))
	}
	return nil
}

// Objects lazily lists every object in the bucket, one ListObjectsV2 page at
// a time. No further page is requested once the consumer stops.
func (c *S3Client) Objects(ctx context.Context, bucket string) iter.Seq2[models.ObjectInfo, error] {
	return func(yield func(models.ObjectInfo, error) bool) {
		paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
			Bucket: aws.String(bucket),
		}, func(o *s3.ListObjectsV2PaginatorOptions) {
			o.Limit = c.pageSize
		})
		optFns := c.regionOptions(ctx, bucket)

		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx, optFns...)
			if err != nil {
				yield(models.ObjectInfo{}, fmt.Errorf("error listing objects: %w", classifyError(err)))
				return
			}

			for _, obj := range page.Contents {
				// A missing LastModified stays zero and is rejected by the scanner
				info := models.ObjectInfo{
					Key:          aws.ToString(obj.Key),
					LastModified: aws.ToTime(obj.LastModified).UTC(),
					Size:         aws.ToInt64(obj.Size),
				}
				if !yield(info, nil) {
					return
				}
			}
		}
	}
}

// regionOptions points a request at the bucket's own region. S3 answers
// requests sent to another region with a redirect the SDK does not follow.
func (c *S3Client) regionOptions(ctx context.Context, bucket string) []func(*s3.Options) {
	if !c.resolveRegions {
		return nil
	}
	region, err := c.bucketRegion(ctx, bucket)
	if err != nil || region == c.region {
		// An unlocatable bucket is tried in the default region and the request reports why
		return nil
	}
	return []func(*s3.Options){func(o *s3.Options) { o.Region = region }}
}

// bucketRegion returns the cached region of a bucket, looking it up on first use
func (c *S3Client) bucketRegion(ctx context.Context, bucket string) (string, error) {
	if r, ok := c.regions.Load(bucket); ok {
		return r.(string), nil
	}
	region, err := c.getBucketRegion(ctx, bucket)
	if err != nil {
		return "", err
	}
	c.regions.Store(bucket, region)
	return region, nil
}

// getBucketRegion determines the region for a bucket
func (c *S3Client) getBucketRegion(ctx context.Context, bucketName string) (string, error) {
	location, err := c.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return "", err
	}

	// An empty LocationConstraint is us-east-1, the legacy EU value is eu-west-1
	switch location.LocationConstraint {
	case "":
		return "us-east-1", nil
	case types.BucketLocationConstraintEu:
		return "eu-west-1", nil
	default:
		return string(location.LocationConstraint), nil
	}
}

// classifyError maps S3 service error codes onto the storage sentinels
func classifyError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch strings.TrimSpace(apiErr.ErrorCode()) {
	case "NoSuchBucket", "NotFound":
		return fmt.Errorf("%w: %w", storage.ErrBucketNotFound, err)
	case "AccessDenied", "Forbidden", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("%w: %w", storage.ErrAccessDenied, err)
	default:
		return err
	}
}
