package aws

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"github.com/younsl/bucketwatch/pkg/utils"
)

// Options are the storage passthrough settings understood by the AWS backend
type Options struct {
	Region       string
	Profile      string
	Endpoint     string // Custom S3 endpoint, e.g. for LocalStack
	UsePathStyle bool
	AccessKey    string
	SecretKey    string
	SessionToken string
	MaxAttempts  int
	PageSize     int32 // Keys per ListObjectsV2 page, 1 to 1000; zero means 1000
	RegionOnly   bool  // Only audit buckets located in Region when listing all buckets
}

// OptionsFromMap interprets the [storage] passthrough section.
// Unknown keys are returned so callers can report them.
func OptionsFromMap(m map[string]string) (Options, []string, error) {
	opts := Options{}
	var unknown []string

	for key, value := range m {
		value = strings.TrimSpace(value)
		var err error

		switch strings.ToLower(key) {
		case "backend":
			// consumed by the caller to pick this backend
		case "region":
			opts.Region = value
		case "profile":
			opts.Profile = value
		case "endpoint":
			opts.Endpoint = value
		case "path_style":
			opts.UsePathStyle, err = strconv.ParseBool(value)
		case "access_key":
			opts.AccessKey = value
		case "secret_key":
			opts.SecretKey = value
		case "session_token":
			opts.SessionToken = value
		case "max_attempts":
			opts.MaxAttempts, err = strconv.Atoi(value)
		case "page_size":
			var n int64
			n, err = strconv.ParseInt(value, 10, 32)
			if err == nil && (n < 1 || n > 1000) {
				err = fmt.Errorf("must be between 1 and 1000")
			}
			opts.PageSize = int32(n)
		case "region_only":
			opts.RegionOnly, err = strconv.ParseBool(value)
		default:
			unknown = append(unknown, key)
		}

		if err != nil {
			return Options{}, nil, fmt.Errorf("invalid storage option %s=%q: %w", key, value, err)
		}
	}

	if (opts.AccessKey == "") != (opts.SecretKey == "") {
		return Options{}, nil, fmt.Errorf("storage options access_key and secret_key must be set together")
	}

	return opts, unknown, nil
}

// LoadConfig loads the shared AWS configuration with the passthrough overrides applied
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	region := opts.Region
	if region == "" {
		region = utils.GetDefaultRegion()
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}
	if opts.MaxAttempts > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(opts.MaxAttempts))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config: %w", err)
	}
	return cfg, nil
}
