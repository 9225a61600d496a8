package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/younsl/bucketwatch/internal/models"
)

// maxDatumsPerRequest stays well below the PutMetricData per-request limit
const maxDatumsPerRequest = 500

// CloudWatchAPI is the subset of the CloudWatch client used by MetricsPublisher
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisher publishes audit outcomes as CloudWatch custom metrics so
// alarms can be built on top of the check
type MetricsPublisher struct {
	client    CloudWatchAPI
	namespace string
}

// NewMetricsPublisher creates a publisher sharing the storage session settings
func NewMetricsPublisher(ctx context.Context, opts Options, namespace string) (*MetricsPublisher, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &MetricsPublisher{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	}, nil
}

// Publish sends per-bucket and per-run datums for the report
func (p *MetricsPublisher) Publish(ctx context.Context, report *models.AuditReport) error {
	datums := buildDatums(report)

	for start := 0; start < len(datums); start += maxDatumsPerRequest {
		end := min(start+maxDatumsPerRequest, len(datums))
		_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: datums[start:end],
		})
		if err != nil {
			return fmt.Errorf("error publishing metrics to %s: %w", p.namespace, err)
		}
	}
	return nil
}

func buildDatums(report *models.AuditReport) []cwTypes.MetricDatum {
	ts := aws.Time(report.StartedAt)

	bucketDatum := func(name, metric string, value float64) cwTypes.MetricDatum {
		return cwTypes.MetricDatum{
			MetricName: aws.String(metric),
			Dimensions: []cwTypes.Dimension{
				{
					Name:  aws.String("BucketName"),
					Value: aws.String(name),
				},
			},
			Timestamp: ts,
			Unit:      cwTypes.StandardUnitCount,
			Value:     aws.Float64(value),
		}
	}
	runDatum := func(metric string, value int) cwTypes.MetricDatum {
		return cwTypes.MetricDatum{
			MetricName: aws.String(metric),
			Timestamp:  ts,
			Unit:       cwTypes.StandardUnitCount,
			Value:      aws.Float64(float64(value)),
		}
	}

	datums := make([]cwTypes.MetricDatum, 0, report.Total()+3)
	for _, r := range report.Passed {
		datums = append(datums, bucketDatum(r.Name, "BucketFresh", 1))
	}
	for _, r := range report.Failed {
		datums = append(datums, bucketDatum(r.Name, "BucketFresh", 0))
	}
	for _, r := range report.Errored {
		datums = append(datums, bucketDatum(r.Name, "BucketCheckError", 1))
	}

	datums = append(datums,
		runDatum("AuditedBuckets", report.Total()),
		runDatum("FailedBuckets", len(report.Failed)),
		runDatum("ErroredBuckets", len(report.Errored)),
	)
	return datums
}
