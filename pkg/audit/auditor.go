package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/younsl/bucketwatch/internal/models"
	"github.com/younsl/bucketwatch/pkg/storage"
)

const (
	// DefaultConcurrency is the number of buckets scanned in parallel
	DefaultConcurrency = 4

	// DefaultTimeout bounds a single bucket scan
	DefaultTimeout = 5 * time.Minute
)

// Options configures a single audit run
type Options struct {
	Include []string
	Exclude []string
	Window  Window

	// Concurrency caps parallel bucket scans, DefaultConcurrency when <= 0
	Concurrency int

	// Timeout bounds each bucket scan and each diagnostic scan, 0 disables it
	Timeout time.Duration

	// OnStart is called once the bucket selection is known
	OnStart func(targets []string)

	// OnResult is called after every bucket, serialized across workers
	OnResult func(done, total int, result models.BucketResult)
}

// Auditor runs the freshness check over the selected buckets
type Auditor struct {
	store   storage.Store
	scanner *Scanner
	log     zerolog.Logger
}

// NewAuditor creates an Auditor for the given store
func NewAuditor(store storage.Store, log zerolog.Logger) *Auditor {
	return &Auditor{
		store:   store,
		scanner: NewScanner(store),
		log:     log,
	}
}

// Run audits every selected bucket. Per-bucket scan errors are recorded in the
// report and never abort the run. An error is returned only when the bucket
// set itself cannot be determined.
func (a *Auditor) Run(ctx context.Context, opts Options) (*models.AuditReport, error) {
	start := time.Now()

	var available []string
	if len(cleanNames(opts.Include)) == 0 {
		buckets, err := a.store.ListBuckets(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing buckets: %w", err)
		}
		for _, b := range buckets {
			available = append(available, b.Name)
		}
	}

	sel := SelectBuckets(available, opts.Include, opts.Exclude)
	for _, name := range sel.Skipped {
		a.log.Warn().Str("bucket", name).Msg("bucket is both included and excluded, skipping")
	}

	a.log.Info().
		Time("cutoff", opts.Window.Cutoff).
		Int("buckets", len(sel.Targets)).
		Msg("inspecting buckets, objects must be newer than cutoff")
	if opts.OnStart != nil {
		opts.OnStart(sel.Targets)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]models.BucketResult, len(sel.Targets))

	var (
		mu   sync.Mutex
		done int
		g    errgroup.Group
	)
	g.SetLimit(concurrency)

	for i, name := range sel.Targets {
		g.Go(func() error {
			results[i] = a.auditBucket(ctx, name, opts, sel.Explicit)

			mu.Lock()
			defer mu.Unlock()
			done++
			if opts.OnResult != nil {
				opts.OnResult(done, len(sel.Targets), results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &models.AuditReport{
		StartedAt:  opts.Window.StartedAt,
		Cutoff:     opts.Window.Cutoff,
		MaxAgeDays: opts.Window.MaxAgeDays,
		Skipped:    sel.Skipped,
	}
	for _, r := range results {
		report.Add(r)
	}
	report.Duration = time.Since(start)

	return report, nil
}

// auditBucket checks a single bucket and, when it is stale, collects its
// youngest object for the report
func (a *Auditor) auditBucket(ctx context.Context, bucket string, opts Options, lookup bool) models.BucketResult {
	start := time.Now()
	log := a.log.With().Str("bucket", bucket).Logger()
	log.Info().Msg("checking bucket")

	result := models.BucketResult{Name: bucket}

	scanCtx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	if lookup {
		if err := a.store.HeadBucket(scanCtx, bucket); err != nil {
			result.Status = models.StatusError
			result.Err = scanErr(scanCtx, "head", bucket, "", err)
			result.Duration = time.Since(start)
			log.Info().Err(result.Err).Msg("bucket could not be checked")
			return result
		}
	}

	fresh, err := a.scanner.IsFresh(scanCtx, bucket, opts.Window.Cutoff)
	switch {
	case err != nil:
		result.Status = models.StatusError
		result.Err = err
		log.Info().Err(err).Msg("bucket could not be checked")
	case fresh:
		result.Status = models.StatusPass
		log.Debug().Msg("bucket has recent objects")
	default:
		result.Status = models.StatusFail
		log.Info().Time("cutoff", opts.Window.Cutoff).Msg("bucket has no objects modified since cutoff")
		a.describe(ctx, &result, opts.Timeout)
	}

	result.Duration = time.Since(start)
	return result
}

// describe runs the full diagnostic scan on a failing bucket
func (a *Auditor) describe(ctx context.Context, result *models.BucketResult, timeout time.Duration) {
	descCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	stats, err := a.scanner.Youngest(descCtx, result.Name)
	if err != nil {
		result.LookupErr = err
		a.log.Debug().Str("bucket", result.Name).Err(err).Msg("youngest object lookup failed")
		return
	}
	result.Youngest = stats.Youngest
	result.ObjectCount = stats.ObjectCount
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
