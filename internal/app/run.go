// Package app wires a single audit run: audit, print, publish, notify.
package app

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/younsl/bucketwatch/internal/config"
	"github.com/younsl/bucketwatch/internal/models"
	"github.com/younsl/bucketwatch/pkg/audit"
	"github.com/younsl/bucketwatch/pkg/formatter"
	"github.com/younsl/bucketwatch/pkg/notify"
	"github.com/younsl/bucketwatch/pkg/storage"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// MetricsPublisher receives the finished report
type MetricsPublisher interface {
	Publish(ctx context.Context, report *models.AuditReport) error
}

// Progress follows the audit while it runs
type Progress interface {
	Start(total int)
	Update(done, total int, result models.BucketResult)
	Stop(report *models.AuditReport)
}

// Deps are the collaborators of a run. Notifier, Metrics and Progress are
// optional.
type Deps struct {
	Config    *config.Config
	Store     storage.Store
	Notifier  *notify.Notifier
	Metrics   MetricsPublisher
	Progress  Progress
	Out       io.Writer
	Log       zerolog.Logger
	Verbosity int
	Now       func() time.Time
}

// Run audits the configured buckets and returns the process exit code
func Run(ctx context.Context, d Deps) int {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	window, err := audit.NewWindow(d.Config.Check.Age, now())
	if err != nil {
		d.Log.Error().Err(err).Msg("Invalid check window")
		return ExitFailure
	}

	opts := audit.Options{
		Include:     d.Config.Check.Include,
		Exclude:     d.Config.Check.Exclude,
		Window:      window,
		Concurrency: d.Config.Check.Concurrency,
		Timeout:     d.Config.Check.Timeout,
		OnStart: func(targets []string) {
			formatter.PrintBanner(d.Out, window.Cutoff, len(targets))
			if d.Progress != nil {
				d.Progress.Start(len(targets))
			}
		},
		OnResult: func(done, total int, result models.BucketResult) {
			if d.Progress != nil {
				d.Progress.Update(done, total, result)
			}
		},
	}

	report, err := audit.NewAuditor(d.Store, d.Log).Run(ctx, opts)
	if d.Progress != nil {
		d.Progress.Stop(report)
	}
	if err != nil {
		d.Log.Error().Err(err).Msg("Audit aborted")
		return ExitFailure
	}

	formatter.PrintAuditTable(d.Out, report, d.Verbosity)
	formatter.PrintAuditSummary(d.Out, report)
	if d.Verbosity >= 2 {
		formatter.PrintScanStats(d.Out, report)
	}

	if d.Metrics != nil {
		if err := d.Metrics.Publish(ctx, report); err != nil {
			d.Log.Error().Err(err).Msg("Failed to publish metrics")
		} else {
			d.Log.Debug().Msg("Metrics published")
		}
	}

	if !report.HasFailures() {
		return ExitOK
	}

	if d.Notifier == nil {
		d.Log.Info().Msg("Notifications disabled")
		return ExitFailure
	}

	// Channel failures are logged by the notifier and never change the exit code
	d.Notifier.Notify(ctx, report)
	return ExitFailure
}
