package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/younsl/bucketwatch/internal/models"
)

// spinnerProgress shows a spinner with a running bucket count
type spinnerProgress struct {
	s     *spinner.Spinner
	start time.Time
}

func newSpinnerProgress(w io.Writer) *spinnerProgress {
	return &spinnerProgress{
		s: spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(w)),
	}
}

func (p *spinnerProgress) Start(total int) {
	p.start = time.Now()
	p.s.Suffix = fmt.Sprintf(" Checking %d buckets ...", total)
	p.s.Start()
}

func (p *spinnerProgress) Update(done, total int, _ models.BucketResult) {
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(" Checking buckets ... %d/%d", done, total)
	p.s.Unlock()
}

func (p *spinnerProgress) Stop(report *models.AuditReport) {
	if report != nil {
		p.s.FinalMSG = fmt.Sprintf("✓ [%d stale, %d errored] %d buckets checked - Completed in %.2f seconds\n",
			len(report.Failed), len(report.Errored), report.Total(), time.Since(p.start).Seconds())
	}
	p.s.Stop()
}
