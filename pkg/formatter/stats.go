package formatter

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/younsl/bucketwatch/internal/models"
)

// slowestLimit caps the number of buckets listed by PrintScanStats
const slowestLimit = 5

// PrintScanStats prints the slowest bucket checks of the run
func PrintScanStats(w io.Writer, report *models.AuditReport) {
	all := make([]models.BucketResult, 0, report.Total())
	all = append(all, report.Passed...)
	all = append(all, report.Failed...)
	all = append(all, report.Errored...)

	if len(all) == 0 {
		return
	}

	slices.SortStableFunc(all, func(a, b models.BucketResult) int {
		return cmp.Compare(b.Duration, a.Duration)
	})
	if len(all) > slowestLimit {
		all = all[:slowestLimit]
	}

	fmt.Fprintln(w, "\nSLOWEST BUCKETS:")

	// Use tabwriter for clean tabular output
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "BUCKET\tDURATION\tSHARE")

	for _, r := range all {
		share := 0.0
		if report.Duration > 0 {
			share = float64(r.Duration) / float64(report.Duration) * 100.0
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", r.Name, formatDuration(r.Duration), share)
	}

	tw.Flush()
}
