package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/younsl/bucketwatch/internal/models"
)

const (
	timeLayout = "2006-01-02 15:04:05 MST"
	keyWidth   = 48
)

// PrintBanner prints the cutoff and the number of buckets about to be inspected
func PrintBanner(w io.Writer, cutoff time.Time, buckets int) {
	fmt.Fprintf(w, "Must be newer than: %s\n", cutoff.UTC().Format(timeLayout))
	fmt.Fprintf(w, "Inspecting %d %s.\n", buckets, plural(buckets, "bucket", "buckets"))
}

// PrintAuditTable prints one row per bucket. Failing and errored buckets are
// always listed, passed buckets only from verbosity 1.
func PrintAuditTable(w io.Writer, report *models.AuditReport, verbosity int) {
	rows := make([]models.BucketResult, 0, report.Total())
	if verbosity >= 1 {
		rows = append(rows, report.Passed...)
	}
	rows = append(rows, report.Failed...)
	rows = append(rows, report.Errored...)

	if len(rows) == 0 {
		if report.Total() == 0 {
			fmt.Fprintln(w, "\nNo buckets audited.")
		}
		return
	}

	fmt.Fprintln(w)

	// Setup tabwriter for kubernetes style tables
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	header := "BUCKET\tOBJECTS\tYOUNGEST KEY\tLAST MODIFIED\tAGE"
	if verbosity >= 2 {
		header += "\tDURATION"
	}
	fmt.Fprintln(tw, header+"\tSTATUS")

	for _, r := range rows {
		objects, key, lastModified, age := "-", "-", "-", "-"

		if r.Status == models.StatusFail {
			switch {
			case r.LookupErr != nil:
				key, lastModified, age = "unknown", "unknown", "unknown"
			case r.Youngest == nil:
				objects, key = "0", "(empty)"
			default:
				objects = humanize.Comma(r.ObjectCount)
				key = Truncate(r.Youngest.Key, keyWidth)
				lastModified = r.Youngest.LastModified.UTC().Format(timeLayout)
				age = humanize.RelTime(r.Youngest.LastModified, report.StartedAt, "ago", "from now")
			}
		}

		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", r.Name, objects, key, lastModified, age)
		if verbosity >= 2 {
			row += "\t" + formatDuration(r.Duration)
		}
		// Status goes last so colour codes do not skew column widths
		fmt.Fprintln(tw, row+"\t"+statusLabel(r.Status))
	}
	tw.Flush()

	printErrors(w, report.Errored)
}

// printErrors prints the cause of every bucket that could not be checked
func printErrors(w io.Writer, errored []models.BucketResult) {
	if len(errored) == 0 {
		return
	}

	fmt.Fprintln(w, "\nERRORS:")
	for _, r := range errored {
		fmt.Fprintf(w, "  %s: %v\n", r.Name, r.Err)
	}
}

// PrintAuditSummary prints the totals of the run
func PrintAuditSummary(w io.Writer, report *models.AuditReport) {
	fmt.Fprintln(w, "\nSUMMARY:")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Buckets audited:\t%d\n", report.Total())
	fmt.Fprintf(tw, "  Fresh:\t%d\n", len(report.Passed))
	fmt.Fprintf(tw, "  Stale:\t%d\n", len(report.Failed))
	fmt.Fprintf(tw, "  Errored:\t%d\n", len(report.Errored))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(tw, "  Skipped:\t%d\n", len(report.Skipped))
	}
	fmt.Fprintf(tw, "Max age:\t%d %s (since %s)\n",
		report.MaxAgeDays, plural(report.MaxAgeDays, "day", "days"), report.Cutoff.UTC().Format(timeLayout))
	tw.Flush()

	printTimestamp(w, report.StartedAt, report.Duration)

	if report.HasFailures() {
		fmt.Fprintln(w, FailStyle.Render("\nCHECK FAILED"))
		return
	}
	fmt.Fprintln(w, PassStyle.Render("\nAll buckets have recent objects"))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
