package formatter

import (
	"fmt"
	"io"
	"time"
)

// printTimestamp prints the audit timestamp and duration
func printTimestamp(w io.Writer, startTime time.Time, duration time.Duration) {
	// Format the audit time
	timeStr := startTime.Format("2006-01-02 15:04:05")

	// Format the duration
	durationStr := fmt.Sprintf("%.2fs", duration.Seconds())

	fmt.Fprintf(w, "Audit started at %s (took %s)\n", timeStr, durationStr)
}
