package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/younsl/bucketwatch/internal/models"
)

// DefaultTemplate is used when the [message] section has no template
const DefaultTemplate = `Since {since}, no new objects in (max age {age} days):\n{failedbuckets}`

// TimeLayout is the layout used for timestamps in messages
const TimeLayout = "2006-01-02 15:04:05 MST"

// Fields are the values substituted into a message template
type Fields struct {
	Since         string
	Age           string
	FailedBuckets string
}

// FieldsFor builds template fields from a finished report
func FieldsFor(report *models.AuditReport) Fields {
	return Fields{
		Since:         report.Cutoff.UTC().Format(TimeLayout),
		Age:           strconv.Itoa(report.MaxAgeDays),
		FailedBuckets: FormatFailedBuckets(report),
	}
}

// Render substitutes the placeholders and then expands literal \n sequences
// into line breaks
func Render(tmpl string, f Fields) string {
	r := strings.NewReplacer(
		"{since}", f.Since,
		"{age}", f.Age,
		"{failedbuckets}", f.FailedBuckets,
	)
	return strings.ReplaceAll(r.Replace(tmpl), `\n`, "\n")
}

// FormatFailedBuckets lists failing buckets with their youngest object,
// followed by the buckets that could not be checked
func FormatFailedBuckets(report *models.AuditReport) string {
	lines := make([]string, 0, len(report.Failed)+len(report.Errored))

	for _, r := range report.Failed {
		if !r.YoungestKnown() {
			lines = append(lines, fmt.Sprintf("%s (last modified: unknown)", r.Name))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (last modified: %s, %s)",
			r.Name, r.Youngest.LastModified.UTC().Format(TimeLayout), r.Youngest.Key))
	}
	for _, r := range report.Errored {
		lines = append(lines, fmt.Sprintf("%s (check failed: %v)", r.Name, r.Err))
	}

	return strings.Join(lines, "\n")
}
