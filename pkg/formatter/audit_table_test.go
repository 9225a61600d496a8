package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/younsl/bucketwatch/internal/models"
)

var started = time.Date(2023, 1, 8, 12, 0, 0, 0, time.UTC)

func sampleReport() *models.AuditReport {
	return &models.AuditReport{
		StartedAt:  started,
		Cutoff:     started.Add(-7 * 24 * time.Hour),
		MaxAgeDays: 7,
		Duration:   2 * time.Second,
		Passed: []models.BucketResult{
			{Name: "alpha", Status: models.StatusPass, Duration: 300 * time.Millisecond},
		},
		Failed: []models.BucketResult{
			{
				Name:        "beta",
				Status:      models.StatusFail,
				Youngest:    &models.ObjectInfo{Key: "recent.tar", LastModified: started.Add(-10 * 24 * time.Hour), Size: 1 << 20},
				ObjectCount: 12345,
				Duration:    1500 * time.Millisecond,
			},
			{Name: "empty", Status: models.StatusFail},
			{Name: "flaky", Status: models.StatusFail, LookupErr: errors.New("throttled")},
		},
		Errored: []models.BucketResult{
			{Name: "gamma", Status: models.StatusError, Err: errors.New("access denied")},
		},
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, started, 1)
	assert.Equal(t, "Must be newer than: 2023-01-08 12:00:00 UTC\nInspecting 1 bucket.\n", buf.String())

	buf.Reset()
	PrintBanner(&buf, started, 3)
	assert.Contains(t, buf.String(), "Inspecting 3 buckets.")
}

func TestPrintAuditTable_QuietHidesPassed(t *testing.T) {
	var buf bytes.Buffer
	PrintAuditTable(&buf, sampleReport(), 0)
	out := buf.String()

	assert.NotContains(t, out, "alpha")
	assert.NotContains(t, out, "DURATION")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "recent.tar")
	assert.Contains(t, out, "2022-12-29 12:00:00 UTC")
	assert.Contains(t, out, "(empty)")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "STALE")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "gamma: access denied")
}

func TestPrintAuditTable_VerboseShowsPassed(t *testing.T) {
	var buf bytes.Buffer
	PrintAuditTable(&buf, sampleReport(), 2)
	out := buf.String()

	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "FRESH")
	assert.Contains(t, out, "DURATION")
	assert.Contains(t, out, "1.5s")
}

func TestPrintAuditTable_AllFreshQuiet(t *testing.T) {
	report := &models.AuditReport{Passed: []models.BucketResult{{Name: "alpha", Status: models.StatusPass}}}

	var buf bytes.Buffer
	PrintAuditTable(&buf, report, 0)
	assert.Empty(t, buf.String())

	PrintAuditTable(&buf, &models.AuditReport{}, 0)
	assert.Contains(t, buf.String(), "No buckets audited.")
}

func TestPrintAuditSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintAuditSummary(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "Buckets audited:")
	assert.Regexp(t, `Stale:\s+3`, out)
	assert.Regexp(t, `Errored:\s+1`, out)
	assert.NotContains(t, out, "Skipped")
	assert.Contains(t, out, "7 days (since 2023-01-01 12:00:00 UTC)")
	assert.Contains(t, out, "took 2.00s")
	assert.Contains(t, out, "CHECK FAILED")

	buf.Reset()
	PrintAuditSummary(&buf, &models.AuditReport{MaxAgeDays: 1, Skipped: []string{"logs"}})
	assert.Contains(t, buf.String(), "1 day ")
	assert.Regexp(t, `Skipped:\s+1`, buf.String())
	assert.Contains(t, buf.String(), "All buckets have recent objects")
}

func TestPrintScanStats(t *testing.T) {
	var buf bytes.Buffer
	PrintScanStats(&buf, sampleReport())
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title, header, then slowest first
	assert.Equal(t, "SLOWEST BUCKETS:", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "beta"))
	assert.Contains(t, lines[2], "75.0%")
	assert.True(t, strings.HasPrefix(lines[3], "alpha"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"backups/2023/01/daily.tar.gz", 15, "...daily.tar.gz"},
		{"백업/데이터", 8, "...이터"},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.width)
		assert.Equal(t, tt.want, got)
		assert.LessOrEqual(t, StringWidth(got), tt.width)
	}
}
