package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	local := time.FixedZone("CET", 3600)
	start := time.Date(2023, 1, 8, 13, 0, 0, 0, local)

	w, err := NewWindow(7, start)
	require.NoError(t, err)

	assert.Equal(t, 7, w.MaxAgeDays)
	assert.Equal(t, time.UTC, w.StartedAt.Location())
	assert.True(t, w.Cutoff.Equal(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestNewWindow_RejectsNonPositiveAge(t *testing.T) {
	for _, days := range []int{0, -3} {
		_, err := NewWindow(days, time.Now())
		assert.Error(t, err, "days=%d", days)
	}
}
