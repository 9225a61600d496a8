package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBuckets(t *testing.T) {
	tests := []struct {
		name         string
		available    []string
		include      []string
		exclude      []string
		wantTargets  []string
		wantSkipped  []string
		wantExplicit bool
	}{
		{
			name:         "exclude overrides include",
			available:    []string{"A", "B", "C"},
			include:      []string{"A", "B"},
			exclude:      []string{"B"},
			wantTargets:  []string{"A"},
			wantSkipped:  []string{"B"},
			wantExplicit: true,
		},
		{
			name:        "no include audits every available bucket minus excluded",
			available:   []string{"A", "B", "C"},
			exclude:     []string{"C"},
			wantTargets: []string{"A", "B"},
		},
		{
			name:         "include keeps the given order",
			available:    []string{"A", "B", "C"},
			include:      []string{"C", "A"},
			wantTargets:  []string{"C", "A"},
			wantExplicit: true,
		},
		{
			name:         "include is not limited to listed buckets",
			available:    nil,
			include:      []string{"remote"},
			wantTargets:  []string{"remote"},
			wantExplicit: true,
		},
		{
			name:         "whitespace and duplicates are ignored",
			include:      []string{" A", "", "B ", "A"},
			exclude:      []string{" "},
			wantTargets:  []string{"A", "B"},
			wantExplicit: true,
		},
		{
			name:        "everything excluded",
			available:   []string{"A"},
			exclude:     []string{"A"},
			wantTargets: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := SelectBuckets(tt.available, tt.include, tt.exclude)
			assert.Equal(t, tt.wantTargets, sel.Targets)
			assert.Equal(t, tt.wantSkipped, sel.Skipped)
			assert.Equal(t, tt.wantExplicit, sel.Explicit)
		})
	}
}
