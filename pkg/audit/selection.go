package audit

import "strings"

// Selection is the set of buckets a run audits
type Selection struct {
	// Targets are audited in this order
	Targets []string

	// Skipped holds names present in both the include and the exclude list
	Skipped []string

	// Explicit is true when targets come from the include list rather than
	// the account listing
	Explicit bool
}

// SelectBuckets applies include/exclude filtering. A non-empty include list
// restricts the run to exactly those names in the given order; otherwise every
// available bucket is considered. Excluded names are always removed, even when
// explicitly included.
func SelectBuckets(available, include, exclude []string) Selection {
	include = cleanNames(include)
	excluded := make(map[string]bool)
	for _, name := range cleanNames(exclude) {
		excluded[name] = true
	}

	sel := Selection{Explicit: len(include) > 0}

	candidates := cleanNames(available)
	if sel.Explicit {
		candidates = include
	}

	for _, name := range candidates {
		if excluded[name] {
			if sel.Explicit {
				sel.Skipped = append(sel.Skipped, name)
			}
			continue
		}
		sel.Targets = append(sel.Targets, name)
	}

	return sel
}

// cleanNames trims whitespace, drops empty entries and collapses duplicates
// keeping the first occurrence
func cleanNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
