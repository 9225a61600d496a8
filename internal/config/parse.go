package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func parsePositiveInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfig, key, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s must be greater than zero, got %d", ErrInvalidConfig, key, n)
	}
	return n, nil
}

// parseTimeout accepts Go durations, a bare number of seconds, or 0 to
// disable the timeout
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("%w: check.timeout must not be negative", ErrInvalidConfig)
		}
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: check.timeout %q is not a duration", ErrInvalidConfig, raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: check.timeout must not be negative", ErrInvalidConfig)
	}
	return d, nil
}
