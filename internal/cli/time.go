package cli

import (
	"fmt"
	"strings"
	"time"
)

// parseInstant parses an RFC3339 flag value. An empty value means fallback.
func parseInstant(name, raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be RFC3339: %w", name, err)
	}
	return t.UTC(), nil
}
