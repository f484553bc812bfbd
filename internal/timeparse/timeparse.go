package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseInstant resolves a reference instant for pinning the clock.
// Relative forms keep the time of day of now; date-only forms start at
// midnight in loc.
func ParseInstant(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	now = now.In(loc)

	switch s {
	case "now", "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		sign := 1
		if strings.HasPrefix(s, "-") {
			sign = -1
		}
		raw := s[1:]
		unit := 1
		switch {
		case strings.HasSuffix(raw, "d"):
			raw = strings.TrimSuffix(raw, "d")
		case strings.HasSuffix(raw, "w"):
			raw, unit = strings.TrimSuffix(raw, "w"), 7
		default:
			return time.Time{}, fmt.Errorf("invalid relative offset: %s", input)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid relative offset: %s", input)
		}
		return now.AddDate(0, 0, sign*n*unit), nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, strings.TrimSpace(input), loc); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %s", input)
}
