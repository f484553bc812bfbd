package timeparse

import (
	"testing"
	"time"
)

func TestParseInstant(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, loc)

	cases := []struct {
		in   string
		want string
	}{
		{"now", "2024-03-15T14:30:00Z"},
		{"today", "2024-03-15T14:30:00Z"},
		{"tomorrow", "2024-03-16T14:30:00Z"},
		{"yesterday", "2024-03-14T14:30:00Z"},
		{"+7d", "2024-03-22T14:30:00Z"},
		{"-2w", "2024-03-01T14:30:00Z"},
		{"2024-12-30", "2024-12-30T00:00:00Z"},
		{"2024-12-30 08:15", "2024-12-30T08:15:00Z"},
		{"2024-12-30T08:15:09", "2024-12-30T08:15:09Z"},
		{"2024-02-29T23:00:00+02:00", "2024-02-29T21:00:00Z"},
	}

	for _, tc := range cases {
		got, err := ParseInstant(tc.in, now, loc)
		if err != nil {
			t.Fatalf("ParseInstant(%q) error: %v", tc.in, err)
		}
		if got.UTC().Format(time.RFC3339) != tc.want {
			t.Fatalf("ParseInstant(%q) = %s, want %s", tc.in, got.UTC().Format(time.RFC3339), tc.want)
		}
	}
}

func TestParseInstantInvalid(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	for _, in := range []string{"", "+3m", "+xd", "15.03.2024", "soon"} {
		if _, err := ParseInstant(in, now, time.UTC); err == nil {
			t.Fatalf("ParseInstant(%q) expected error", in)
		}
	}
}
