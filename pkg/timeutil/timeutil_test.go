package timeutil

import "testing"

func TestFormatTime(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00"},
		{90, "0:01:30"},
		{90.7, "0:01:30"},
		{3600, "1:00:00"},
		{4282, "1:11:22"},
		{-5, "0:00:00"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.seconds); got != tc.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseTimeToSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"90", 90},
		{"90.5", 90.5},
		{"1:30", 90},
		{"01:30", 90},
		{"1:30.5", 90.5},
		{"1:00:00", 3600},
		{"1:11:22", 4282},
		{" 0:45 ", 45},
	}
	for _, tc := range cases {
		got, err := ParseTimeToSeconds(tc.in)
		if err != nil {
			t.Errorf("ParseTimeToSeconds(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeToSeconds(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimeToSecondsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1:2:3:4", "-5", "1:-30", "1:xx"} {
		if _, err := ParseTimeToSeconds(in); err == nil {
			t.Errorf("ParseTimeToSeconds(%q) expected an error", in)
		}
	}
}
