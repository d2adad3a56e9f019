package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime formats seconds as H:MM:SS (e.g. 0:01:30, 1:11:22).
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
}

// ParseTimeToSeconds parses a duration given as HH:MM:SS, MM:SS, or raw
// seconds. The seconds field may be fractional in any of the forms.
func ParseTimeToSeconds(timeStr string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got %q", timeStr)
	}

	total := 0.0
	for i, part := range parts {
		if i == len(parts)-1 {
			secs, err := strconv.ParseFloat(part, 64)
			if err != nil || secs < 0 {
				return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got %q", timeStr)
			}
			total += secs
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got %q", timeStr)
		}
		total = (total + float64(n)) * 60
	}
	return total, nil
}
