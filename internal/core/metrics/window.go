package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

// Standard chart windows, in days. Window371 is 53 full weeks for the heatmap.
const (
	Window30  = 30
	Window90  = 90
	Window371 = 371

	MaxWindowDays = Window371
)

// TrailingDays returns n consecutive day keys ending at end's calendar day, oldest first.
func TrailingDays(n int, end time.Time) []string {
	if n <= 0 {
		return []string{}
	}

	last := civilDay(end)
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = last.AddDate(0, 0, i-(n-1)).Format(domain.DateLayout)
	}
	return days
}

// AlignedWeekWindow returns spanWeeks*7 consecutive day keys starting on the most
// recent anchor weekday on or before today-spanDays+1, so heatmap columns line up
// with calendar weeks.
func AlignedWeekWindow(anchor time.Weekday, spanWeeks int, today time.Time) []string {
	span := spanWeeks * 7
	if span <= 0 {
		return []string{}
	}

	start := civilDay(today).AddDate(0, 0, -span+1)
	back := (int(start.Weekday()) - int(anchor) + 7) % 7
	start = start.AddDate(0, 0, -back)

	days := make([]string, span)
	for i := 0; i < span; i++ {
		days[i] = start.AddDate(0, 0, i).Format(domain.DateLayout)
	}
	return days
}

// ParseWindow accepts "30" or "30d" and returns the day count.
func ParseWindow(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "d")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: window %q is not a day count", domain.ErrInvalidInput, s)
	}
	if n <= 0 || n > MaxWindowDays {
		return 0, fmt.Errorf("%w: window must be between 1 and %d days", domain.ErrInvalidInput, MaxWindowDays)
	}
	return n, nil
}

// ParseWeekday accepts "monday", "sun", "0".."6". Empty means Monday.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Monday, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", domain.ErrInvalidInput, s)
}

func DayKey(t time.Time) string {
	return civilDay(t).Format(domain.DateLayout)
}

// ParseDayKey is the inverse of DayKey.
func ParseDayKey(s string) (time.Time, error) {
	return domain.ParseDate(s)
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
