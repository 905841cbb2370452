package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

func TestTrailingDays(t *testing.T) {
	end := time.Date(2024, 3, 2, 18, 45, 0, 0, time.UTC)

	t.Run("30 consecutive days ending at end", func(t *testing.T) {
		days := TrailingDays(Window30, end)

		require.Len(t, days, 30)
		assert.Equal(t, "2024-02-02", days[0])
		assert.Equal(t, "2024-03-02", days[29])

		for i := 1; i < len(days); i++ {
			prev, err := domain.ParseDate(days[i-1])
			require.NoError(t, err)
			cur, err := domain.ParseDate(days[i])
			require.NoError(t, err)
			assert.Equal(t, 24*time.Hour, cur.Sub(prev), "days must be consecutive: %s -> %s", days[i-1], days[i])
		}
	})

	t.Run("Crosses leap day", func(t *testing.T) {
		days := TrailingDays(3, end)
		assert.Equal(t, []string{"2024-02-29", "2024-03-01", "2024-03-02"}, days)
	})

	t.Run("Uses the calendar day of end's location", func(t *testing.T) {
		loc := time.FixedZone("UTC+9", 9*3600)
		lateEvening := time.Date(2024, 3, 2, 23, 30, 0, 0, loc)

		days := TrailingDays(1, lateEvening)
		assert.Equal(t, []string{"2024-03-02"}, days)
	})

	t.Run("Non-positive n is empty", func(t *testing.T) {
		assert.Empty(t, TrailingDays(0, end))
		assert.Empty(t, TrailingDays(-3, end))
	})

	t.Run("371 day heatmap window", func(t *testing.T) {
		days := TrailingDays(Window371, end)
		require.Len(t, days, 371)
		assert.Equal(t, "2024-03-02", days[370])
	})
}

func TestAlignedWeekWindow(t *testing.T) {
	// 2024-03-06 is a Wednesday.
	today := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

	t.Run("Starts on a Monday", func(t *testing.T) {
		days := AlignedWeekWindow(time.Monday, 2, today)

		require.Len(t, days, 14)
		// today-13 = 2024-02-22 (Thursday), most recent Monday on or before is 2024-02-19.
		assert.Equal(t, "2024-02-19", days[0])
		assert.Equal(t, "2024-03-03", days[13])

		first, err := domain.ParseDate(days[0])
		require.NoError(t, err)
		assert.Equal(t, time.Monday, first.Weekday())
	})

	t.Run("Starts on a Sunday", func(t *testing.T) {
		days := AlignedWeekWindow(time.Sunday, 1, today)

		require.Len(t, days, 7)
		// today-6 = 2024-02-29 (Thursday) -> Sunday 2024-02-25.
		assert.Equal(t, "2024-02-25", days[0])
	})

	t.Run("Already aligned start is kept", func(t *testing.T) {
		// today-6 = 2024-02-29 is a Thursday.
		days := AlignedWeekWindow(time.Thursday, 1, today)
		assert.Equal(t, "2024-02-29", days[0])
		assert.Equal(t, "2024-03-06", days[6])
	})

	t.Run("Zero weeks is empty", func(t *testing.T) {
		assert.Empty(t, AlignedWeekWindow(time.Monday, 0, today))
	})
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "30", want: 30},
		{in: "90d", want: 90},
		{in: " 371d ", want: 371},
		{in: "0", wantErr: true},
		{in: "372", wantErr: true},
		{in: "month", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"":       time.Monday,
		"sunday": time.Sunday,
		"Mon":    time.Monday,
		"6":      time.Saturday,
	}
	for in, want := range tests {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("someday")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseDayKey(t *testing.T) {
	day := time.Date(2025, 3, 10, 22, 45, 0, 0, time.UTC)

	got, err := ParseDayKey(DayKey(day))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2025-3-10", "10/03/2025", "2025-02-30"} {
		_, err := ParseDayKey(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, bad)
	}
}
