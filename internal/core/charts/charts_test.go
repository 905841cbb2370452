package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/metrics"
)

var today = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

func TestThemeByName(t *testing.T) {
	th, err := ThemeByName("")
	require.NoError(t, err)
	assert.Equal(t, "dark", th.Name)

	th, err = ThemeByName("Light")
	require.NoError(t, err)
	assert.Equal(t, "light", th.Name)

	_, err = ThemeByName("neon")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	assert.Equal(t, DarkTheme.Heatmap[0], DarkTheme.LevelColor(-1))
	assert.Equal(t, DarkTheme.Heatmap[4], DarkTheme.LevelColor(9))
}

func TestStepsChart(t *testing.T) {
	ds := domain.Dataset{"2024-03-06": {Steps: domain.IntPtr(6543)}}
	agg := metrics.NewAggregator(ds, metrics.TrailingDays(metrics.Window30, today))

	chart := StepsChart(agg, DarkTheme)

	require.Len(t, chart.Labels, 30)
	assert.Equal(t, "6", chart.Labels[29])
	assert.Equal(t, "6", chart.Labels[0], "2024-02-06")
	require.Len(t, chart.Datasets, 1)
	assert.Equal(t, 6543.0, chart.Datasets[0].Data[29])
	assert.Equal(t, DarkTheme.Steps, chart.Datasets[0].Color)
}

func TestCaloriesChart(t *testing.T) {
	window := []string{"2024-03-05", "2024-03-06"}

	t.Run("Burned only", func(t *testing.T) {
		ds := domain.Dataset{"2024-03-05": {Calories: domain.IntPtr(2200)}}
		chart := CaloriesChart(metrics.NewAggregator(ds, window), DarkTheme)

		require.Len(t, chart.Datasets, 1)
		assert.False(t, chart.Legend)
		assert.Equal(t, []float64{2200, 0}, chart.Datasets[0].Data)
	})

	t.Run("Consumed line when food was logged", func(t *testing.T) {
		ds := domain.Dataset{"2024-03-06": {FoodLog: []domain.FoodEntry{{Calories: 500}, {Calories: 700}}}}
		chart := CaloriesChart(metrics.NewAggregator(ds, window), LightTheme)

		require.Len(t, chart.Datasets, 2)
		assert.True(t, chart.Legend)
		assert.Equal(t, KindLine, chart.Datasets[1].Kind)
		assert.Equal(t, []float64{0, 1200}, chart.Datasets[1].Data)
		assert.Equal(t, LightTheme.Consumed, chart.Datasets[1].Color)
	})
}

func TestSleepChart(t *testing.T) {
	ds := domain.Dataset{"2024-03-06": {Sleep: &domain.SleepRecord{
		TotalMinutes: domain.IntPtr(480),
		DeepMinutes:  domain.IntPtr(90),
		LightMinutes: domain.IntPtr(240),
		REMMinutes:   domain.IntPtr(90),
		AwakeMinutes: domain.IntPtr(60),
	}}}
	chart := SleepChart(metrics.NewAggregator(ds, []string{"2024-03-06"}), DarkTheme)

	assert.True(t, chart.Stacked)
	require.Len(t, chart.Datasets, 4)
	for i, p := range metrics.Phases {
		assert.Equal(t, string(p), chart.Datasets[i].Label)
		assert.Equal(t, "sleep", chart.Datasets[i].Stack)
	}
	assert.Equal(t, []float64{240}, chart.Datasets[1].Data)
}

func TestWeightChart(t *testing.T) {
	window := metrics.TrailingDays(metrics.Window90, today)

	t.Run("Hidden without measurements", func(t *testing.T) {
		chart := WeightChart(metrics.NewAggregator(domain.Dataset{}, window), DarkTheme)
		assert.True(t, chart.Hidden)
		assert.Empty(t, chart.Labels)
	})

	t.Run("Only measured days", func(t *testing.T) {
		ds := domain.Dataset{
			"2024-01-15": {Weight: domain.FloatPtr(81.0)},
			"2024-03-01": {Weight: domain.FloatPtr(79.5)},
			"2024-03-02": {Steps: domain.IntPtr(3000)},
		}
		chart := WeightChart(metrics.NewAggregator(ds, window), DarkTheme)

		assert.False(t, chart.Hidden)
		assert.Equal(t, []string{"Jan 15", "Mar 1"}, chart.Labels)
		assert.Equal(t, []float64{81.0, 79.5}, chart.Datasets[0].Data)
	})
}

func TestWaterChart(t *testing.T) {
	window := []string{"2024-03-05", "2024-03-06"}

	t.Run("Hidden without entries", func(t *testing.T) {
		chart := WaterChart(metrics.NewAggregator(domain.Dataset{}, window), DarkTheme, 0)
		assert.True(t, chart.Hidden)
	})

	t.Run("Colors bars that reach the target", func(t *testing.T) {
		ds := domain.Dataset{
			"2024-03-05": {WaterML: domain.IntPtr(2500)},
			"2024-03-06": {WaterML: domain.IntPtr(900)},
		}
		chart := WaterChart(metrics.NewAggregator(ds, window), DarkTheme, 0)

		assert.False(t, chart.Hidden)
		require.Len(t, chart.Datasets, 2)
		assert.Equal(t, []string{DarkTheme.WaterGoal, DarkTheme.Water}, chart.Datasets[0].Colors)
		assert.Equal(t, "Target (2L)", chart.Datasets[1].Label)
		assert.Equal(t, []float64{2000, 2000}, chart.Datasets[1].Data)
		assert.True(t, chart.Datasets[1].Dashed)
	})
}

func TestHeatmap(t *testing.T) {
	window := metrics.AlignedWeekWindow(time.Monday, 2, today)
	ds := domain.Dataset{
		window[0]: {Steps: domain.IntPtr(4000)},
		window[1]: {Steps: domain.IntPtr(8000)},
	}
	agg := metrics.NewAggregator(ds, window)
	baseline := agg.Baseline(metrics.BaselineWindowed, nil)

	view := Heatmap(agg, metrics.BaselineWindowed, baseline, DarkTheme)

	assert.Equal(t, 6000.0, view.Baseline)
	require.Len(t, view.Weeks, 2)
	for _, w := range view.Weeks {
		assert.Len(t, w, 7)
	}
	assert.Equal(t, metrics.LevelLow, view.Weeks[0][0].Level)
	assert.Equal(t, metrics.LevelPeak, view.Weeks[0][1].Level)
	assert.Equal(t, DarkTheme.Heatmap[4], view.Weeks[0][1].Color)
	assert.Equal(t, metrics.LevelNone, view.Weeks[1][6].Level)
	assert.Equal(t, DarkTheme.Heatmap[0], view.Weeks[1][6].Color)
}

func TestSleepBreakdown(t *testing.T) {
	avg := metrics.PhaseAverages{metrics.PhaseDeep: 90, metrics.PhaseLight: 240, metrics.PhaseREM: 90, metrics.PhaseAwake: 60}
	view := SleepBreakdown(avg, DarkTheme)

	require.Len(t, view.Phases, 4)
	assert.Equal(t, metrics.PhaseLight, view.Phases[1].Phase)
	assert.InDelta(t, 100.0, view.Phases[1].Percent, 1e-9)
	assert.InDelta(t, 25.0, view.Phases[3].Percent, 1e-9)
	assert.Equal(t, DarkTheme.Awake, view.Phases[3].Color)
}
