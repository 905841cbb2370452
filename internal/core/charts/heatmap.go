package charts

import (
	"github.com/comitanigiacomo/kanso-vitals/internal/core/metrics"
)

type HeatmapCell struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
	Level int    `json:"level"`
	Color string `json:"color"`
}

type HeatmapView struct {
	Policy   metrics.BaselinePolicy `json:"baseline_policy"`
	Baseline float64                `json:"baseline"`
	Legend   [5]string              `json:"legend"`
	// Weeks holds one column of seven cells per calendar week.
	Weeks [][]HeatmapCell `json:"weeks"`
}

// Heatmap shades every window day by its activity level. The window is expected
// to come from AlignedWeekWindow so that it splits into whole weeks.
func Heatmap(agg *metrics.Aggregator, policy metrics.BaselinePolicy, baseline float64, theme Theme) HeatmapView {
	window := agg.Window()
	steps := agg.SeriesOf(metrics.FieldSteps)
	levels := agg.ActivityLevels(baseline)

	view := HeatmapView{
		Policy:   policy,
		Baseline: baseline,
		Legend:   theme.Heatmap,
		Weeks:    make([][]HeatmapCell, 0, (len(window)+6)/7),
	}

	var week []HeatmapCell
	for i, date := range window {
		week = append(week, HeatmapCell{
			Date:  date,
			Steps: int(steps[i]),
			Level: levels[i],
			Color: theme.LevelColor(levels[i]),
		})
		if len(week) == 7 {
			view.Weeks = append(view.Weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		view.Weeks = append(view.Weeks, week)
	}
	return view
}

type PhaseShare struct {
	Phase   metrics.Phase `json:"phase"`
	Minutes int           `json:"minutes"`
	Percent float64       `json:"percent"`
	Color   string        `json:"color"`
}

type SleepBreakdownView struct {
	Phases []PhaseShare `json:"phases"`
}

// SleepBreakdown renders phase averages as bars scaled against the longest phase.
func SleepBreakdown(avg metrics.PhaseAverages, theme Theme) SleepBreakdownView {
	pct := metrics.Normalize(avg)
	view := SleepBreakdownView{Phases: make([]PhaseShare, 0, len(metrics.Phases))}
	for _, p := range metrics.Phases {
		view.Phases = append(view.Phases, PhaseShare{
			Phase:   p,
			Minutes: avg[p],
			Percent: pct[p],
			Color:   theme.PhaseColor(p),
		})
	}
	return view
}
