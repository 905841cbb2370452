package charts

import (
	"strconv"
	"time"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/metrics"
)

type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

const DefaultWaterTargetML = 2000

type Dataset struct {
	Label  string    `json:"label"`
	Kind   Kind      `json:"type"`
	Data   []float64 `json:"data"`
	Color  string    `json:"color"`
	Colors []string  `json:"colors,omitempty"`
	Stack  string    `json:"stack,omitempty"`
	Fill   bool      `json:"fill,omitempty"`
	Dashed bool      `json:"dashed,omitempty"`
}

// Chart is the renderer-agnostic description of one dashboard chart.
type Chart struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"type"`
	Unit     string    `json:"unit"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Stacked  bool      `json:"stacked,omitempty"`
	Legend   bool      `json:"legend"`
	// Hidden tells the page to drop the chart container entirely.
	Hidden bool `json:"hidden,omitempty"`
}

func StepsChart(agg *metrics.Aggregator, theme Theme) Chart {
	return Chart{
		ID:     "steps",
		Kind:   KindBar,
		Unit:   "steps",
		Labels: DayOfMonthLabels(agg.Window()),
		Datasets: []Dataset{{
			Label: "Steps",
			Kind:  KindBar,
			Data:  agg.SeriesOf(metrics.FieldSteps),
			Color: theme.Steps,
		}},
	}
}

// CaloriesChart shows burned calories, with a consumed line only when a food log exists.
func CaloriesChart(agg *metrics.Aggregator, theme Theme) Chart {
	chart := Chart{
		ID:     "calories",
		Kind:   KindBar,
		Unit:   "kcal",
		Labels: DayOfMonthLabels(agg.Window()),
		Datasets: []Dataset{{
			Label: "Burned",
			Kind:  KindBar,
			Data:  agg.SeriesOf(metrics.FieldCalories),
			Color: theme.Burned,
		}},
	}

	consumed := agg.SeriesOf(metrics.FieldFood)
	if anyPositive(consumed) {
		chart.Datasets = append(chart.Datasets, Dataset{
			Label: "Consumed",
			Kind:  KindLine,
			Data:  consumed,
			Color: theme.Consumed,
			Fill:  true,
		})
		chart.Legend = true
	}
	return chart
}

func SleepChart(agg *metrics.Aggregator, theme Theme) Chart {
	series := agg.SleepPhaseSeries()
	chart := Chart{
		ID:      "sleep",
		Kind:    KindBar,
		Unit:    "minutes",
		Labels:  DayOfMonthLabels(agg.Window()),
		Stacked: true,
		Legend:  true,
	}
	for _, p := range metrics.Phases {
		chart.Datasets = append(chart.Datasets, Dataset{
			Label: string(p),
			Kind:  KindBar,
			Data:  series[p],
			Color: theme.PhaseColor(p),
			Stack: "sleep",
		})
	}
	return chart
}

// WeightChart plots only the days with a measurement.
func WeightChart(agg *metrics.Aggregator, theme Theme) Chart {
	points := agg.PresentSeriesOf(metrics.FieldWeight)
	chart := Chart{
		ID:     "weight",
		Kind:   KindLine,
		Unit:   "kg",
		Labels: make([]string, 0, len(points)),
		Hidden: len(points) == 0,
	}

	data := make([]float64, 0, len(points))
	for _, p := range points {
		chart.Labels = append(chart.Labels, ShortDateLabel(p.Date))
		data = append(data, p.Value)
	}
	chart.Datasets = []Dataset{{
		Label: "Weight (kg)",
		Kind:  KindLine,
		Data:  data,
		Color: theme.Weight,
		Fill:  true,
	}}
	return chart
}

// WaterChart is zero-filled, but hidden when no day in the window has a water entry.
func WaterChart(agg *metrics.Aggregator, theme Theme, targetML int) Chart {
	if targetML <= 0 {
		targetML = DefaultWaterTargetML
	}

	window := agg.Window()
	water := agg.SeriesOf(metrics.FieldWater)
	colors := make([]string, len(water))
	for i, v := range water {
		colors[i] = theme.Water
		if v >= float64(targetML) {
			colors[i] = theme.WaterGoal
		}
	}

	target := make([]float64, len(window))
	for i := range target {
		target[i] = float64(targetML)
	}

	return Chart{
		ID:     "water",
		Kind:   KindBar,
		Unit:   "ml",
		Labels: DayOfMonthLabels(window),
		Legend: true,
		Hidden: len(agg.PresentSeriesOf(metrics.FieldWater)) == 0,
		Datasets: []Dataset{
			{
				Label:  "Water",
				Kind:   KindBar,
				Data:   water,
				Color:  theme.Steps,
				Colors: colors,
			},
			{
				Label:  "Target (" + strconv.FormatFloat(float64(targetML)/1000, 'f', -1, 64) + "L)",
				Kind:   KindLine,
				Data:   target,
				Color:  theme.Target,
				Dashed: true,
			},
		},
	}
}

func (t Theme) PhaseColor(p metrics.Phase) string {
	switch p {
	case metrics.PhaseDeep:
		return t.Deep
	case metrics.PhaseLight:
		return t.Light
	case metrics.PhaseREM:
		return t.REM
	default:
		return t.Awake
	}
}

func DayOfMonthLabels(window []string) []string {
	labels := make([]string, len(window))
	for i, d := range window {
		t, err := time.Parse(domain.DateLayout, d)
		if err != nil {
			labels[i] = d
			continue
		}
		labels[i] = strconv.Itoa(t.Day())
	}
	return labels
}

func ShortDateLabel(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

func anyPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}
