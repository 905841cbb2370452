package metrics

import (
	"math"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

type Field string

const (
	FieldSteps    Field = "steps"
	FieldCalories Field = "calories"
	FieldDistance Field = "distance_km"
	FieldWater    Field = "water_ml"
	FieldWeight   Field = "weight"
	FieldFood     Field = "food"
	FieldSleep    Field = "sleep_minutes"
)

type Phase string

const (
	PhaseDeep  Phase = "Deep"
	PhaseLight Phase = "Light"
	PhaseREM   Phase = "REM"
	PhaseAwake Phase = "Awake"
)

// Phases is the stacking order used by every sleep chart.
var Phases = []Phase{PhaseDeep, PhaseLight, PhaseREM, PhaseAwake}

type PhaseAverages map[Phase]int

type DatePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Aggregator reads one immutable dataset over one window of day keys.
type Aggregator struct {
	dataset domain.Dataset
	window  []string
}

func NewAggregator(dataset domain.Dataset, window []string) *Aggregator {
	return &Aggregator{
		dataset: dataset,
		window:  window,
	}
}

func (a *Aggregator) Window() []string {
	return a.window
}

// SeriesOf returns one value per window day, 0 where the day or field is missing.
func (a *Aggregator) SeriesOf(field Field) []float64 {
	series := make([]float64, len(a.window))
	for i, date := range a.window {
		if v, ok := fieldValue(a.dataset.Get(date), field); ok {
			series[i] = v
		}
	}
	return series
}

// PresentSeriesOf keeps only the days where field was recorded.
func (a *Aggregator) PresentSeriesOf(field Field) []DatePoint {
	points := make([]DatePoint, 0)
	for _, date := range a.window {
		if v, ok := fieldValue(a.dataset.Get(date), field); ok {
			points = append(points, DatePoint{Date: date, Value: v})
		}
	}
	return points
}

func (a *Aggregator) FoodTotalOf(date string) int {
	return a.dataset.Get(date).FoodTotal()
}

// SleepPhaseSeries returns the per-day minutes of each phase, 0 on nights without data.
func (a *Aggregator) SleepPhaseSeries() map[Phase][]float64 {
	series := make(map[Phase][]float64, len(Phases))
	for _, p := range Phases {
		series[p] = make([]float64, len(a.window))
	}
	for i, date := range a.window {
		rec := a.dataset.Get(date)
		if rec == nil || !rec.Sleep.HasData() {
			continue
		}
		for _, p := range Phases {
			series[p][i] = float64(phaseMinutes(rec.Sleep, p))
		}
	}
	return series
}

// SleepPhaseAverages averages each phase over the nights that have sleep data.
// Nights without data are left out of the denominator.
func (a *Aggregator) SleepPhaseAverages() PhaseAverages {
	sums := make(map[Phase]int, len(Phases))
	nights := 0
	for _, date := range a.window {
		rec := a.dataset.Get(date)
		if rec == nil || !rec.Sleep.HasData() {
			continue
		}
		nights++
		for _, p := range Phases {
			sums[p] += phaseMinutes(rec.Sleep, p)
		}
	}

	avg := make(PhaseAverages, len(Phases))
	for _, p := range Phases {
		if nights == 0 {
			avg[p] = 0
			continue
		}
		avg[p] = roundHalfUp(float64(sums[p]) / float64(nights))
	}
	return avg
}

// Normalize scales each phase against the largest one, in percent.
func Normalize(avg PhaseAverages) map[Phase]float64 {
	maxMinutes := 0
	for _, p := range Phases {
		if avg[p] > maxMinutes {
			maxMinutes = avg[p]
		}
	}

	out := make(map[Phase]float64, len(Phases))
	for _, p := range Phases {
		if maxMinutes == 0 {
			out[p] = 0
			continue
		}
		out[p] = 100 * float64(avg[p]) / float64(maxMinutes)
	}
	return out
}

func fieldValue(rec *domain.DailyRecord, field Field) (float64, bool) {
	if rec == nil {
		return 0, false
	}
	switch field {
	case FieldSteps:
		return intValue(rec.Steps)
	case FieldCalories:
		return intValue(rec.Calories)
	case FieldWater:
		return intValue(rec.WaterML)
	case FieldDistance:
		return floatValue(rec.DistanceKm)
	case FieldWeight:
		return floatValue(rec.Weight)
	case FieldFood:
		if len(rec.FoodLog) == 0 {
			return 0, false
		}
		return float64(rec.FoodTotal()), true
	case FieldSleep:
		if !rec.Sleep.HasData() {
			return 0, false
		}
		return float64(*rec.Sleep.TotalMinutes), true
	}
	return 0, false
}

func phaseMinutes(s *domain.SleepRecord, p Phase) int {
	var v *int
	switch p {
	case PhaseDeep:
		v = s.DeepMinutes
	case PhaseLight:
		v = s.LightMinutes
	case PhaseREM:
		v = s.REMMinutes
	case PhaseAwake:
		v = s.AwakeMinutes
	}
	if v == nil {
		return 0
	}
	return *v
}

func intValue(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

func floatValue(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
