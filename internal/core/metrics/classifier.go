package metrics

import (
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

// BaselinePolicy selects the step count a day is compared against.
type BaselinePolicy string

const (
	// BaselineWindowed averages the non-zero step days of the visible window.
	BaselineWindowed BaselinePolicy = "windowed"
	// BaselineGlobal uses the precomputed dataset-wide step average.
	BaselineGlobal BaselinePolicy = "global"
)

const (
	LevelNone = 0
	LevelLow  = 1
	LevelMid  = 2
	LevelHigh = 3
	LevelPeak = 4
)

func ParseBaselinePolicy(s string) (BaselinePolicy, error) {
	switch BaselinePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", BaselineWindowed:
		return BaselineWindowed, nil
	case BaselineGlobal:
		return BaselineGlobal, nil
	}
	return "", fmt.Errorf("%w: unknown baseline %q (use windowed or global)", domain.ErrInvalidInput, s)
}

func (a *Aggregator) Baseline(policy BaselinePolicy, averages *domain.Averages) float64 {
	if policy == BaselineGlobal {
		if averages == nil {
			return 0
		}
		return float64(averages.Steps)
	}

	total, days := 0, 0
	for _, date := range a.window {
		if steps := a.dataset.Get(date).StepCount(); steps > 0 {
			total += steps
			days++
		}
	}
	if days == 0 {
		return 0
	}
	return float64(total) / float64(days)
}

func (a *Aggregator) ActivityLevel(date string, baseline float64) int {
	return ClassifyActivity(a.dataset.Get(date).StepCount(), baseline)
}

// ActivityLevels classifies every window day against the same baseline.
func (a *Aggregator) ActivityLevels(baseline float64) []int {
	levels := make([]int, len(a.window))
	for i, date := range a.window {
		levels[i] = a.ActivityLevel(date, baseline)
	}
	return levels
}

// ClassifyActivity maps a step count to a 0-4 tier. Boundaries go to the higher tier.
func ClassifyActivity(steps int, baseline float64) int {
	switch {
	case steps <= 0:
		return LevelNone
	case baseline <= 0:
		return LevelLow
	}

	s := float64(steps)
	switch {
	case s >= baseline*1.5:
		return LevelPeak
	case s >= baseline*1.2:
		return LevelHigh
	case s >= baseline*0.8:
		return LevelMid
	default:
		return LevelLow
	}
}
