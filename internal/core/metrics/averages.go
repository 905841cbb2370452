package metrics

import (
	"math"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

// CalculateAverages computes the dataset-wide means. Calories and distance only
// count on days that also have steps.
func CalculateAverages(dataset domain.Dataset) domain.Averages {
	var (
		steps, calories, sleep []int
		distance               []float64
	)

	for _, day := range dataset {
		if day == nil {
			continue
		}
		if day.StepCount() > 0 {
			steps = append(steps, *day.Steps)
			if day.Calories != nil && *day.Calories > 0 {
				calories = append(calories, *day.Calories)
			}
			if day.DistanceKm != nil && *day.DistanceKm > 0 {
				distance = append(distance, *day.DistanceKm)
			}
		}
		if day.Sleep.HasData() {
			sleep = append(sleep, *day.Sleep.TotalMinutes)
		}
	}

	totalSteps := sum(steps)
	return domain.Averages{
		Steps:        meanInt(steps),
		Calories:     meanInt(calories),
		DistanceKm:   meanFloat2(distance),
		SleepMinutes: meanInt(sleep),
		Total: domain.AverageTotals{
			DaysWithData: len(steps),
			TotalSteps:   totalSteps,
		},
	}
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func meanInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return int(math.Round(float64(sum(values)) / float64(len(values))))
}

func meanFloat2(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return math.Round(total/float64(len(values))*100) / 100
}
