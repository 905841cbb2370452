package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrNoData = errors.New("no data available")
)

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AverageTotals struct {
	DaysWithData int `json:"days_with_data"`
	TotalSteps   int `json:"total_steps"`
}

// Averages are the dataset-wide means used as the global activity baseline.
type Averages struct {
	Steps        int           `json:"steps"`
	Calories     int           `json:"calories"`
	DistanceKm   float64       `json:"distance_km"`
	SleepMinutes int           `json:"sleep_minutes"`
	Total        AverageTotals `json:"total"`
}

type Snapshot struct {
	Period     Period    `json:"period"`
	DailyData  Dataset   `json:"daily_data"`
	Averages   Averages  `json:"averages"`
	LastUpdate time.Time `json:"last_update"`

	// SyncedThrough is the last day pulled from the activity provider.
	// Empty until the first successful sync. Manual entries never move it.
	SyncedThrough string `json:"synced_through,omitempty"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{DailyData: make(Dataset)}
}

// Validate checks every key and aligns the embedded record dates with their keys.
func (s *Snapshot) Validate() error {
	if s.DailyData == nil {
		s.DailyData = make(Dataset)
	}
	if s.SyncedThrough != "" {
		if err := ValidateDateKey(s.SyncedThrough); err != nil {
			return err
		}
	}
	for key, rec := range s.DailyData {
		if err := ValidateDateKey(key); err != nil {
			return err
		}
		if rec == nil {
			delete(s.DailyData, key)
			continue
		}
		rec.Date = key
	}
	return nil
}

// Dates returns the dataset keys in ascending order.
func (s *Snapshot) Dates() []string {
	dates := make([]string, 0, len(s.DailyData))
	for k := range s.DailyData {
		dates = append(dates, k)
	}
	sort.Strings(dates)
	return dates
}

// UnmarshalJSON also accepts a zone-less last_update, which older exports carry.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	aux := struct {
		*plain
		LastUpdate string `json:"last_update"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.LastUpdate = time.Time{}
	if aux.LastUpdate == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, aux.LastUpdate); err == nil {
		s.LastUpdate = t
		return nil
	}
	t, err := time.Parse("2006-01-02T15:04:05.999999999", aux.LastUpdate)
	if err != nil {
		return fmt.Errorf("%w: last_update %q", ErrInvalidInput, aux.LastUpdate)
	}
	s.LastUpdate = t
	return nil
}
