package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = errors.New("invalid date (expected YYYY-MM-DD)")
)

type SleepRecord struct {
	TotalMinutes *int `json:"total_minutes"`
	DeepMinutes  *int `json:"deep_sleep_minutes"`
	LightMinutes *int `json:"light_sleep_minutes"`
	REMMinutes   *int `json:"rem_sleep_minutes"`
	AwakeMinutes *int `json:"awake_minutes"`
}

// HasData reports whether the night carries a usable total.
func (s *SleepRecord) HasData() bool {
	return s != nil && s.TotalMinutes != nil && *s.TotalMinutes > 0
}

type FoodEntry struct {
	ID       string    `json:"id,omitempty"`
	Item     string    `json:"item,omitempty"`
	Calories int       `json:"calories"`
	Datetime time.Time `json:"datetime"`
}

func NewFoodEntry(calories int, at time.Time) FoodEntry {
	return FoodEntry{
		ID:       uuid.NewString(),
		Calories: calories,
		Datetime: at,
	}
}

type DailyRecord struct {
	Date       string       `json:"date"`
	Steps      *int         `json:"steps"`
	Calories   *int         `json:"calories"`
	DistanceKm *float64     `json:"distance_km"`
	Sleep      *SleepRecord `json:"sleep,omitempty"`
	Weight     *float64     `json:"weight,omitempty"`
	WaterML    *int         `json:"water_ml,omitempty"`
	FoodLog    []FoodEntry  `json:"food_log,omitempty"`
}

func NewDailyRecord(date string) *DailyRecord {
	return &DailyRecord{Date: date}
}

func (r *DailyRecord) StepCount() int {
	if r == nil || r.Steps == nil {
		return 0
	}
	return *r.Steps
}

func (r *DailyRecord) FoodTotal() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, e := range r.FoodLog {
		total += e.Calories
	}
	return total
}

// MergeSynced copies the provider-owned fields of src into r.
// Manually logged fields (weight, water, food log) are left untouched.
func (r *DailyRecord) MergeSynced(src *DailyRecord) {
	r.Steps = src.Steps
	r.Calories = src.Calories
	r.DistanceKm = src.DistanceKm
	r.Sleep = src.Sleep
}

// Dataset maps a day key to its record. A missing key is an empty day.
type Dataset map[string]*DailyRecord

func (d Dataset) Get(date string) *DailyRecord {
	if d == nil {
		return nil
	}
	return d[date]
}

// GetOrCreate returns the record for date, inserting an empty one when missing.
func (d Dataset) GetOrCreate(date string) *DailyRecord {
	if rec, ok := d[date]; ok && rec != nil {
		return rec
	}
	rec := NewDailyRecord(date)
	d[date] = rec
	return rec
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func ValidateDateKey(s string) error {
	_, err := ParseDate(s)
	return err
}

func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }

// Accepted ranges for manual entries.
const (
	MaxWeightKg = 500
	MaxWaterML  = 20000
	MaxCalories = 20000
)

func ValidateWeight(kg float64) error {
	if math.IsNaN(kg) || kg <= 0 || kg > MaxWeightKg {
		return fmt.Errorf("%w: weight must be in (0, %d] kg", ErrInvalidInput, MaxWeightKg)
	}
	return nil
}

func ValidateWater(ml int) error {
	if ml <= 0 || ml > MaxWaterML {
		return fmt.Errorf("%w: water must be in (0, %d] ml", ErrInvalidInput, MaxWaterML)
	}
	return nil
}

func ValidateCalories(kcal int) error {
	if kcal <= 0 || kcal > MaxCalories {
		return fmt.Errorf("%w: calories must be in (0, %d]", ErrInvalidInput, MaxCalories)
	}
	return nil
}

var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDatetime accepts RFC 3339 timestamps and the zone-less forms sent by
// datetime-local inputs, which are read in loc.
func ParseDatetime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: datetime %q", ErrInvalidInput, s)
}
