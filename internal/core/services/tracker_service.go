package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/metrics"
	"github.com/comitanigiacomo/kanso-vitals/internal/instrumentation"
)

type TrackerService struct {
	store   *SnapshotLock
	metrics *instrumentation.Manager
	loc     *time.Location
	now     func() time.Time
}

func NewTrackerService(store *SnapshotLock, m *instrumentation.Manager, loc *time.Location) *TrackerService {
	if loc == nil {
		loc = time.UTC
	}
	return &TrackerService{
		store:   store,
		metrics: m,
		loc:     loc,
		now:     time.Now,
	}
}

type WeightInput struct {
	Weight float64
	Date   string
}

type WaterInput struct {
	AmountML int
	Date     string
}

type CaloriesInput struct {
	Calories int
	Item     string
	Datetime time.Time
}

// Location is the timezone that defines day boundaries for entries.
func (s *TrackerService) Location() *time.Location {
	return s.loc
}

// resolveDate returns the given day key or today's in the service location.
func (s *TrackerService) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return metrics.DayKey(s.now().In(s.loc)), nil
	}
	if err := domain.ValidateDateKey(date); err != nil {
		return "", err
	}
	return date, nil
}

func (s *TrackerService) LogWeight(ctx context.Context, input WeightInput) (*domain.DailyRecord, error) {
	if err := domain.ValidateWeight(input.Weight); err != nil {
		return nil, err
	}
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}

	var rec domain.DailyRecord
	_, err = s.store.Update(ctx, func(snap *domain.Snapshot) error {
		day := snap.DailyData.GetOrCreate(date)
		day.Weight = domain.FloatPtr(input.Weight)
		rec = *day
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tracker service: failed to log weight: %w", err)
	}

	s.entryLogged("weight")
	log.Infof("[TRACKER] Weight %.1f kg logged for %s", input.Weight, date)
	return &rec, nil
}

// LogWater adds to the day's running total.
func (s *TrackerService) LogWater(ctx context.Context, input WaterInput) (*domain.DailyRecord, error) {
	if err := domain.ValidateWater(input.AmountML); err != nil {
		return nil, err
	}
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}

	var rec domain.DailyRecord
	_, err = s.store.Update(ctx, func(snap *domain.Snapshot) error {
		day := snap.DailyData.GetOrCreate(date)
		total := input.AmountML
		if day.WaterML != nil {
			total += *day.WaterML
		}
		day.WaterML = domain.IntPtr(total)
		rec = *day
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tracker service: failed to log water: %w", err)
	}

	s.entryLogged("water")
	log.Infof("[TRACKER] Water +%d ml logged for %s (total %d ml)", input.AmountML, date, *rec.WaterML)
	return &rec, nil
}

// LogCalories appends a food entry to the day the entry was eaten on.
// A zero Datetime means now.
func (s *TrackerService) LogCalories(ctx context.Context, input CaloriesInput) (*domain.FoodEntry, error) {
	if err := domain.ValidateCalories(input.Calories); err != nil {
		return nil, err
	}

	at := input.Datetime
	if at.IsZero() {
		at = s.now()
	}
	at = at.In(s.loc)
	date := metrics.DayKey(at)

	entry := domain.NewFoodEntry(input.Calories, at)
	entry.Item = strings.TrimSpace(input.Item)

	_, err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		day := snap.DailyData.GetOrCreate(date)
		day.FoodLog = append(day.FoodLog, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tracker service: failed to log calories: %w", err)
	}

	s.entryLogged("calories")
	log.Infof("[TRACKER] %d kcal logged for %s", input.Calories, date)
	return &entry, nil
}

// Snapshot returns the stored document or domain.ErrNoData.
func (s *TrackerService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	return s.store.Load(ctx)
}

func (s *TrackerService) Export(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("[TRACKER] Exported %d days", len(snap.DailyData))
	return snap, nil
}

// Import replaces the whole dataset with snap after validating its day keys.
func (s *TrackerService) Import(ctx context.Context, snap *domain.Snapshot) (int, error) {
	if snap == nil {
		return 0, fmt.Errorf("%w: empty import", domain.ErrInvalidInput)
	}
	if err := snap.Validate(); err != nil {
		return 0, err
	}
	if snap.LastUpdate.IsZero() {
		snap.LastUpdate = s.now().UTC()
	}

	if err := s.store.Replace(ctx, snap); err != nil {
		return 0, fmt.Errorf("tracker service: failed to import: %w", err)
	}

	log.Infof("[TRACKER] Imported %d days", len(snap.DailyData))
	return len(snap.DailyData), nil
}

func (s *TrackerService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("tracker service: failed to clear: %w", err)
	}
	log.Warn("[TRACKER] All data cleared")
	return nil
}

func (s *TrackerService) entryLogged(kind string) {
	if s.metrics != nil {
		s.metrics.EntryLogged(kind)
	}
}
