package services

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/metrics"
	"github.com/comitanigiacomo/kanso-vitals/internal/instrumentation"
)

type SyncResult struct {
	Updated   string `json:"updated"`
	Fetched   int    `json:"fetched"`
	TotalDays int    `json:"total_days"`
}

type SyncService struct {
	store     *SnapshotLock
	provider  domain.ActivityProvider
	metrics   *instrumentation.Manager
	startDate time.Time
	loc       *time.Location
	now       func() time.Time
}

func NewSyncService(store *SnapshotLock, provider domain.ActivityProvider, m *instrumentation.Manager, startDate string, loc *time.Location) (*SyncService, error) {
	start, err := domain.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("sync service: start date: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SyncService{
		store:     store,
		provider:  provider,
		metrics:   m,
		startDate: start,
		loc:       loc,
		now:       time.Now,
	}, nil
}

// Sync pulls provider data into the stored snapshot. The first run backfills
// every day since the start date; later runs fill any gap since the last
// synced day and always refresh today. Failures on single days are skipped;
// the sync only fails when no day could be fetched.
func (s *SyncService) Sync(ctx context.Context) (*SyncResult, error) {
	started := time.Now()
	today := metrics.DayKey(s.now().In(s.loc))

	result := &SyncResult{Updated: today}
	snap, err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		days := s.daysToFetch(snap, today)
		var lastErr error
		failed := 0
		for _, day := range days {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := s.fetchDay(ctx, day)
			if err != nil {
				log.Warnf("[SYNC] Skipping %s: %v", day, err)
				lastErr = err
				failed++
				continue
			}
			if rec == nil {
				continue
			}
			snap.DailyData.GetOrCreate(day).MergeSynced(rec)
			result.Fetched++
		}
		if failed == len(days) {
			return lastErr
		}

		if snap.Period.Start == "" {
			snap.Period.Start = s.startDate.Format(domain.DateLayout)
		}
		if snap.Period.End < today {
			snap.Period.End = today
		}
		snap.SyncedThrough = today
		snap.LastUpdate = s.now().UTC()
		return nil
	})

	elapsed := time.Since(started).Seconds()
	if err != nil {
		s.syncFinished("error", elapsed, 0)
		return nil, fmt.Errorf("sync service: %w", err)
	}

	result.TotalDays = len(snap.DailyData)
	s.syncFinished("success", elapsed, result.TotalDays)
	log.Infof("[SYNC] Updated %s: %d days fetched, %d days tracked", today, result.Fetched, result.TotalDays)
	return result, nil
}

// daysToFetch lists the day keys a sync has to pull, oldest first: everything
// after the last synced day, or everything since the start date on the first run.
func (s *SyncService) daysToFetch(snap *domain.Snapshot, today string) []string {
	from := s.startDate
	if snap.SyncedThrough != "" {
		last, err := domain.ParseDate(snap.SyncedThrough)
		if err != nil || snap.SyncedThrough >= today {
			return []string{today}
		}
		from = last.AddDate(0, 0, 1)
	}

	end, _ := domain.ParseDate(today)
	if from.After(end) {
		return []string{today}
	}
	n := int(end.Sub(from).Hours()/24) + 1
	return metrics.TrailingDays(n, end)
}

func (s *SyncService) fetchDay(ctx context.Context, day string) (*domain.DailyRecord, error) {
	date, err := domain.ParseDate(day)
	if err != nil {
		return nil, err
	}

	stats, err := s.provider.DailySummary(ctx, date)
	if err != nil {
		return nil, err
	}
	sleep, err := s.provider.SleepSummary(ctx, date)
	if err != nil {
		return nil, err
	}
	return ProcessDay(day, stats, sleep), nil
}

// ProcessDay turns provider summaries into a daily record. Calories and
// distance are only kept on days with steps. It returns nil when the day
// has neither steps nor sleep.
func ProcessDay(date string, stats *domain.DailySummary, sleep *domain.SleepSummary) *domain.DailyRecord {
	rec := domain.NewDailyRecord(date)

	if stats != nil && stats.TotalSteps != nil && *stats.TotalSteps > 0 {
		rec.Steps = domain.IntPtr(*stats.TotalSteps)
		if stats.TotalKilocalories != nil {
			rec.Calories = domain.IntPtr(int(math.Round(*stats.TotalKilocalories)))
		}
		if stats.TotalDistanceMeters != nil && *stats.TotalDistanceMeters > 0 {
			rec.DistanceKm = domain.FloatPtr(math.Round(*stats.TotalDistanceMeters/10) / 100)
		}
	}

	if sleep != nil && sleep.SleepTimeSeconds != nil && *sleep.SleepTimeSeconds > 0 {
		rec.Sleep = &domain.SleepRecord{
			TotalMinutes: secondsToMinutes(sleep.SleepTimeSeconds),
			DeepMinutes:  secondsToMinutes(sleep.DeepSleepSeconds),
			LightMinutes: secondsToMinutes(sleep.LightSleepSeconds),
			REMMinutes:   secondsToMinutes(sleep.RemSleepSeconds),
			AwakeMinutes: secondsToMinutes(sleep.AwakeSleepSeconds),
		}
	}

	if rec.Steps == nil && !rec.Sleep.HasData() {
		return nil
	}
	return rec
}

// secondsToMinutes treats a missing phase as zero seconds.
func secondsToMinutes(sec *int) *int {
	if sec == nil {
		return domain.IntPtr(0)
	}
	return domain.IntPtr(int(math.Round(float64(*sec) / 60)))
}

func (s *SyncService) syncFinished(outcome string, seconds float64, days int) {
	if s.metrics != nil {
		s.metrics.SyncFinished(outcome, seconds, days)
	}
}
